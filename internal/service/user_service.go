package service

import (
	"context"

	"github.com/haierkeys/voice-notes-service/internal/domain"
	"github.com/haierkeys/voice-notes-service/internal/dto"
	"github.com/haierkeys/voice-notes-service/pkg/app"
	"github.com/haierkeys/voice-notes-service/pkg/code"
	"github.com/haierkeys/voice-notes-service/pkg/convert"
	"github.com/haierkeys/voice-notes-service/pkg/timex"
	"github.com/haierkeys/voice-notes-service/pkg/util"

	"go.uber.org/zap"
)

// UserService handles registration, login and account lookup.
type UserService interface {
	// Register creates an account and returns it with a fresh token.
	Register(ctx context.Context, params *dto.UserRegisterRequest, clientIP string) (*dto.UserDTO, error)

	// Login verifies credentials and returns the account with a fresh token.
	Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error)

	// GetInfo returns the account for an authenticated uid.
	GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error)
}

type userService struct {
	userRepo     domain.UserRepository
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
}

func NewUserService(userRepo domain.UserRepository, tokenManager app.TokenManager, logger *zap.Logger, config *ServiceConfig) UserService {
	return &userService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		logger:       logger,
		config:       config,
	}
}

func (s *userService) domainToDTO(user *domain.User) *dto.UserDTO {
	if user == nil {
		return nil
	}
	out := convert.StructAssign(user, &dto.UserDTO{}).(*dto.UserDTO)
	out.CreatedAt = timex.Time(user.CreatedAt)
	out.UpdatedAt = timex.Time(user.UpdatedAt)
	return out
}

func (s *userService) Register(ctx context.Context, params *dto.UserRegisterRequest, clientIP string) (*dto.UserDTO, error) {
	if s.config == nil || !s.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterDisabled
	}

	existing, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if existing != nil {
		return nil, code.ErrorUserEmailExist
	}

	hash, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return nil, code.ErrorUserRegisterFailed.WithDetails(err.Error())
	}

	nickname := params.Nickname
	if nickname == "" {
		nickname = params.Email
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Email:    params.Email,
		Password: hash,
		Nickname: nickname,
	})
	if err != nil {
		return nil, code.ErrorUserRegisterFailed.WithDetails(err.Error())
	}

	s.logger.Info("user registered",
		zap.Int64("uid", user.UID),
		zap.String("ip", clientIP))

	return s.issueToken(user, clientIP)
}

func (s *userService) Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if user == nil || !util.CheckPasswordHash(user.Password, params.Password) {
		return nil, code.ErrorPasswordNotValid
	}

	return s.issueToken(user, clientIP)
}

func (s *userService) GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if user == nil {
		return nil, code.ErrorUserNotFound
	}
	return s.domainToDTO(user), nil
}

func (s *userService) issueToken(user *domain.User, clientIP string) (*dto.UserDTO, error) {
	token, err := s.tokenManager.Generate(user.UID, user.Nickname, clientIP)
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}
	out := s.domainToDTO(user)
	out.Token = token
	return out, nil
}
