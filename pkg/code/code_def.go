package code

// Success / failure envelopes
var (
	Success = NewSuss(200, lang{en: "Success", zh_cn: "成功"})
	Failed  = NewError(201, lang{en: "Failed", zh_cn: "失败"})
)

// Generic request errors
var (
	ErrorInvalidParams        = NewError(1001, lang{en: "Invalid request parameters", zh_cn: "请求参数错误"})
	ErrorNotFoundAPI          = NewError(1002, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorTooManyRequests      = NewError(1003, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorServerInternal       = NewError(1004, lang{en: "Internal server error", zh_cn: "服务内部错误"})
	ErrorDBQuery              = NewError(1005, lang{en: "Database query error", zh_cn: "数据库查询错误"})
	ErrorNotUserAuthToken     = NewError(1101, lang{en: "Missing auth token", zh_cn: "缺少认证令牌"})
	ErrorInvalidUserAuthToken = NewError(1102, lang{en: "Invalid auth token", zh_cn: "认证令牌无效"})
	ErrorTokenGenerate        = NewError(1103, lang{en: "Failed to generate token", zh_cn: "令牌生成失败"})
)

// User errors
var (
	ErrorUserRegisterDisabled = NewError(2001, lang{en: "Registration is disabled", zh_cn: "注册已关闭"})
	ErrorUserEmailExist       = NewError(2002, lang{en: "Email already registered", zh_cn: "邮箱已注册"})
	ErrorUserNotFound         = NewError(2003, lang{en: "User not found", zh_cn: "用户不存在"})
	ErrorPasswordNotValid     = NewError(2004, lang{en: "Invalid email or password", zh_cn: "邮箱或密码错误"})
	ErrorUserRegisterFailed   = NewError(2005, lang{en: "Failed to register user", zh_cn: "用户注册失败"})
)

// Note errors
var (
	ErrorNoteNotFound     = NewError(3001, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorNoteCreateFailed = NewError(3002, lang{en: "Failed to create note", zh_cn: "笔记创建失败"})
	ErrorNoteUpdateFailed = NewError(3003, lang{en: "Failed to update note", zh_cn: "笔记更新失败"})
	ErrorNoteDeleteFailed = NewError(3004, lang{en: "Failed to delete note", zh_cn: "笔记删除失败"})
	ErrorNoteListFailed   = NewError(3005, lang{en: "Failed to list notes", zh_cn: "笔记列表获取失败"})
)

// Transcription pipeline errors
var (
	ErrorTranscribeNoAudio = NewError(4001, lang{en: "No audio data provided", zh_cn: "未提供音频数据"})
	ErrorTranscribeFailed  = NewError(4002, lang{en: "Failed to process audio", zh_cn: "音频处理失败"})
)
