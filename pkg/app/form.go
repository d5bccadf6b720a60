package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
)

// ValidError is one translated field validation failure.
type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ",")
}

// MapsToString returns key=message pairs for structured error Data.
func (v ValidErrors) MapsToString() map[string]string {
	m := map[string]string{}
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// BindAndValid binds request parameters into v and translates validator
// failures using the translator installed by the lang middleware.
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors
	err := c.ShouldBind(v)
	if err == nil {
		return true, nil
	}

	verrs, ok := err.(val.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	if trans, exist := c.Get("trans"); exist {
		if translator, tok := trans.(ut.Translator); tok {
			for key, value := range verrs.Translate(translator) {
				errs = append(errs, &ValidError{Key: key, Message: value})
			}
			return false, errs
		}
	}

	// No translator installed (background or test context)
	for _, fe := range verrs {
		errs = append(errs, &ValidError{Key: fe.Field(), Message: fe.Error()})
	}
	return false, errs
}
