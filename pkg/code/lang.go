package code

import (
	"errors"
	"reflect"
)

// lang stores the message text per supported language.
type lang struct {
	en    string
	zh_cn string
}

var lng = "en"

const FALLBACK_LNG = "en"

// GetMessage returns the message for the globally selected language, falling
// back to English when the selected language has no text.
func (l lang) GetMessage() string {
	if lng == "" {
		lng = FALLBACK_LNG
	}
	val := reflect.ValueOf(l)
	field := val.FieldByName(lng)
	if field.IsValid() && field.String() != "" {
		return field.String()
	}
	fallbackField := val.FieldByName(FALLBACK_LNG)
	if fallbackField.IsValid() && fallbackField.String() != "" {
		return fallbackField.String()
	}
	return "no message available for language: " + lng
}

// GetSupportedLanguages lists the field names of the lang type.
func GetSupportedLanguages() []string {
	var languages []string
	typ := reflect.TypeOf(lang{})
	for i := 0; i < typ.NumField(); i++ {
		languages = append(languages, typ.Field(i).Name)
	}
	return languages
}

// SetGlobalDefaultLang switches the global message language.
func SetGlobalDefaultLang(language string) error {
	for _, l := range GetSupportedLanguages() {
		if language == l {
			lng = language
			return nil
		}
	}
	lng = FALLBACK_LNG
	return errors.New("unsupported language type, defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang returns the current global message language.
func GetGlobalDefaultLang() string {
	return lng
}
