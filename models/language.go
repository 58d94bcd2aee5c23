package models

import (
	"regexp"

	"github.com/go-playground/validator"
)

type Language string

const (
	EN Language = "en"
	ZH Language = "zh"
)

// EnglishName is the language name used inside provider prompts.
func (l Language) EnglishName() string {
	switch l {
	case ZH:
		return "Simplified Chinese"
	default:
		return "English"
	}
}

func ValidateLanguage(fl validator.FieldLevel) bool {
	matched, _ := regexp.MatchString("^(en|zh)$", fl.Field().String())
	return matched
}
