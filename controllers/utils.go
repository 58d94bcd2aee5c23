package controllers

import (
	"fmt"
	"hash/crc32"
	"net/url"

	"styleaiapi/models"
	"styleaiapi/wizard"

	"github.com/labstack/echo/v4"
)

func currentLanguage(c echo.Context) models.Language {
	if lang, ok := c.Get("__lang").(models.Language); ok {
		return lang
	}
	return models.EN
}

// SelectIn carries one wizard answer. Exactly one field must be set; HTML option buttons
// post it as a form value named after the field.
type SelectIn struct {
	Gender   string `json:"gender" form:"gender" validate:"omitempty,gender"`
	BodyType string `json:"body_type" form:"body_type" validate:"omitempty,bodytype"`
	Style    string `json:"style" form:"style" validate:"omitempty,style"`
}

func (in SelectIn) selection() (wizard.Field, string, error) {
	var field wizard.Field
	var value string
	count := 0
	if in.Gender != "" {
		field, value = wizard.FieldGender, in.Gender
		count++
	}
	if in.BodyType != "" {
		field, value = wizard.FieldBodyType, in.BodyType
		count++
	}
	if in.Style != "" {
		field, value = wizard.FieldStyle, in.Style
		count++
	}
	if count != 1 {
		return "", "", fmt.Errorf("exactly one of gender, body_type, style is required")
	}
	return field, value, nil
}

// LanguageIn is an explicit language choice, e.g. the ?lang= query.
type LanguageIn struct {
	Lang string `query:"lang" validate:"omitempty,language"`
}

type EditIn struct {
	Instruction string `json:"instruction" form:"instruction" validate:"required,max=500"`
}

func imageFileName(img *models.GeneratedImage) string {
	switch img.MIMEType {
	case "image/jpeg":
		return "styleai-look.jpg"
	case "image/webp":
		return "styleai-look.webp"
	default:
		return "styleai-look.png"
	}
}

// imageURL changes with the image bytes so browsers never show a stale edit.
func imageURL(img *models.GeneratedImage) string {
	return fmt.Sprintf("/wizard/image?v=%08x", crc32.ChecksumIEEE(img.Data))
}

// SearchURL is a Taobao search for the item, matching on colour and name.
func SearchURL(item models.OutfitItem) string {
	return "https://s.taobao.com/search?q=" + url.QueryEscape(item.Color+" "+item.Name)
}
