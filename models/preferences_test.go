package models

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerations(t *testing.T) {
	assert.Len(t, Genders, 2)
	assert.Len(t, BodyTypes, 4)
	assert.Len(t, FashionStyles, 14)
}

func TestParse(t *testing.T) {
	gender, err := ParseGender("female")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, gender)

	bodyType, err := ParseBodyType("plus-size")
	require.NoError(t, err)
	assert.Equal(t, BodyTypePlusSize, bodyType)

	style, err := ParseFashionStyle("smart-casual")
	require.NoError(t, err)
	assert.Equal(t, StyleBusinessCasual, style)

	_, err = ParseGender("")
	assert.Error(t, err)
	_, err = ParseBodyType("huge")
	assert.Error(t, err)
	_, err = ParseFashionStyle("Casual")
	assert.Error(t, err)
}

func TestPreferencesIsComplete(t *testing.T) {
	assert.False(t, Preferences{}.IsComplete())
	assert.False(t, Preferences{Gender: GenderMale, BodyType: BodyTypeSlim}.IsComplete())
	assert.True(t, Preferences{Gender: GenderMale, BodyType: BodyTypeSlim, Style: StyleY2K}.IsComplete())
}

func TestEveryOptionLabelled(t *testing.T) {
	for _, lang := range []Language{EN, ZH} {
		for _, option := range GenderOptions(lang) {
			assert.NotEmpty(t, option.Label)
			assert.NotEmpty(t, option.Description)
		}
		for _, option := range BodyTypeOptions(lang) {
			assert.NotEmpty(t, option.Label)
		}
		for _, option := range FashionStyleOptions(lang) {
			assert.NotEmpty(t, option.Label, option.Value)
			assert.NotEmpty(t, option.Description, option.Value)
		}
	}
	assert.Equal(t, "老钱风", StyleOldMoney.Label(ZH))
	assert.Equal(t, "Old Money", StyleOldMoney.Label(EN))
	assert.Equal(t, "Smart Casual", StyleBusinessCasual.Descriptor())
	assert.Equal(t, "修身/偏瘦", BodyTypeSlim.Label(ZH))
}

type preferencesIn struct {
	Gender   string `validate:"gender"`
	BodyType string `validate:"bodytype"`
	Style    string `validate:"style"`
	Language string `validate:"language"`
}

func TestValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("gender", ValidateGender))
	require.NoError(t, v.RegisterValidation("bodytype", ValidateBodyType))
	require.NoError(t, v.RegisterValidation("style", ValidateFashionStyle))
	require.NoError(t, v.RegisterValidation("language", ValidateLanguage))

	assert.NoError(t, v.Struct(preferencesIn{Gender: "male", BodyType: "athletic", Style: "darkwear", Language: "zh"}))
	assert.Error(t, v.Struct(preferencesIn{Gender: "other", BodyType: "athletic", Style: "darkwear", Language: "zh"}))
	assert.Error(t, v.Struct(preferencesIn{Gender: "male", BodyType: "tall", Style: "darkwear", Language: "zh"}))
	assert.Error(t, v.Struct(preferencesIn{Gender: "male", BodyType: "athletic", Style: "punk", Language: "zh"}))
	assert.Error(t, v.Struct(preferencesIn{Gender: "male", BodyType: "athletic", Style: "darkwear", Language: "fr"}))
}

func TestGeneratedImage(t *testing.T) {
	var missing *GeneratedImage
	assert.True(t, missing.IsEmpty())

	img := &GeneratedImage{MIMEType: "image/png", Data: []byte("hi")}
	assert.False(t, img.IsEmpty())
}

func TestRecommendationShapeValidation(t *testing.T) {
	item := OutfitItem{Name: "a", Description: "b", Color: "c"}
	valid := OutfitRecommendation{
		Title:        "t",
		Explanation:  "e",
		Items:        OutfitItems{Top: item, Bottom: item, Shoes: item},
		VisualPrompt: "Full body shot of a female model",
	}
	v := validator.New()
	assert.NoError(t, v.Struct(valid))

	missingColor := valid
	missingColor.Items.Shoes.Color = ""
	assert.Error(t, v.Struct(missingColor))
}
