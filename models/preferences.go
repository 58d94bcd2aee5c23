package models

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

var Genders = []Gender{GenderMale, GenderFemale}

type BodyType string

const (
	BodyTypeSlim     BodyType = "slim"
	BodyTypeAverage  BodyType = "average"
	BodyTypeAthletic BodyType = "athletic"
	BodyTypePlusSize BodyType = "plus-size"
)

var BodyTypes = []BodyType{BodyTypeSlim, BodyTypeAverage, BodyTypeAthletic, BodyTypePlusSize}

type FashionStyle string

const (
	StyleCasual         FashionStyle = "casual"
	StyleFormal         FashionStyle = "formal"
	StyleStreetwear     FashionStyle = "streetwear"
	StyleVintage        FashionStyle = "vintage"
	StyleMinimalist     FashionStyle = "minimalist"
	StyleBusinessCasual FashionStyle = "smart-casual"
	StyleOldMoney       FashionStyle = "old-money"
	StyleCyberpunk      FashionStyle = "cyberpunk"
	StyleY2K            FashionStyle = "y2k"
	StyleGorpcore       FashionStyle = "gorpcore"
	StyleFrenchChic     FashionStyle = "french-chic"
	StyleIvyLeague      FashionStyle = "ivy-league"
	StyleWorkwear       FashionStyle = "workwear"
	StyleDarkwear       FashionStyle = "darkwear"
)

var FashionStyles = []FashionStyle{
	StyleCasual,
	StyleFormal,
	StyleStreetwear,
	StyleVintage,
	StyleMinimalist,
	StyleBusinessCasual,
	StyleOldMoney,
	StyleCyberpunk,
	StyleY2K,
	StyleGorpcore,
	StyleFrenchChic,
	StyleIvyLeague,
	StyleWorkwear,
	StyleDarkwear,
}

// Preferences holds the three wizard answers. Empty values mean "not chosen yet".
type Preferences struct {
	Gender   Gender       `json:"gender"`
	BodyType BodyType     `json:"body_type"`
	Style    FashionStyle `json:"style"`
}

func (p Preferences) IsComplete() bool {
	return p.Gender != "" && p.BodyType != "" && p.Style != ""
}

func ParseGender(value string) (Gender, error) {
	for _, g := range Genders {
		if string(g) == value {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown gender %q", value)
}

func ParseBodyType(value string) (BodyType, error) {
	for _, b := range BodyTypes {
		if string(b) == value {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown body type %q", value)
}

func ParseFashionStyle(value string) (FashionStyle, error) {
	for _, s := range FashionStyles {
		if string(s) == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown fashion style %q", value)
}

var (
	genderRule   = regexp.MustCompile(`^(male|female)$`)
	bodyTypeRule = regexp.MustCompile(`^(slim|average|athletic|plus-size)$`)
)

func ValidateGender(fl validator.FieldLevel) bool {
	return genderRule.MatchString(fl.Field().String())
}

func ValidateBodyType(fl validator.FieldLevel) bool {
	return bodyTypeRule.MatchString(fl.Field().String())
}

func ValidateFashionStyle(fl validator.FieldLevel) bool {
	_, err := ParseFashionStyle(fl.Field().String())
	return err == nil
}
