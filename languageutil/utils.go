package languageutil

import (
	"styleaiapi/models"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English, // first tag is the fallback
	language.SimplifiedChinese,
}

var matcher = language.NewMatcher(supported)

// MatchLanguage picks the UI language for the given explicit choice (a "lang" query or
// form value) and Accept-Language header. The explicit choice wins when it parses.
func MatchLanguage(explicit string, acceptLanguage string) models.Language {
	var prefs []language.Tag
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			prefs = append(prefs, tag)
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
		prefs = append(prefs, tags...)
	}
	_, index, confidence := matcher.Match(prefs...)
	if confidence == language.No {
		return models.EN
	}
	if supported[index] == language.SimplifiedChinese {
		return models.ZH
	}
	return models.EN
}
