package languageutil

import (
	"testing"

	"styleaiapi/models"

	"github.com/stretchr/testify/assert"
)

func TestMatchLanguage(t *testing.T) {
	cases := []struct {
		explicit string
		header   string
		want     models.Language
	}{
		{"", "", models.EN},
		{"", "zh-CN,zh;q=0.9,en;q=0.8", models.ZH},
		{"", "zh", models.ZH},
		{"", "en-US,en;q=0.9", models.EN},
		{"", "fr-FR", models.EN},
		{"zh", "en-US", models.ZH},
		{"en", "zh-CN", models.EN},
		{"not a tag!", "zh-CN", models.ZH},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MatchLanguage(tc.explicit, tc.header), "explicit=%q header=%q", tc.explicit, tc.header)
	}
}
