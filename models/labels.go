package models

type label struct {
	en, zh string
}

func (l label) in(lang Language) string {
	if lang == ZH && l.zh != "" {
		return l.zh
	}
	return l.en
}

// Option is one selectable card of a wizard step.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

var genderLabels = map[Gender]label{
	GenderMale:   {"Gentleman", "男士 (GENTLEMAN)"},
	GenderFemale: {"Lady", "女士 (LADY)"},
}

var genderDescriptions = map[Gender]label{
	GenderMale:   {"Explore strong lines and gentlemanly tailoring", "探索硬朗线条与绅士格调"},
	GenderFemale: {"Discover graceful silhouettes and versatile looks", "发掘优雅曲线与多变风格"},
}

var bodyTypeLabels = map[BodyType]label{
	BodyTypeSlim:     {"Slim", "修身/偏瘦"},
	BodyTypeAverage:  {"Average", "标准匀称"},
	BodyTypeAthletic: {"Athletic", "健硕/运动"},
	BodyTypePlusSize: {"Plus size", "大码/丰满"},
}

var styleLabels = map[FashionStyle]label{
	StyleCasual:         {"Casual", "休闲日常"},
	StyleFormal:         {"Formal", "商务正装"},
	StyleStreetwear:     {"Streetwear", "潮流街头"},
	StyleVintage:        {"Vintage", "复古文艺"},
	StyleMinimalist:     {"Minimalist", "极简主义"},
	StyleBusinessCasual: {"Smart Casual", "商务休闲"},
	StyleOldMoney:       {"Old Money", "老钱风"},
	StyleCyberpunk:      {"Cyberpunk", "赛博朋克"},
	StyleY2K:            {"Y2K", "千禧辣妹/Y2K"},
	StyleGorpcore:       {"Gorpcore", "山系户外"},
	StyleFrenchChic:     {"French Chic", "法式慵懒"},
	StyleIvyLeague:      {"Ivy League", "常春藤学院"},
	StyleWorkwear:       {"Workwear", "日系工装"},
	StyleDarkwear:       {"Darkwear", "暗黑先锋"},
}

func (g Gender) Label(lang Language) string {
	return genderLabels[g].in(lang)
}

func (g Gender) Description(lang Language) string {
	return genderDescriptions[g].in(lang)
}

func (b BodyType) Label(lang Language) string {
	return bodyTypeLabels[b].in(lang)
}

func (s FashionStyle) Label(lang Language) string {
	return styleLabels[s].in(lang)
}

// Descriptor is the English style name shown under the card and sent to the provider.
func (s FashionStyle) Descriptor() string {
	return styleLabels[s].en
}

func GenderOptions(lang Language) []Option {
	options := make([]Option, 0, len(Genders))
	for _, g := range Genders {
		options = append(options, Option{Value: string(g), Label: g.Label(lang), Description: g.Description(lang)})
	}
	return options
}

func BodyTypeOptions(lang Language) []Option {
	options := make([]Option, 0, len(BodyTypes))
	for _, b := range BodyTypes {
		options = append(options, Option{Value: string(b), Label: b.Label(lang)})
	}
	return options
}

func FashionStyleOptions(lang Language) []Option {
	options := make([]Option, 0, len(FashionStyles))
	for _, s := range FashionStyles {
		options = append(options, Option{Value: string(s), Label: s.Label(lang), Description: s.Descriptor()})
	}
	return options
}
