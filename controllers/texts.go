package controllers

import "styleaiapi/models"

var texts = map[models.Language]map[string]string{
	models.EN: {
		"tagline":              "Your personal AI stylist",
		"gender_title":         "Choose your gender",
		"gender_hint":          "We start from the base cut that fits you",
		"body_type_title":      "What is your body type?",
		"style_title":          "Pick the style you like",
		"back":                 "Back",
		"next":                 "Next",
		"generate":             "Generate",
		"loading_title":        "Tailoring your look...",
		"loading_hint":         "Style AI is reading the trends",
		"rendering":            "Rendering your outfit photo...",
		"why":                  "Why it works",
		"top":                  "Top",
		"bottom":               "Bottom",
		"shoes":                "Shoes",
		"edit_label":           "Adjust the photo",
		"edit_placeholder":     "e.g. change the shirt to white",
		"edit_submit":          "Apply",
		"editing":              "Applying your change...",
		"download":             "Download",
		"start_over":           "Start over",
		"edit_failed_prefix":   "Edit failed: ",
		"instruction_too_long": "Please keep the change under 500 characters.",
		"search_shop":          "Search on Taobao",
		"footer":               "StyleAI. Powered by Google Gemini.",
	},
	models.ZH: {
		"tagline":              "您的私人 AI 造型顾问",
		"gender_title":         "请选择您的性别",
		"gender_hint":          "我们将根据性别提供基础剪裁建议",
		"body_type_title":      "您的身材类型是？",
		"style_title":          "选择您偏好的风格",
		"back":                 "返回 (Back)",
		"next":                 "下一步 (Next)",
		"generate":             "生成推荐 (Generate)",
		"loading_title":        "正在定制您的专属造型...",
		"loading_hint":         "Style AI 正在分析潮流趋势",
		"rendering":            "正在生成造型图片...",
		"why":                  "推荐理由",
		"top":                  "上装",
		"bottom":               "下装",
		"shoes":                "鞋履",
		"edit_label":           "调整图片",
		"edit_placeholder":     "例如：把衬衫换成白色",
		"edit_submit":          "应用",
		"editing":              "正在修改图片...",
		"download":             "下载",
		"start_over":           "重新开始",
		"edit_failed_prefix":   "编辑失败: ",
		"instruction_too_long": "修改描述请控制在 500 字以内。",
		"search_shop":          "在淘宝搜索",
		"footer":               "StyleAI. Powered by Google Gemini.",
	},
}

// T returns the UI text for key, falling back to English.
func T(lang models.Language, key string) string {
	if text, ok := texts[lang][key]; ok {
		return text
	}
	return texts[models.EN][key]
}
