package models

type OutfitItem struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Color       string `json:"color" validate:"required"`
}

type OutfitItems struct {
	Top    OutfitItem `json:"top"`
	Bottom OutfitItem `json:"bottom"`
	Shoes  OutfitItem `json:"shoes"`
}

// OutfitRecommendation mirrors the provider's structured answer field by field,
// so json tags are the wire contract of the response schema.
type OutfitRecommendation struct {
	Title        string      `json:"title" validate:"required"`
	Explanation  string      `json:"explanation" validate:"required"`
	Items        OutfitItems `json:"items"`
	VisualPrompt string      `json:"visualPrompt" validate:"required"`
}

// GeneratedImage is the single current picture of a session.
type GeneratedImage struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

func (img *GeneratedImage) IsEmpty() bool {
	return img == nil || len(img.Data) == 0
}
