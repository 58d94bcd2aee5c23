package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"styleaiapi/models"

	"github.com/go-playground/validator"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// LLMModelName is the Gemini model used for a call.
type LLMModelName int32

const (
	Flash25 LLMModelName = iota
	Flash25Image
)

func (t LLMModelName) String() string {
	switch t {
	case Flash25Image:
		return "gemini-2.5-flash-image"
	default:
		return "gemini-2.5-flash"
	}
}

const renderPreamble = "Professional fashion editorial photography, 8k resolution, highly detailed, soft cinematic lighting, neutral minimalist background. "

const editTemplate = "Edit this image based on the following instruction: %s. Maintain the high-fashion aesthetic and realistic look."

func floatPointer(f float32) *float32 {
	return &f
}

type GoogleStylistConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
	// BaseURL overrides the Gemini endpoint, empty means the public API.
	BaseURL string
}

type GoogleStylistGateway struct {
	client     *genai.Client
	textModel  string
	imageModel string
	validate   *validator.Validate
}

// NewGoogleStylistGateway builds the Gemini backed gateway. A missing API key is not an
// error here: the gateway is still returned and every call reports ErrProviderUnavailable.
func NewGoogleStylistGateway(ctx context.Context, cfg GoogleStylistConfig) (*GoogleStylistGateway, error) {
	gateway := &GoogleStylistGateway{
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		validate:   validator.New(),
	}
	if gateway.textModel == "" {
		gateway.textModel = Flash25.String()
	}
	if gateway.imageModel == "" {
		gateway.imageModel = Flash25Image.String()
	}
	if cfg.APIKey == "" {
		return gateway, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	gateway.client = client
	return gateway, nil
}

func (g *GoogleStylistGateway) Available() bool {
	return g.client != nil
}

func itemSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"color":       {Type: genai.TypeString},
		},
		Required: []string{"name", "description", "color"},
	}
}

func recommendationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString, Description: "Fashion look title"},
			"explanation": {Type: genai.TypeString, Description: "Why the outfit suits the body type and style"},
			"items": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"top":    itemSchema(),
					"bottom": itemSchema(),
					"shoes":  itemSchema(),
				},
				Required: []string{"top", "bottom", "shoes"},
			},
			"visualPrompt": {Type: genai.TypeString, Description: "Detailed English prompt for image generation"},
		},
		Required: []string{"title", "explanation", "items", "visualPrompt"},
	}
}

func recommendationPrompt(prefs models.Preferences, lang models.Language) string {
	return fmt.Sprintf(`You are a top fashion stylist who builds refined, appropriate outfits that match the client's personality.

Client profile:
- Gender: %s
- Body type: %s
- Clothing style: %s

Recommend one complete outfit (top, bottom, shoes).

Requirements:
1. Answer in %s, except for visualPrompt.
2. Give the look a fashionable title (title).
3. Briefly explain why the outfit suits the client's body type and style (explanation).
4. Describe every item in detail (name, description, color).
5. Provide a 'visualPrompt' in English for an AI image model to render a full body model photo.
   - visualPrompt must be very detailed: the model's appearance, fabric, cut and color of each garment, the pose (full body shot) and the background (clean high-end studio).
   - visualPrompt must start with "Full body shot of a %s model...".`,
		prefs.Gender, prefs.BodyType.Label(models.EN), prefs.Style.Descriptor(),
		lang.EnglishName(), prefs.Gender)
}

func cleanAIResponseText(text string) string {
	cleanContent := strings.TrimSpace(text)
	cleanContent = strings.TrimPrefix(cleanContent, "```json")
	cleanContent = strings.TrimSuffix(cleanContent, "```")
	return strings.TrimSpace(cleanContent)
}

func (g *GoogleStylistGateway) Recommend(ctx context.Context, prefs models.Preferences, lang models.Language) (*models.OutfitRecommendation, error) {
	if !g.Available() {
		return nil, ErrProviderUnavailable
	}
	result, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(recommendationPrompt(prefs, lang)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   recommendationSchema(),
		CandidateCount:   1,
		Temperature:      floatPointer(1),
	})
	if err != nil {
		return nil, &ProviderError{Op: "recommend", Err: err}
	}
	logUsage(ctx, "recommend", result)
	if reason := blockReason(result); reason != "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResponse, reason)
	}

	text := cleanAIResponseText(result.Text())
	if text == "" {
		return nil, ErrEmptyResponse
	}
	var recommendation models.OutfitRecommendation
	if err := json.Unmarshal([]byte(text), &recommendation); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := g.validate.Struct(recommendation); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &recommendation, nil
}

func (g *GoogleStylistGateway) Render(ctx context.Context, visualPrompt string) (*models.GeneratedImage, error) {
	if !g.Available() {
		return nil, ErrProviderUnavailable
	}
	result, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(renderPreamble+visualPrompt), imageConfig())
	if err != nil {
		return nil, &ProviderError{Op: "render", Err: err}
	}
	logUsage(ctx, "render", result)
	return firstInlineImage(result)
}

func (g *GoogleStylistGateway) Edit(ctx context.Context, image *models.GeneratedImage, instruction string) (*models.GeneratedImage, error) {
	if !g.Available() {
		return nil, ErrProviderUnavailable
	}
	if image.IsEmpty() {
		return nil, ErrNoSourceImage
	}
	parts := []*genai.Part{
		genai.NewPartFromBytes(image.Data, image.MIMEType),
		genai.NewPartFromText(fmt.Sprintf(editTemplate, instruction)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	result, err := g.client.Models.GenerateContent(ctx, g.imageModel, contents, imageConfig())
	if err != nil {
		return nil, &ProviderError{Op: "edit", Err: err}
	}
	logUsage(ctx, "edit", result)
	return firstInlineImage(result)
}

func imageConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		CandidateCount:     1,
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
}

func blockReason(result *genai.GenerateContentResponse) string {
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return fmt.Sprintf("prompt blocked: %s %s", result.PromptFeedback.BlockReason, result.PromptFeedback.BlockReasonMessage)
	}
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return fmt.Sprintf("content blocked by safety setting: %s", rating.Category)
			}
		}
	}
	return ""
}

// firstInlineImage returns the first inline image part of the first candidate carrying one.
func firstInlineImage(result *genai.GenerateContentResponse) (*models.GeneratedImage, error) {
	if reason := blockReason(result); reason != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoImageReturned, reason)
	}
	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return &models.GeneratedImage{MIMEType: mimeType, Data: part.InlineData.Data}, nil
		}
	}
	return nil, ErrNoImageReturned
}

func logUsage(ctx context.Context, op string, result *genai.GenerateContentResponse) {
	event := log.Ctx(ctx).Debug().Str("op", op).Int("candidates", len(result.Candidates))
	if result.UsageMetadata != nil {
		event = event.
			Int32("input_tokens", result.UsageMetadata.PromptTokenCount).
			Int32("output_tokens", result.UsageMetadata.CandidatesTokenCount).
			Int32("total_tokens", result.UsageMetadata.TotalTokenCount)
	}
	event.Msg("genai response")
}
