package services

import (
	"context"
	"errors"
	"fmt"

	"styleaiapi/models"
)

var (
	ErrEmptyResponse       = errors.New("provider returned no text")
	ErrMalformedResponse   = errors.New("provider returned a malformed recommendation")
	ErrNoImageReturned     = errors.New("provider returned no image")
	ErrProviderUnavailable = errors.New("provider is not configured")
	ErrNoSourceImage       = errors.New("edit needs an existing image")
)

// ProviderError wraps any transport level failure of the provider as is.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StylistGateway is the only door to the generative provider.
type StylistGateway interface {
	Recommend(ctx context.Context, prefs models.Preferences, lang models.Language) (*models.OutfitRecommendation, error)
	Render(ctx context.Context, visualPrompt string) (*models.GeneratedImage, error)
	Edit(ctx context.Context, image *models.GeneratedImage, instruction string) (*models.GeneratedImage, error)
}
