package services

import (
	"context"
	"errors"
	"time"

	"styleaiapi/models"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
)

// InstrumentedGateway logs and measures every call of the wrapped gateway.
type InstrumentedGateway struct {
	next    StylistGateway
	metrics *Metrics
}

func NewInstrumentedGateway(next StylistGateway, metrics *Metrics) *InstrumentedGateway {
	return &InstrumentedGateway{next: next, metrics: metrics}
}

func (g *InstrumentedGateway) Recommend(ctx context.Context, prefs models.Preferences, lang models.Language) (*models.OutfitRecommendation, error) {
	start := time.Now()
	rec, err := g.next.Recommend(ctx, prefs, lang)
	g.observe(ctx, "recommend", start, err)
	return rec, err
}

func (g *InstrumentedGateway) Render(ctx context.Context, visualPrompt string) (*models.GeneratedImage, error) {
	start := time.Now()
	img, err := g.next.Render(ctx, visualPrompt)
	g.observe(ctx, "render", start, err)
	return img, err
}

func (g *InstrumentedGateway) Edit(ctx context.Context, image *models.GeneratedImage, instruction string) (*models.GeneratedImage, error) {
	start := time.Now()
	img, err := g.next.Edit(ctx, image, instruction)
	g.observe(ctx, "edit", start, err)
	return img, err
}

func (g *InstrumentedGateway) observe(ctx context.Context, op string, start time.Time, err error) {
	took := time.Since(start)
	outcome := Outcome(err)
	g.metrics.ObserveGatewayCall(op, outcome, took)

	logger := log.Ctx(ctx)
	if err == nil {
		logger.Info().Str("op", op).Dur("took", took).Msg("provider call finished")
		return
	}
	logger.Error().Err(err).Str("op", op).Str("outcome", outcome).Dur("took", took).Msg("provider call failed")

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		sentry.CaptureException(err)
	}
}

// Outcome names the error class of a gateway call for metrics.
func Outcome(err error) string {
	var providerErr *ProviderError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrNoImageReturned):
		return "no_image"
	case errors.Is(err, ErrNoSourceImage):
		return "no_source_image"
	case errors.As(err, &providerErr):
		return "provider_error"
	default:
		return "error"
	}
}
