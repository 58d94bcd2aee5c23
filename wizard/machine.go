package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"styleaiapi/models"
	"styleaiapi/services"

	"github.com/rs/zerolog/log"
)

const (
	phaseRecommend = "recommend"
	phaseRender    = "render"
)

type Option func(*Machine)

// WithTransitionHook registers fn to be called with the name of every applied transition.
func WithTransitionHook(fn func(transition string)) Option {
	return func(m *Machine) {
		m.onTransition = fn
	}
}

func WithLanguage(lang models.Language) Option {
	return func(m *Machine) {
		m.lang = lang
	}
}

// Machine owns the state of one wizard session. The mutex only guards memory; callers
// are expected to keep user input away while a provider call runs.
type Machine struct {
	mu           sync.Mutex
	state        State
	gateway      services.StylistGateway
	lang         models.Language
	onTransition func(string)
	// bumped by Reset so that late provider results of an abandoned run are dropped
	epoch uint64
}

func NewMachine(gateway services.StylistGateway, opts ...Option) *Machine {
	m := &Machine{
		state:   Initial(),
		gateway: gateway,
		lang:    models.EN,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Language() models.Language {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lang
}

// SetLanguage sets the language of user messages and of the next recommendation.
func (m *Machine) SetLanguage(lang models.Language) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lang = lang
}

func (m *Machine) Select(field Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Busy() {
		return ErrBusy
	}
	required, ok := RequiredField(m.state.Step)
	if !ok || required != field {
		return ErrInvalidTransition
	}

	switch field {
	case FieldGender:
		gender, err := models.ParseGender(value)
		if err != nil {
			return errInvalidValue(err)
		}
		m.state.Preferences.Gender = gender
	case FieldBodyType:
		bodyType, err := models.ParseBodyType(value)
		if err != nil {
			return errInvalidValue(err)
		}
		m.state.Preferences.BodyType = bodyType
	case FieldStyle:
		style, err := models.ParseFashionStyle(value)
		if err != nil {
			return errInvalidValue(err)
		}
		m.state.Preferences.Style = style
	}
	m.transitioned("select_" + string(field))
	return nil
}

func (m *Machine) CanAdvance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.state.Busy() && m.state.CanAdvance()
}

// Advance moves to the next step. From the style step it runs the whole generation and
// returns its outcome.
func (m *Machine) Advance(ctx context.Context) error {
	done, err := m.AdvanceAsync(ctx)
	if err != nil {
		return err
	}
	if done == nil {
		return nil
	}
	return <-done
}

// AdvanceAsync is Advance with the generation left running in the background. The state
// is already on the result step when it returns; the channel yields the generation
// outcome once and is nil when no generation was started.
func (m *Machine) AdvanceAsync(ctx context.Context) (<-chan error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Busy() {
		return nil, ErrBusy
	}
	if m.state.Step == StepResult {
		return nil, ErrInvalidTransition
	}
	if !m.state.CanAdvance() {
		return nil, ErrStepIncomplete
	}
	if m.state.Step < StepStyle {
		m.state.Step++
		m.transitioned("advance")
		return nil, nil
	}
	if !m.state.Preferences.IsComplete() {
		return nil, ErrStepIncomplete
	}

	m.state.Step = StepResult
	m.state.IsLoadingRecommendation = true
	m.state.Error = ""
	m.state.Recommendation = nil
	m.state.CurrentImage = nil
	m.transitioned("generate")

	prefs, lang, epoch := m.state.Preferences, m.lang, m.epoch
	done := make(chan error, 1)
	go func() {
		done <- m.generate(ctx, prefs, lang, epoch)
	}()
	return done, nil
}

func (m *Machine) generate(ctx context.Context, prefs models.Preferences, lang models.Language, epoch uint64) error {
	logger := log.Ctx(ctx).With().Str("gender", string(prefs.Gender)).Str("body_type", string(prefs.BodyType)).Str("style", string(prefs.Style)).Logger()

	recommendation, err := m.gateway.Recommend(ctx, prefs, lang)
	if err != nil {
		logger.Warn().Err(err).Msg("recommendation failed")
		m.failGeneration(phaseRecommend, err, lang, epoch)
		return err
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return nil
	}
	m.state.IsLoadingRecommendation = false
	m.state.Recommendation = recommendation
	m.state.IsGeneratingImage = true
	m.mu.Unlock()

	image, err := m.gateway.Render(ctx, recommendation.VisualPrompt)
	if err == nil && image.IsEmpty() {
		err = services.ErrNoImageReturned
	}
	if err != nil {
		logger.Warn().Err(err).Msg("outfit render failed")
		m.failGeneration(phaseRender, err, lang, epoch)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return nil
	}
	m.state.IsGeneratingImage = false
	m.state.CurrentImage = image
	m.transitioned("generated")
	logger.Info().Str("title", recommendation.Title).Msg("outfit generated")
	return nil
}

func (m *Machine) failGeneration(phase string, err error, lang models.Language, epoch uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return
	}
	m.state.IsLoadingRecommendation = false
	m.state.IsGeneratingImage = false
	m.state.Step = StepStyle
	m.state.Recommendation = nil
	m.state.CurrentImage = nil
	m.state.Error = generationMessage(phase, err, lang)
	m.transitioned("generation_failed")
}

// Retreat goes one step back. It does nothing on the first step and is refused on the
// result step, which only offers Reset.
func (m *Machine) Retreat() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.state.Busy():
		return ErrBusy
	case m.state.Step == StepResult:
		return ErrInvalidTransition
	case m.state.Step == StepGender:
		return nil
	}
	m.state.Step--
	m.transitioned("retreat")
	return nil
}

// EditImage replaces the current image with an edited version. On failure the image is
// kept and an *EditError is returned.
func (m *Machine) EditImage(ctx context.Context, instruction string) error {
	m.mu.Lock()
	if m.state.CurrentImage.IsEmpty() {
		m.mu.Unlock()
		return ErrNoImage
	}
	if m.state.Busy() {
		m.mu.Unlock()
		return ErrBusy
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		m.mu.Unlock()
		return ErrEmptyInstruction
	}
	m.state.IsEditingImage = true
	current, epoch := m.state.CurrentImage, m.epoch
	m.mu.Unlock()

	edited, err := m.gateway.Edit(ctx, current, instruction)
	if err == nil && edited.IsEmpty() {
		err = services.ErrNoImageReturned
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		if err != nil {
			return &EditError{Err: err}
		}
		return nil
	}
	m.state.IsEditingImage = false
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("image edit failed")
		m.transitioned("edit_failed")
		return &EditError{Err: err}
	}
	m.state.CurrentImage = edited
	m.transitioned("edit")
	return nil
}

func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch++
	m.state = Initial()
	m.transitioned("reset")
}

func (m *Machine) transitioned(name string) {
	if m.onTransition != nil {
		m.onTransition(name)
	}
}

func errInvalidValue(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidValue, err)
}
