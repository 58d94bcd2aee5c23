package controllers

import (
	"context"
	"errors"
	"net/http"

	"styleaiapi/models"
	"styleaiapi/wizard"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type OptionsResponse struct {
	Genders   []models.Option `json:"genders"`
	BodyTypes []models.Option `json:"body_types"`
	Styles    []models.Option `json:"styles"`
}

type StateResponse struct {
	Step                    int                          `json:"step"`
	StepName                string                       `json:"step_name"`
	Language                models.Language              `json:"language"`
	Preferences             models.Preferences           `json:"preferences"`
	CanAdvance              bool                         `json:"can_advance"`
	IsLoadingRecommendation bool                         `json:"is_loading_recommendation"`
	IsGeneratingImage       bool                         `json:"is_generating_image"`
	IsEditingImage          bool                         `json:"is_editing_image"`
	Recommendation          *models.OutfitRecommendation `json:"recommendation"`
	ImageURL                *string                      `json:"image_url"`
	ImageMIMEType           *string                      `json:"image_mime_type"`
	ErrorMessage            *string                      `json:"error_message"`
}

func stateResponse(state wizard.State, lang models.Language) StateResponse {
	response := StateResponse{
		Step:                    int(state.Step),
		StepName:                state.Step.String(),
		Language:                lang,
		Preferences:             state.Preferences,
		CanAdvance:              !state.Busy() && state.CanAdvance(),
		IsLoadingRecommendation: state.IsLoadingRecommendation,
		IsGeneratingImage:       state.IsGeneratingImage,
		IsEditingImage:          state.IsEditingImage,
		Recommendation:          state.Recommendation,
	}
	if !state.CurrentImage.IsEmpty() {
		url := imageURL(state.CurrentImage)
		response.ImageURL = &url
		response.ImageMIMEType = &state.CurrentImage.MIMEType
	}
	if state.Error != "" {
		response.ErrorMessage = &state.Error
	}
	return response
}

type WizardController struct {
	sessions WizardSessionProvider
}

func (controller *WizardController) WizardRoutes(g *echo.Group) {
	g.GET("/options", controller.Options)
	g.GET("/state", controller.State)
	g.POST("/select", controller.Select)
	g.POST("/advance", controller.Advance)
	g.POST("/retreat", controller.Retreat)
	g.POST("/edit", controller.Edit)
	g.POST("/reset", controller.Reset)
}

func (controller *WizardController) Options(c echo.Context) error {
	lang := currentLanguage(c)
	return c.JSON(http.StatusOK, OptionsResponse{
		Genders:   models.GenderOptions(lang),
		BodyTypes: models.BodyTypeOptions(lang),
		Styles:    models.FashionStyleOptions(lang),
	})
}

func (controller *WizardController) State(c echo.Context) error {
	machine, ok := currentWizard(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Session is not available"})
	}
	return c.JSON(http.StatusOK, stateResponse(machine.Snapshot(), currentLanguage(c)))
}

func (controller *WizardController) Select(c echo.Context) error {
	var req SelectIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	field, value, err := req.selection()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	machine, ok := currentWizard(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Session is not available"})
	}
	if err := machine.Select(field, value); err != nil {
		return wizardErrorJSON(c, err)
	}
	return c.JSON(http.StatusOK, stateResponse(machine.Snapshot(), currentLanguage(c)))
}

// Advance answers 202 when the generation was started; the client polls State until the
// loading flags drop.
func (controller *WizardController) Advance(c echo.Context) error {
	machine, ok := currentWizard(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Session is not available"})
	}
	done, err := startAdvance(c, machine)
	if err != nil {
		return wizardErrorJSON(c, err)
	}
	status := http.StatusOK
	if done != nil {
		status = http.StatusAccepted
	}
	return c.JSON(status, stateResponse(machine.Snapshot(), currentLanguage(c)))
}

func (controller *WizardController) Retreat(c echo.Context) error {
	machine, ok := currentWizard(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Session is not available"})
	}
	if err := machine.Retreat(); err != nil {
		return wizardErrorJSON(c, err)
	}
	return c.JSON(http.StatusOK, stateResponse(machine.Snapshot(), currentLanguage(c)))
}

func (controller *WizardController) Edit(c echo.Context) error {
	var req EditIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	machine, ok := currentWizard(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Session is not available"})
	}
	if err := machine.EditImage(c.Request().Context(), req.Instruction); err != nil {
		return wizardErrorJSON(c, err)
	}
	return c.JSON(http.StatusOK, stateResponse(machine.Snapshot(), currentLanguage(c)))
}

func (controller *WizardController) Reset(c echo.Context) error {
	machine, ok := currentWizard(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Session is not available"})
	}
	machine.Reset()
	endSession(c, controller.sessions)
	return c.JSON(http.StatusOK, stateResponse(machine.Snapshot(), currentLanguage(c)))
}

// startAdvance runs the transition with a context that outlives the request, so a
// generation keeps going after the response is written.
func startAdvance(c echo.Context, machine *wizard.Machine) (<-chan error, error) {
	ctx := context.WithoutCancel(c.Request().Context())
	done, err := machine.AdvanceAsync(ctx)
	if err != nil {
		return nil, err
	}
	if done != nil {
		log.Ctx(ctx).Info().Msg("outfit generation started")
	}
	return done, nil
}

func wizardErrorJSON(c echo.Context, err error) error {
	lang := currentLanguage(c)
	var editErr *wizard.EditError
	switch {
	case errors.As(err, &editErr):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": wizard.UserMessage(err, lang)})
	case errors.Is(err, wizard.ErrBusy), errors.Is(err, wizard.ErrInvalidTransition), errors.Is(err, wizard.ErrNoImage):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, wizard.ErrStepIncomplete), errors.Is(err, wizard.ErrInvalidValue):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, wizard.ErrEmptyInstruction):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": wizard.UserMessage(err, lang)})
	default:
		log.Ctx(c.Request().Context()).Error().Err(err).Msg("unexpected wizard error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
