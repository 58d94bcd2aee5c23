package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"styleaiapi/models"
	"styleaiapi/wizard"

	"github.com/labstack/echo/v4"
)

type OptionCard struct {
	models.Option
	Field    string
	Selected bool
}

type ViewData struct {
	Lang       models.Language
	State      wizard.State
	Dots       []bool
	Title      string
	Hint       string
	Cards      []OptionCard
	CanAdvance bool
	Refresh    bool
	ImageURL   string
	EditNotice string
}

func newViewData(state wizard.State, lang models.Language) ViewData {
	data := ViewData{
		Lang:       lang,
		State:      state,
		CanAdvance: !state.Busy() && state.CanAdvance(),
		Refresh:    state.Generating(),
	}
	for step := wizard.StepGender; step <= wizard.StepResult; step++ {
		data.Dots = append(data.Dots, step <= state.Step)
	}
	if !state.CurrentImage.IsEmpty() {
		data.ImageURL = imageURL(state.CurrentImage)
	}

	switch state.Step {
	case wizard.StepGender:
		data.Title, data.Hint = T(lang, "gender_title"), T(lang, "gender_hint")
		data.Cards = cards(wizard.FieldGender, models.GenderOptions(lang), string(state.Preferences.Gender))
	case wizard.StepBodyType:
		data.Title = T(lang, "body_type_title")
		data.Cards = cards(wizard.FieldBodyType, models.BodyTypeOptions(lang), string(state.Preferences.BodyType))
	case wizard.StepStyle:
		data.Title = T(lang, "style_title")
		data.Cards = cards(wizard.FieldStyle, models.FashionStyleOptions(lang), string(state.Preferences.Style))
	}
	return data
}

func cards(field wizard.Field, options []models.Option, selected string) []OptionCard {
	result := make([]OptionCard, 0, len(options))
	for _, option := range options {
		result = append(result, OptionCard{Option: option, Field: string(field), Selected: option.Value == selected})
	}
	return result
}

type ViewsController struct {
	sessions WizardSessionProvider
}

func (controller *ViewsController) ViewRoutes(g *echo.Group) {
	g.POST("/select", controller.Select)
	g.POST("/next", controller.Next)
	g.POST("/back", controller.Back)
	g.POST("/edit", controller.Edit)
	g.POST("/reset", controller.Reset)
	g.GET("/image", controller.Image)
}

func (controller *ViewsController) Index(c echo.Context) error {
	return controller.render(c, http.StatusOK, "")
}

func (controller *ViewsController) Select(c echo.Context) error {
	var req SelectIn
	if err := c.Bind(&req); err != nil {
		return controller.render(c, http.StatusBadRequest, "")
	}
	if err := c.Validate(req); err != nil {
		return controller.render(c, http.StatusBadRequest, "")
	}
	field, value, err := req.selection()
	if err != nil {
		return controller.render(c, http.StatusBadRequest, "")
	}
	machine, ok := currentWizard(c)
	if !ok {
		return echo.ErrInternalServerError
	}
	if err := machine.Select(field, value); err != nil {
		return controller.render(c, statusFor(err), "")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (controller *ViewsController) Next(c echo.Context) error {
	machine, ok := currentWizard(c)
	if !ok {
		return echo.ErrInternalServerError
	}
	if _, err := startAdvance(c, machine); err != nil {
		return controller.render(c, statusFor(err), "")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (controller *ViewsController) Back(c echo.Context) error {
	machine, ok := currentWizard(c)
	if !ok {
		return echo.ErrInternalServerError
	}
	if err := machine.Retreat(); err != nil {
		return controller.render(c, statusFor(err), "")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Edit waits for the provider and renders the result screen right away, so an edit
// failure shows up as a notice on that screen only.
func (controller *ViewsController) Edit(c echo.Context) error {
	var req EditIn
	if err := c.Bind(&req); err != nil {
		return controller.render(c, http.StatusBadRequest, "")
	}
	lang := currentLanguage(c)
	if err := c.Validate(req); err != nil {
		notice := T(lang, "instruction_too_long")
		if req.Instruction == "" {
			notice = wizard.UserMessage(wizard.ErrEmptyInstruction, lang)
		}
		return controller.render(c, http.StatusBadRequest, notice)
	}
	machine, ok := currentWizard(c)
	if !ok {
		return echo.ErrInternalServerError
	}
	err := machine.EditImage(c.Request().Context(), req.Instruction)
	var editErr *wizard.EditError
	switch {
	case err == nil:
		return c.Redirect(http.StatusSeeOther, "/")
	case errors.As(err, &editErr):
		return controller.render(c, http.StatusOK, T(lang, "edit_failed_prefix")+wizard.UserMessage(err, lang))
	case errors.Is(err, wizard.ErrEmptyInstruction):
		return controller.render(c, http.StatusBadRequest, wizard.UserMessage(err, lang))
	default:
		return controller.render(c, statusFor(err), "")
	}
}

func (controller *ViewsController) Reset(c echo.Context) error {
	machine, ok := currentWizard(c)
	if !ok {
		return echo.ErrInternalServerError
	}
	machine.Reset()
	endSession(c, controller.sessions)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (controller *ViewsController) Image(c echo.Context) error {
	machine, ok := currentWizard(c)
	if !ok {
		return echo.ErrInternalServerError
	}
	image := machine.Snapshot().CurrentImage
	if image.IsEmpty() {
		return echo.ErrNotFound
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	if c.QueryParam("download") == "1" {
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", imageFileName(image)))
	}
	return c.Blob(http.StatusOK, image.MIMEType, image.Data)
}

func (controller *ViewsController) render(c echo.Context, status int, editNotice string) error {
	machine, ok := currentWizard(c)
	if !ok {
		return echo.ErrInternalServerError
	}
	data := newViewData(machine.Snapshot(), currentLanguage(c))
	data.EditNotice = editNotice
	return c.Render(status, "index.html", data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, wizard.ErrBusy), errors.Is(err, wizard.ErrInvalidTransition), errors.Is(err, wizard.ErrNoImage):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
