package controllers

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"styleaiapi/models"
	"styleaiapi/services"
	"styleaiapi/wizard"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

//go:embed templates
var embededFiles embed.FS

// WizardSessionProvider hands out the wizard of a browser session.
type WizardSessionProvider interface {
	Load(ctx context.Context, id string) (*wizard.Machine, bool, error)
	Delete(ctx context.Context, id string) error
}

// NewWizardSessions builds the in-memory session store whose new sessions start a fresh
// wizard on gateway.
func NewWizardSessions(gateway services.StylistGateway, metrics *services.Metrics, ttl time.Duration, capacity int) (*services.SessionStore[*wizard.Machine], error) {
	return services.NewSessionStore(ttl, capacity, func() *wizard.Machine {
		return wizard.NewMachine(gateway, wizard.WithTransitionHook(metrics.ObserveTransition))
	})
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("gender", models.ValidateGender)
	v.RegisterValidation("bodytype", models.ValidateBodyType)
	v.RegisterValidation("style", models.ValidateFashionStyle)
	v.RegisterValidation("language", models.ValidateLanguage)
	return v
}

func newRenderer() *Template {
	templates := template.Must(template.New("").Funcs(template.FuncMap{
		"t":         T,
		"dict":      dict,
		"searchURL": SearchURL,
	}).ParseFS(embededFiles, "templates/*.html"))
	return &Template{templates: templates}
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict needs key value pairs")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// SetupServer wires routes and middlewares. gatherer may be nil, then /metrics is not served.
func SetupServer(sessions WizardSessionProvider, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Renderer = newRenderer()
	e.Validator = &CustomValidator{validator: newValidator()}

	e.Use(RequestLogger)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	sessionMiddleware := SessionMiddleware(sessions)

	viewsController := ViewsController{sessions: sessions}
	e.GET("/", viewsController.Index, sessionMiddleware)
	viewsGroup := e.Group("/wizard", sessionMiddleware)
	viewsController.ViewRoutes(viewsGroup)

	wizardController := WizardController{sessions: sessions}
	wizardGroup := e.Group("/api/wizard", sessionMiddleware)
	wizardController.WizardRoutes(wizardGroup)

	log.Debug().Int("routes", len(e.Routes())).Msg("server routes registered")
	return e
}
