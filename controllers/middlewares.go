package controllers

import (
	"errors"
	"net/http"
	"time"

	"styleaiapi/languageutil"
	"styleaiapi/services"
	"styleaiapi/wizard"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SessionCookieName  = "styleai_session"
	LanguageCookieName = "styleai_lang"
)

// RequestLogger attaches a request scoped zerolog logger carrying a request id and logs
// every served request.
func RequestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		rid := req.Header.Get(echo.HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Response().Header().Set(echo.HeaderXRequestID, rid)

		logger := log.With().
			Str("request_id", rid).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("remote_ip", c.RealIP()).
			Logger()
		c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		status := c.Response().Status
		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Error().Err(err)
		}
		event.Int("status", status).Dur("duration", time.Since(start)).Msg("http request served")
		return nil
	}
}

// SessionMiddleware loads the wizard of the caller's session cookie, starting a new
// session when the cookie is missing, malformed or expired.
func SessionMiddleware(sessions WizardSessionProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				if id, err := uuid.Parse(cookie.Value); err == nil {
					sessionID = id.String()
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			ctx := c.Request().Context()
			machine, created, err := sessions.Load(ctx, sessionID)
			if errors.Is(err, services.ErrSessionStoreFull) {
				zerolog.Ctx(ctx).Warn().Msg("session store is full, new session refused")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Too many active sessions, please try again later")
			}
			if err != nil {
				return err
			}
			if created {
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			// unsupported ?lang= values are ignored and never persisted
			explicit := ""
			query := LanguageIn{Lang: c.QueryParam("lang")}
			if query.Lang != "" && c.Validate(query) == nil {
				explicit = query.Lang
				c.SetCookie(&http.Cookie{Name: LanguageCookieName, Value: explicit, Path: "/", SameSite: http.SameSiteLaxMode})
			} else if cookie, err := c.Cookie(LanguageCookieName); err == nil {
				explicit = cookie.Value
			}
			lang := languageutil.MatchLanguage(explicit, c.Request().Header.Get("Accept-Language"))
			machine.SetLanguage(lang)

			logger := zerolog.Ctx(ctx).With().Str("session_id", sessionID).Logger()
			c.SetRequest(c.Request().WithContext(logger.WithContext(ctx)))

			c.Set("__session_id", sessionID)
			c.Set("__wizard", machine)
			c.Set("__lang", lang)
			return next(c)
		}
	}
}

func currentWizard(c echo.Context) (*wizard.Machine, bool) {
	machine, ok := c.Get("__wizard").(*wizard.Machine)
	return machine, ok
}

// endSession drops the caller's session from the store; the next request starts a new one.
func endSession(c echo.Context, sessions WizardSessionProvider) {
	id, _ := c.Get("__session_id").(string)
	if id == "" || sessions == nil {
		return
	}
	ctx := c.Request().Context()
	if err := sessions.Delete(ctx, id); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("session was not deleted")
	}
}
