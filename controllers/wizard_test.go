package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"styleaiapi/models"
	"styleaiapi/services"
	"styleaiapi/test"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWizardServer(t *testing.T, gateway services.StylistGateway) *echo.Echo {
	t.Helper()
	sessions, err := NewWizardSessions(gateway, nil, time.Hour, 0)
	require.NoError(t, err)
	t.Cleanup(sessions.Close)
	return SetupServer(sessions, nil)
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) StateResponse {
	t.Helper()
	var state StateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

// newSession opens a session and returns its cookie.
func newSession(t *testing.T, e *echo.Echo) *http.Cookie {
	t.Helper()
	rec := serve(e, test.NewJSONRequest("GET", "/api/wizard/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := test.SessionCookie(rec, SessionCookieName)
	require.NotNil(t, cookie)
	return cookie
}

func selectJSON(t *testing.T, e *echo.Echo, session *http.Cookie, body map[string]string) StateResponse {
	t.Helper()
	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/select", session, body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeState(t, rec)
}

func advanceJSON(t *testing.T, e *echo.Echo, session *http.Cookie, expected int) StateResponse {
	t.Helper()
	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/advance", session, nil))
	require.Equal(t, expected, rec.Code, rec.Body.String())
	return decodeState(t, rec)
}

func waitForGeneration(t *testing.T, e *echo.Echo, session *http.Cookie) StateResponse {
	t.Helper()
	var state StateResponse
	require.Eventually(t, func() bool {
		rec := serve(e, test.NewJSONSessionRequest("GET", "/api/wizard/state", session, nil))
		state = decodeState(t, rec)
		return !state.IsLoadingRecommendation && !state.IsGeneratingImage
	}, 2*time.Second, 10*time.Millisecond)
	return state
}

func generateJSON(t *testing.T, e *echo.Echo, session *http.Cookie) StateResponse {
	t.Helper()
	selectJSON(t, e, session, map[string]string{"gender": "male"})
	advanceJSON(t, e, session, http.StatusOK)
	selectJSON(t, e, session, map[string]string{"body_type": "athletic"})
	advanceJSON(t, e, session, http.StatusOK)
	selectJSON(t, e, session, map[string]string{"style": "minimalist"})
	advanceJSON(t, e, session, http.StatusAccepted)
	return waitForGeneration(t, e, session)
}

func TestWizardStateNewSession(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})

	rec := serve(e, test.NewJSONRequest("GET", "/api/wizard/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, test.SessionCookie(rec, SessionCookieName))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	state := decodeState(t, rec)
	assert.Equal(t, 1, state.Step)
	assert.Equal(t, "gender", state.StepName)
	assert.False(t, state.CanAdvance)
	assert.Nil(t, state.Recommendation)
	assert.Nil(t, state.ImageURL)
	assert.Nil(t, state.ErrorMessage)
}

func TestWizardSessionsAreIsolated(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})
	first := newSession(t, e)
	second := newSession(t, e)
	require.NotEqual(t, first.Value, second.Value)

	selectJSON(t, e, first, map[string]string{"gender": "female"})

	rec := serve(e, test.NewJSONSessionRequest("GET", "/api/wizard/state", second, nil))
	assert.Equal(t, models.Gender(""), decodeState(t, rec).Preferences.Gender)
	rec = serve(e, test.NewJSONSessionRequest("GET", "/api/wizard/state", first, nil))
	assert.Equal(t, models.GenderFemale, decodeState(t, rec).Preferences.Gender)
}

func TestWizardFullFlow(t *testing.T) {
	gateway := &test.StylistGatewayMock{}
	e := setupWizardServer(t, gateway)
	session := newSession(t, e)

	state := generateJSON(t, e, session)

	assert.Equal(t, 4, state.Step)
	require.NotNil(t, state.Recommendation)
	assert.Equal(t, test.FakeRecommendation().Title, state.Recommendation.Title)
	require.NotNil(t, state.ImageURL)
	assert.True(t, strings.HasPrefix(*state.ImageURL, "/wizard/image"))
	assert.Nil(t, state.ErrorMessage)

	rec := serve(e, test.NewJSONSessionRequest("GET", *state.ImageURL, session, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "rendered", rec.Body.String())

	rec = serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/edit", session, EditIn{Instruction: "change shirt to white"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	edited := decodeState(t, rec)
	assert.NotEqual(t, *state.ImageURL, *edited.ImageURL)
	assert.Equal(t, "change shirt to white", gateway.LastInstruction)

	rec = serve(e, test.NewJSONSessionRequest("GET", "/wizard/image", session, nil))
	assert.Equal(t, "edited", rec.Body.String())
}

func TestWizardAdvanceRequiresSelection(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})
	session := newSession(t, e)

	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/advance", session, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response["error"])
}

func TestWizardSelectValidation(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})
	session := newSession(t, e)

	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/select", session, map[string]string{"gender": "robot"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/select", session, map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/select", session, map[string]string{"gender": "male", "style": "y2k"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// valid value, wrong step
	rec = serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/select", session, map[string]string{"style": "y2k"}))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWizardRetreat(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})
	session := newSession(t, e)

	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/retreat", session, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeState(t, rec).Step)

	selectJSON(t, e, session, map[string]string{"gender": "female"})
	advanceJSON(t, e, session, http.StatusOK)
	rec = serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/retreat", session, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeState(t, rec).Step)
}

func TestWizardRetreatFromResultRefused(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})
	session := newSession(t, e)
	generateJSON(t, e, session)

	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/retreat", session, nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWizardProviderUnavailable(t *testing.T) {
	gateway, err := services.NewGoogleStylistGateway(context.Background(), services.GoogleStylistConfig{})
	require.NoError(t, err)
	e := setupWizardServer(t, gateway)
	session := newSession(t, e)

	state := generateJSON(t, e, session)

	assert.Equal(t, 3, state.Step)
	assert.Nil(t, state.Recommendation)
	assert.Nil(t, state.ImageURL)
	require.NotNil(t, state.ErrorMessage)
	assert.Equal(t, models.StyleMinimalist, state.Preferences.Style)
}

func TestWizardEditFailure(t *testing.T) {
	gateway := &test.StylistGatewayMock{
		EditFunc: func(ctx context.Context, image *models.GeneratedImage, instruction string) (*models.GeneratedImage, error) {
			return nil, services.ErrNoImageReturned
		},
	}
	e := setupWizardServer(t, gateway)
	session := newSession(t, e)
	before := generateJSON(t, e, session)

	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/edit", session, EditIn{Instruction: "change shirt to white"}))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Image edit failed.", response["error"])

	rec = serve(e, test.NewJSONSessionRequest("GET", "/api/wizard/state", session, nil))
	after := decodeState(t, rec)
	assert.Equal(t, 4, after.Step)
	assert.Equal(t, *before.ImageURL, *after.ImageURL)
	assert.Equal(t, before.Recommendation, after.Recommendation)
	assert.Nil(t, after.ErrorMessage)
}

func TestWizardEditWithoutImage(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})
	session := newSession(t, e)

	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/edit", session, EditIn{Instruction: "add a hat"}))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/edit", session, EditIn{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWizardAdvanceWhileGenerating(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	gateway := &test.StylistGatewayMock{
		RecommendFunc: func(ctx context.Context, prefs models.Preferences, lang models.Language) (*models.OutfitRecommendation, error) {
			<-release
			return test.FakeRecommendation(), nil
		},
	}
	e := setupWizardServer(t, gateway)
	session := newSession(t, e)
	selectJSON(t, e, session, map[string]string{"gender": "male"})
	advanceJSON(t, e, session, http.StatusOK)
	selectJSON(t, e, session, map[string]string{"body_type": "slim"})
	advanceJSON(t, e, session, http.StatusOK)
	selectJSON(t, e, session, map[string]string{"style": "vintage"})
	state := advanceJSON(t, e, session, http.StatusAccepted)
	assert.Equal(t, 4, state.Step)
	assert.True(t, state.IsLoadingRecommendation)

	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/advance", session, nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWizardReset(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})
	session := newSession(t, e)
	generateJSON(t, e, session)

	rec := serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/reset", session, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, 1, state.Step)
	assert.Equal(t, models.Preferences{}, state.Preferences)
	assert.Nil(t, state.Recommendation)
	assert.Nil(t, state.ImageURL)
	assert.Nil(t, state.ErrorMessage)

	rec = serve(e, test.NewJSONSessionRequest("GET", "/wizard/image", session, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWizardOptionsLocalized(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})

	req := test.NewJSONRequest("GET", "/api/wizard/options", nil)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	rec := serve(e, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var options OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Len(t, options.Genders, 2)
	assert.Len(t, options.BodyTypes, 4)
	assert.Len(t, options.Styles, 14)
	assert.Equal(t, "男士 (GENTLEMAN)", options.Genders[0].Label)
	assert.Equal(t, "Casual", options.Styles[0].Description)

	rec = serve(e, test.NewJSONRequest("GET", "/api/wizard/options?lang=en", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, "Gentleman", options.Genders[0].Label)
}

func TestLanguageQueryPersisted(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})

	rec := serve(e, test.NewJSONRequest("GET", "/api/wizard/options?lang=zh", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := test.SessionCookie(rec, LanguageCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "zh", cookie.Value)
	var options OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, "男士 (GENTLEMAN)", options.Genders[0].Label)
}

func TestUnsupportedLanguageQueryIgnored(t *testing.T) {
	e := setupWizardServer(t, &test.StylistGatewayMock{})

	req := test.NewJSONRequest("GET", "/api/wizard/options?lang=fr", nil)
	req.Header.Set("Accept-Language", "zh-CN")
	rec := serve(e, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, test.SessionCookie(rec, LanguageCookieName))
	var options OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Equal(t, "男士 (GENTLEMAN)", options.Genders[0].Label)
}

func TestSessionCapacityReached(t *testing.T) {
	sessions, err := NewWizardSessions(&test.StylistGatewayMock{}, nil, time.Hour, 1)
	require.NoError(t, err)
	t.Cleanup(sessions.Close)
	e := SetupServer(sessions, nil)
	session := newSession(t, e)

	rec := serve(e, test.NewJSONRequest("GET", "/api/wizard/state", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many active sessions")
	assert.Nil(t, test.SessionCookie(rec, SessionCookieName))

	selectJSON(t, e, session, map[string]string{"gender": "female"})
	rec = serve(e, test.NewJSONSessionRequest("GET", "/api/wizard/state", session, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.GenderFemale, decodeState(t, rec).Preferences.Gender)

	// reset ends the session and frees its slot
	rec = serve(e, test.NewJSONSessionRequest("POST", "/api/wizard/reset", session, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(e, test.NewJSONRequest("GET", "/api/wizard/state", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecommendationLanguageFollowsLocale(t *testing.T) {
	gateway := &test.StylistGatewayMock{}
	e := setupWizardServer(t, gateway)
	session := newSession(t, e)

	selectJSON(t, e, session, map[string]string{"gender": "female"})
	advanceJSON(t, e, session, http.StatusOK)
	selectJSON(t, e, session, map[string]string{"body_type": "average"})
	advanceJSON(t, e, session, http.StatusOK)
	selectJSON(t, e, session, map[string]string{"style": "french-chic"})
	req := test.NewJSONSessionRequest("POST", "/api/wizard/advance", session, nil)
	req.Header.Set("Accept-Language", "zh-CN")
	rec := serve(e, req)
	require.Equal(t, http.StatusAccepted, rec.Code)
	waitForGeneration(t, e, session)

	recommend, _, _ := gateway.Calls()
	assert.Equal(t, 1, recommend)
	assert.Equal(t, models.ZH, gateway.LastLanguage)
}

func TestHealthAndMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := services.NewMetrics(registry)
	sessions, err := NewWizardSessions(&test.StylistGatewayMock{}, metrics, time.Hour, 0)
	require.NoError(t, err)
	defer sessions.Close()
	e := SetupServer(sessions, registry)

	rec := serve(e, test.NewJSONRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	session := newSession(t, e)
	selectJSON(t, e, session, map[string]string{"gender": "male"})

	rec = serve(e, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `styleai_wizard_transitions_total{transition="select_gender"} 1`)
}
