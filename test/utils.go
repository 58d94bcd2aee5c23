package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"styleaiapi/models"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

// NewJSONSessionRequest is NewJSONRequest carrying the session cookie of a previous response.
func NewJSONSessionRequest(method string, target string, session *http.Cookie, param interface{}) *http.Request {
	req := NewJSONRequest(method, target, param)
	if session != nil {
		req.AddCookie(session)
	}
	return req
}

func NewFormRequest(method string, target string, session *http.Cookie, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	if session != nil {
		req.AddCookie(session)
	}
	return req
}

// SessionCookie picks the cookie named name from a recorded response.
func SessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func FakeRecommendation() *models.OutfitRecommendation {
	return &models.OutfitRecommendation{
		Title:       "Clean Lines",
		Explanation: "A structured but relaxed look that frames an athletic build.",
		Items: models.OutfitItems{
			Top:    models.OutfitItem{Name: "Boxy knit tee", Description: "Heavy cotton, dropped shoulders", Color: "Off-white"},
			Bottom: models.OutfitItem{Name: "Pleated trousers", Description: "Wide straight leg, wool blend", Color: "Charcoal"},
			Shoes:  models.OutfitItem{Name: "Leather derbies", Description: "Chunky sole, matte finish", Color: "Black"},
		},
		VisualPrompt: "Full body shot of a male model wearing an off-white boxy knit tee and charcoal pleated trousers",
	}
}

func FakeImage(payload string) *models.GeneratedImage {
	return &models.GeneratedImage{MIMEType: "image/png", Data: []byte(payload)}
}

// StylistGatewayMock answers with the configured funcs, or with fixtures when a func is nil.
type StylistGatewayMock struct {
	RecommendFunc func(ctx context.Context, prefs models.Preferences, lang models.Language) (*models.OutfitRecommendation, error)
	RenderFunc    func(ctx context.Context, visualPrompt string) (*models.GeneratedImage, error)
	EditFunc      func(ctx context.Context, image *models.GeneratedImage, instruction string) (*models.GeneratedImage, error)

	mu               sync.Mutex
	RecommendCalls   int
	RenderCalls      int
	EditCalls        int
	LastPreferences  models.Preferences
	LastLanguage     models.Language
	LastVisualPrompt string
	LastInstruction  string
}

func (m *StylistGatewayMock) Recommend(ctx context.Context, prefs models.Preferences, lang models.Language) (*models.OutfitRecommendation, error) {
	m.mu.Lock()
	m.RecommendCalls++
	m.LastPreferences = prefs
	m.LastLanguage = lang
	m.mu.Unlock()
	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, prefs, lang)
	}
	return FakeRecommendation(), nil
}

func (m *StylistGatewayMock) Render(ctx context.Context, visualPrompt string) (*models.GeneratedImage, error) {
	m.mu.Lock()
	m.RenderCalls++
	m.LastVisualPrompt = visualPrompt
	m.mu.Unlock()
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, visualPrompt)
	}
	return FakeImage("rendered"), nil
}

func (m *StylistGatewayMock) Edit(ctx context.Context, image *models.GeneratedImage, instruction string) (*models.GeneratedImage, error) {
	m.mu.Lock()
	m.EditCalls++
	m.LastInstruction = instruction
	m.mu.Unlock()
	if m.EditFunc != nil {
		return m.EditFunc(ctx, image, instruction)
	}
	return FakeImage("edited"), nil
}

// Calls returns the recommend, render and edit call counts.
func (m *StylistGatewayMock) Calls() (recommend, render, edit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RecommendCalls, m.RenderCalls, m.EditCalls
}
