package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/phillip/nonprofit-site-go/config"
	controllers "github.com/phillip/nonprofit-site-go/controllers"
	middleware "github.com/phillip/nonprofit-site-go/middleware"
	models "github.com/phillip/nonprofit-site-go/models"
	payments "github.com/phillip/nonprofit-site-go/payments"
	routes "github.com/phillip/nonprofit-site-go/routes"
	store "github.com/phillip/nonprofit-site-go/store"
	memory "github.com/phillip/nonprofit-site-go/store/memory"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	env    *controllers.Env
	repos  store.Repositories
	mail   *recordingMailer
}

// newTestServer runs the full route table over the in-memory store. Pass a
// nil provider to simulate a missing STRIPE_SECRET_KEY.
func newTestServer(t *testing.T, provider payments.Provider) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppEnv:          "test",
		Port:            "8080",
		StoreDriver:     "memory",
		JWTSecret:       "test-secret",
		SessionTTL:      time.Hour,
		PublicAppURL:    "http://localhost:3000",
		GeneralDonation: "https://donate.stripe.com/general",
		CORSOrigins:     []string{"http://localhost:3000"},
		NotifyEmail:     "inbox@example.org",
	}
	backend := memory.New()
	repos := backend.Repos()
	log := zerolog.Nop()
	mail := &recordingMailer{}

	env := &controllers.Env{
		Cfg:      cfg,
		Log:      log,
		Repos:    repos,
		Ping:     backend.Ping,
		Payments: payments.NewSynchronizer(provider, repos.Projects, cfg.PublicAppURL, time.Minute, log),
		Tokens:   middleware.NewTokens(cfg.JWTSecret, cfg.SessionTTL),
		Mailer:   mail,
	}

	r := gin.New()
	routes.SetupRoutes(r, env)
	return &testServer{t: t, router: r, env: env, repos: repos, mail: mail}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.doWithHeaders(method, path, body, token, nil)
}

func (s *testServer) doWithHeaders(method, path string, body any, token string, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// addUser stores a user directly and returns a session token for it.
func (s *testServer) addUser(email, role string) (*models.User, string) {
	s.t.Helper()
	ts := time.Now().UTC()
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  "unused",
		Name:      "Test " + role,
		Role:      role,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.repos.Users.Create(context.Background(), u); err != nil {
		s.t.Fatalf("create user: %v", err)
	}
	token, err := s.env.Tokens.Issue(u)
	if err != nil {
		s.t.Fatalf("issue token: %v", err)
	}
	return u, token
}

func (s *testServer) adminToken() string {
	s.t.Helper()
	_, token := s.addUser("admin@example.org", models.RoleAdmin)
	return token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, want, w.Body.String())
	}
}

func validEvent(slug string) gin.H {
	return gin.H{
		"id":          slug,
		"title":       "Garden Day",
		"date":        "2026-05-01",
		"time":        "10:00",
		"location":    "Community Garden",
		"description": "Planting vegetables together with neighbours.",
	}
}

func validProject(slug string) gin.H {
	return gin.H{
		"slug":        slug,
		"title":       "Test Drive",
		"description": "A project used to test the donation flow.",
		"goalAmount":  100,
		"status":      "active",
	}
}

// fakeProvider returns fixed identifiers; set an error field to fail that step.
// Like the Stripe client it fails fast on a done context.
type fakeProvider struct {
	mu            sync.Mutex
	productErr    error
	priceErr      error
	linkErr       error
	deactivateErr error
	deactivated   []string
}

func (f *fakeProvider) CreateProduct(ctx context.Context, _ payments.ProductSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.productErr != nil {
		return "", f.productErr
	}
	return "prod_test", nil
}

func (f *fakeProvider) CreatePrice(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.priceErr != nil {
		return "", f.priceErr
	}
	return "price_test", nil
}

func (f *fakeProvider) CreatePaymentLink(ctx context.Context, _, _ string, _ map[string]string) (payments.PaymentLink, error) {
	if err := ctx.Err(); err != nil {
		return payments.PaymentLink{}, err
	}
	if f.linkErr != nil {
		return payments.PaymentLink{}, f.linkErr
	}
	return payments.PaymentLink{ID: "plink_test", URL: "https://buy.stripe.com/test_abc"}, nil
}

func (f *fakeProvider) DeactivatePaymentLink(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deactivateErr != nil {
		return f.deactivateErr
	}
	f.deactivated = append(f.deactivated, id)
	return nil
}

type sentMail struct {
	To, Subject string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject})
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, s := range m.sent {
		out = append(out, s.To)
	}
	return out
}
