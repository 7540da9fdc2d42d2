package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	models "github.com/phillip/nonprofit-site-go/models"
)

func TestCreateProjectWithoutStripe(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()

	w := s.do(http.MethodPost, "/api/admin/projects", validProject("test-drive"), token)
	expectStatus(t, w, http.StatusCreated)

	body := decode[map[string]any](t, w)
	if body["slug"] != "test-drive" {
		t.Fatalf("slug = %v", body["slug"])
	}
	if body["currentAmount"] != float64(0) {
		t.Fatalf("currentAmount = %v", body["currentAmount"])
	}
	if body["status"] != "active" {
		t.Fatalf("status = %v", body["status"])
	}
	if warning, _ := body["stripeWarning"].(string); warning == "" {
		t.Fatal("expected a stripeWarning")
	}
	if _, ok := body["stripeProductId"]; ok {
		t.Fatal("stripeProductId should be absent")
	}
	if body["stripeSyncState"] != models.SyncSkipped {
		t.Fatalf("stripeSyncState = %v", body["stripeSyncState"])
	}
}

func TestCreateProjectLinksStripe(t *testing.T) {
	provider := &fakeProvider{}
	s := newTestServer(t, provider)
	token := s.adminToken()

	w := s.do(http.MethodPost, "/api/admin/projects", validProject("clean-water"), token)
	expectStatus(t, w, http.StatusCreated)
	body := decode[map[string]any](t, w)
	if _, ok := body["stripeWarning"]; ok {
		t.Fatalf("unexpected warning: %v", body["stripeWarning"])
	}
	if body["stripeProductId"] != "prod_test" || body["stripePaymentLinkUrl"] != "https://buy.stripe.com/test_abc" {
		t.Fatalf("stripe ids missing: %v", body)
	}

	stored, err := s.repos.Projects.GetBySlug(context.Background(), "clean-water")
	if err != nil {
		t.Fatal(err)
	}
	if stored.SyncState != models.SyncLinked || stored.PaymentLinkID != "plink_test" {
		t.Fatalf("stored link = %+v", stored.StripeLink)
	}
}

func TestCreateProjectSurvivesClientDisconnect(t *testing.T) {
	provider := &fakeProvider{}
	s := newTestServer(t, provider)
	token := s.adminToken()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(validProject("dropped")); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/projects", &buf).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	expectStatus(t, w, http.StatusCreated)

	if body := decode[map[string]any](t, w); body["stripeWarning"] != nil {
		t.Fatalf("unexpected warning: %v", body["stripeWarning"])
	}
	stored, err := s.repos.Projects.GetBySlug(context.Background(), "dropped")
	if err != nil {
		t.Fatal(err)
	}
	if stored.SyncState != models.SyncLinked || stored.ProductID != "prod_test" || stored.PaymentLinkID != "plink_test" {
		t.Fatalf("stored link = %+v", stored.StripeLink)
	}
}

func TestCreateProjectProviderFailureKeepsDocument(t *testing.T) {
	provider := &fakeProvider{priceErr: errors.New("card_error")}
	s := newTestServer(t, provider)
	token := s.adminToken()

	w := s.do(http.MethodPost, "/api/admin/projects", validProject("half-made"), token)
	expectStatus(t, w, http.StatusCreated)
	body := decode[map[string]any](t, w)
	if warning, _ := body["stripeWarning"].(string); !strings.Contains(warning, "price creation") {
		t.Fatalf("warning = %q", warning)
	}

	stored, err := s.repos.Projects.GetBySlug(context.Background(), "half-made")
	if err != nil {
		t.Fatal(err)
	}
	if stored.SyncState != models.SyncPartial || stored.ProductID != "prod_test" || stored.PriceID != "" {
		t.Fatalf("stored link = %+v", stored.StripeLink)
	}
}

func TestCreateProjectDuplicateSlug(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	expectStatus(t, s.do(http.MethodPost, "/api/admin/projects", validProject("dup"), token), http.StatusCreated)
	w := s.do(http.MethodPost, "/api/admin/projects", validProject("dup"), token)
	expectStatus(t, w, http.StatusConflict)
}

func TestProjectStatusChangePersistsWhenProviderFails(t *testing.T) {
	provider := &fakeProvider{}
	s := newTestServer(t, provider)
	token := s.adminToken()

	created := decode[models.Project](t, s.do(http.MethodPost, "/api/admin/projects", validProject("closing"), token))
	provider.deactivateErr = errors.New("stripe unavailable")

	w := s.do(http.MethodPut, "/api/admin/projects/"+created.ID.Hex(), gin.H{"status": "funded"}, token)
	expectStatus(t, w, http.StatusOK)
	body := decode[map[string]any](t, w)
	if body["status"] != "funded" {
		t.Fatalf("status = %v", body["status"])
	}
	if warning, _ := body["stripeWarning"].(string); !strings.Contains(warning, "Failed to deactivate") {
		t.Fatalf("warning = %q", warning)
	}

	stored, err := s.repos.Projects.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.ProjectFunded {
		t.Fatalf("stored status = %q", stored.Status)
	}
}

func TestProjectStatusChangeDeactivatesLink(t *testing.T) {
	provider := &fakeProvider{}
	s := newTestServer(t, provider)
	token := s.adminToken()

	created := decode[models.Project](t, s.do(http.MethodPost, "/api/admin/projects", validProject("retire"), token))

	// Non-status edits never reach the provider.
	expectStatus(t, s.do(http.MethodPut, "/api/admin/projects/"+created.ID.Hex(), gin.H{"currentAmount": 40}, token), http.StatusOK)
	if len(provider.deactivated) != 0 {
		t.Fatalf("deactivated on plain edit: %v", provider.deactivated)
	}

	expectStatus(t, s.do(http.MethodPut, "/api/admin/projects/"+created.ID.Hex(), gin.H{"status": "archived"}, token), http.StatusOK)
	if len(provider.deactivated) != 1 || provider.deactivated[0] != "plink_test" {
		t.Fatalf("deactivated = %v", provider.deactivated)
	}
	expectStatus(t, s.do(http.MethodGet, "/api/projects/retire", nil, ""), http.StatusNotFound)
}

func TestUpdateProjectRejectsEmptyAndBadDates(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	created := decode[models.Project](t, s.do(http.MethodPost, "/api/admin/projects", validProject("dated"), token))
	path := "/api/admin/projects/" + created.ID.Hex()

	w := s.do(http.MethodPut, path, gin.H{}, token)
	expectStatus(t, w, http.StatusBadRequest)
	if body := decode[map[string]any](t, w); body["error"] != "no fields to update" {
		t.Fatalf("error = %v", body["error"])
	}

	expectStatus(t, s.do(http.MethodPut, path, gin.H{"endDate": "next tuesday"}, token), http.StatusBadRequest)

	w = s.do(http.MethodPut, path, gin.H{"endDate": "2026-12-31"}, token)
	expectStatus(t, w, http.StatusOK)
	updated := decode[models.Project](t, w)
	if updated.EndDate == nil || updated.EndDate.Format("2006-01-02") != "2026-12-31" {
		t.Fatalf("endDate = %v", updated.EndDate)
	}

	expectStatus(t, s.do(http.MethodPut, "/api/admin/projects/not-an-id", gin.H{"title": "Whatever"}, token), http.StatusBadRequest)
}

func TestUpdateProjectClearsDates(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	body := validProject("dated")
	body["startDate"] = "2026-01-15"
	body["endDate"] = "2026-06-30"
	created := decode[models.Project](t, s.do(http.MethodPost, "/api/admin/projects", body, token))
	if created.StartDate == nil || created.EndDate == nil {
		t.Fatalf("dates not stored: %+v", created)
	}
	path := "/api/admin/projects/" + created.ID.Hex()

	w := s.do(http.MethodPut, path, gin.H{"startDate": ""}, token)
	expectStatus(t, w, http.StatusOK)
	updated := decode[models.Project](t, w)
	if updated.StartDate != nil {
		t.Fatalf("startDate = %v, want cleared", updated.StartDate)
	}
	if updated.EndDate == nil {
		t.Fatal("endDate was cleared too")
	}

	stored, err := s.repos.Projects.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.StartDate != nil {
		t.Fatalf("stored startDate = %v", stored.StartDate)
	}
}

func TestDeleteProjectDeactivatesLink(t *testing.T) {
	provider := &fakeProvider{}
	s := newTestServer(t, provider)
	token := s.adminToken()
	created := decode[models.Project](t, s.do(http.MethodPost, "/api/admin/projects", validProject("gone"), token))

	expectStatus(t, s.do(http.MethodDelete, "/api/admin/projects/"+created.ID.Hex(), nil, token), http.StatusOK)
	if len(provider.deactivated) != 1 {
		t.Fatalf("deactivated = %v", provider.deactivated)
	}
	expectStatus(t, s.do(http.MethodGet, "/api/admin/projects/"+created.ID.Hex(), nil, token), http.StatusNotFound)
}

func TestPublicProjectsExcludeArchived(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.adminToken()
	for slug, status := range map[string]string{"p-active": "active", "p-funded": "funded", "p-archived": "archived"} {
		p := validProject(slug)
		p["status"] = status
		expectStatus(t, s.do(http.MethodPost, "/api/admin/projects", p, token), http.StatusCreated)
	}

	public := decode[[]models.Project](t, s.do(http.MethodGet, "/api/projects", nil, ""))
	if len(public) != 2 {
		t.Fatalf("public projects = %d, want 2", len(public))
	}
	for _, p := range public {
		if p.Status == models.ProjectArchived {
			t.Fatalf("archived project %q listed publicly", p.Slug)
		}
	}

	got := decode[models.Project](t, s.do(http.MethodGet, "/api/projects/p-funded", nil, ""))
	if got.Status != models.ProjectFunded {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestReconcileRequiresStripe(t *testing.T) {
	s := newTestServer(t, nil)
	expectStatus(t, s.do(http.MethodPost, "/api/admin/projects/reconcile", nil, s.adminToken()), http.StatusBadRequest)
}

func TestReconcileLinksSkippedProjects(t *testing.T) {
	provider := &fakeProvider{productErr: errors.New("rate limited")}
	s := newTestServer(t, provider)
	token := s.adminToken()
	expectStatus(t, s.do(http.MethodPost, "/api/admin/projects", validProject("retry-me"), token), http.StatusCreated)

	provider.productErr = nil
	w := s.do(http.MethodPost, "/api/admin/projects/reconcile", nil, token)
	expectStatus(t, w, http.StatusOK)

	// The failed create left the project pending and younger than the grace period.
	report := decode[map[string]any](t, w)
	if report["deferred"] != float64(1) {
		t.Fatalf("report = %v", report)
	}
}

func TestGeneralDonationLink(t *testing.T) {
	s := newTestServer(t, nil)
	body := decode[map[string]string](t, s.do(http.MethodGet, "/api/donate", nil, ""))
	if body["generalDonationLink"] != "https://donate.stripe.com/general" {
		t.Fatalf("body = %v", body)
	}
}
