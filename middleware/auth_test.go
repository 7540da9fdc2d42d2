package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/nonprofit-site-go/models"
	store "github.com/phillip/nonprofit-site-go/store"
)

// userMap is a UserLookup over a fixed set of users.
type userMap map[primitive.ObjectID]*models.User

func (m userMap) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func testUser(role string) *models.User {
	return &models.User{ID: primitive.NewObjectID(), Email: "u@example.org", Name: "U", Role: role}
}

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	u := testUser(models.RoleAdmin)

	raw, err := tokens.Issue(u)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != u.ID.Hex() || claims.Role != models.RoleAdmin || claims.Email != u.Email {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := NewTokens("other", time.Hour).Parse(raw); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestExpiredToken(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	tokens.now = func() time.Time { return issued }
	raw, err := tokens.Issue(testUser(models.RoleUser))
	if err != nil {
		t.Fatal(err)
	}

	tokens.now = time.Now
	if _, err := tokens.Parse(raw); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestRejectsOtherSigningMethods(t *testing.T) {
	claims := Claims{UserID: "x", Role: models.RoleAdmin}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokens("secret", time.Hour).Parse(raw); err == nil {
		t.Fatal("HS512 token accepted")
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := NewTokens("secret", time.Hour)
	member := testUser(models.RoleUser)
	admin := testUser(models.RoleAdmin)
	demoted := testUser(models.RoleAdmin)
	gone := testUser(models.RoleAdmin)
	raw, _ := tokens.Issue(member)
	adminRaw, _ := tokens.Issue(admin)
	demotedRaw, _ := tokens.Issue(demoted)
	goneRaw, _ := tokens.Issue(gone)

	// demoted still carries the admin role in its token.
	users := userMap{
		member.ID:  member,
		admin.ID:   admin,
		demoted.ID: {ID: demoted.ID, Email: demoted.Email, Role: models.RoleUser},
	}

	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("role"))
	})
	r.GET("/admin", AuthMiddleware(tokens), RequireAdmin(users), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header map[string]string
		cookie string
		want   int
	}{
		{"no credentials", "/me", nil, "", http.StatusUnauthorized},
		{"bearer", "/me", map[string]string{"Authorization": "Bearer " + raw}, "", http.StatusOK},
		{"cookie", "/me", nil, raw, http.StatusOK},
		{"garbage", "/me", map[string]string{"Authorization": "Bearer nope"}, "", http.StatusUnauthorized},
		{"non-admin api", "/admin", map[string]string{"Authorization": "Bearer " + raw}, "", http.StatusForbidden},
		{"non-admin page", "/admin", map[string]string{"Authorization": "Bearer " + raw, "Accept": "text/html"}, "", http.StatusFound},
		{"admin", "/admin", map[string]string{"Authorization": "Bearer " + adminRaw}, "", http.StatusNoContent},
		{"demoted admin", "/admin", map[string]string{"Authorization": "Bearer " + demotedRaw}, "", http.StatusForbidden},
		{"deleted admin", "/admin", map[string]string{"Authorization": "Bearer " + goneRaw}, "", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if id := w.Header().Get("X-Request-ID"); id == "" || id != w.Body.String() {
		t.Fatalf("minted id = %q, body = %q", id, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" {
		t.Fatalf("propagated id = %q", w.Body.String())
	}
}
