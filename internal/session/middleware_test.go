package session

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exploranotes/internal/auth"

	"github.com/gin-gonic/gin"
)

func newResolver(t *testing.T) (*auth.Codec, *gin.Engine, *Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	codec := auth.NewCodecFromKeys(key, &key.PublicKey, 0, 0)

	var captured Session
	r := gin.New()
	r.Use(Resolve(codec))
	r.GET("/", func(c *gin.Context) {
		captured = FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return codec, r, &captured
}

func TestResolveWithoutCookieIsAnonymous(t *testing.T) {
	_, r, captured := newResolver(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("resolver must not fail the request, got %d", w.Code)
	}
	if captured.IsAuthenticated {
		t.Fatalf("expected anonymous session")
	}
	if *captured != Anonymous() {
		t.Fatalf("anonymous session must have empty identity fields: %+v", captured)
	}
}

func TestResolveWithGarbageCookieIsAnonymous(t *testing.T) {
	_, r, captured := newResolver(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieAuth, Value: "not.a.token"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("a forged cookie must not fail the request, got %d", w.Code)
	}
	if captured.IsAuthenticated {
		t.Fatalf("expected anonymous session for invalid token")
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("resolver must never write cookies, got %v", w.Result().Cookies())
	}
}

func TestResolveWithValidCookiePopulatesSession(t *testing.T) {
	codec, r, captured := newResolver(t)

	tok, _, err := codec.IssueSession(time.Now(), auth.Identity{
		UID:         "0x61",
		AccountType: auth.AccountTypeTeacher,
		Email:       "jean@exemple.fr",
		Name:        "Jean Moulin",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieAuth, Value: tok})
	r.ServeHTTP(w, req)

	if !captured.IsAuthenticated {
		t.Fatalf("expected authenticated session")
	}
	if captured.UID != "0x61" || !captured.IsTeacher() || captured.EmailVerified {
		t.Fatalf("unexpected session: %+v", captured)
	}
	if !captured.School.IsZero() {
		t.Fatalf("resolution must leave School empty")
	}
}

func TestSessionJSONShape(t *testing.T) {
	s := Session{
		IsAuthenticated: true,
		UID:             "0x62",
		AccountType:     auth.AccountTypeTeacher,
		Email:           "a@b.fr",
		Name:            "A B",
		EmailVerified:   true,
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["isAuthenticated"] != true || m["accountType"] != "teacher" {
		t.Fatalf("unexpected JSON shape: %s", b)
	}
}
