package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCheckPassword(t *testing.T) {
	hash, err := hashPassword("secret")
	if err != nil {
		t.Fatalf("hashPassword() error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "secret", true},
		{"wrong password", "wrong", false},
		{"empty password", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkPassword(hash, tt.password)
			if got != tt.want {
				t.Errorf("checkPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	token1, err := generateToken()
	if err != nil {
		t.Fatalf("generateToken() error: %v", err)
	}

	if len(token1) != 64 { // 32 bytes = 64 hex chars
		t.Errorf("expected token length 64, got %d", len(token1))
	}

	token2, _ := generateToken()
	if token1 == token2 {
		t.Error("expected unique tokens")
	}
}

func TestSignAndVerifySessionToken(t *testing.T) {
	secret := []byte("test-secret")
	expiresAt := time.Now().Add(time.Hour)

	signed, err := signSessionToken("raw-token", secret, expiresAt)
	if err != nil {
		t.Fatalf("signSessionToken() error: %v", err)
	}

	token, err := verifySessionToken(signed, secret)
	if err != nil {
		t.Fatalf("verifySessionToken() error: %v", err)
	}
	if token != "raw-token" {
		t.Errorf("expected %q, got %q", "raw-token", token)
	}
}

func TestVerifySessionToken_Tampered(t *testing.T) {
	secret := []byte("test-secret")
	signed, err := signSessionToken("raw-token", secret, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signSessionToken() error: %v", err)
	}

	tests := []struct {
		name  string
		value string
	}{
		{"modified claims", tamperJWT(signed, 1)},
		{"modified signature", tamperJWT(signed, 2)},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := verifySessionToken(tt.value, secret); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	signed, err := signSessionToken("raw-token", []byte("secret-one"), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signSessionToken() error: %v", err)
	}

	if _, err := verifySessionToken(signed, []byte("secret-two")); err == nil {
		t.Error("expected verification with a different secret to fail")
	}
}

// tamperJWT rewrites the first character of the given dot-separated
// segment. Changing a leading base64 character always changes the
// decoded bytes, so the signature check must fail.
func tamperJWT(signed string, segment int) string {
	parts := strings.Split(signed, ".")
	if segment >= len(parts) || parts[segment] == "" {
		return signed
	}
	replacement := byte('A')
	if parts[segment][0] == 'A' {
		replacement = 'B'
	}
	parts[segment] = string(replacement) + parts[segment][1:]
	return strings.Join(parts, ".")
}

func TestCreateAndGetSession(t *testing.T) {
	blog := setupTestBlog(t)
	user := registerTestUser(t, blog, "a@x.com", "Ada", "secret")

	session, err := createSession(blog.db, user.ID)
	if err != nil {
		t.Fatalf("createSession() error: %v", err)
	}

	got, err := getSession(blog.db, session.Token)
	if err != nil {
		t.Fatalf("getSession() error: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.UserID != user.ID {
		t.Errorf("expected UserID %d, got %d", user.ID, got.UserID)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	blog := setupTestBlog(t)

	session, err := getSession(blog.db, "nonexistent")
	if err != nil {
		t.Fatalf("getSession() error: %v", err)
	}
	if session != nil {
		t.Error("expected nil session for nonexistent token")
	}
}

func TestDeleteSession(t *testing.T) {
	blog := setupTestBlog(t)
	user := registerTestUser(t, blog, "a@x.com", "Ada", "secret")

	session, err := createSession(blog.db, user.ID)
	if err != nil {
		t.Fatalf("createSession() error: %v", err)
	}

	if err := deleteSession(blog.db, session.Token); err != nil {
		t.Fatalf("deleteSession() error: %v", err)
	}

	got, _ := getSession(blog.db, session.Token)
	if got != nil {
		t.Error("expected session to be deleted")
	}
}

func TestCurrentUser(t *testing.T) {
	blog := setupTestBlog(t)
	user := registerTestUser(t, blog, "a@x.com", "Ada", "secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookieFor(t, blog, user.ID))

	got := blog.currentUser(req)
	if got == nil {
		t.Fatal("expected a user, got nil")
	}
	if got.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, got.ID)
	}
}

func TestCurrentUser_NoCookie(t *testing.T) {
	blog := setupTestBlog(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user := blog.currentUser(req); user != nil {
		t.Errorf("expected anonymous request, got user %+v", user)
	}
}

func TestCurrentUser_TamperedCookie(t *testing.T) {
	blog := setupTestBlog(t)
	user := registerTestUser(t, blog, "a@x.com", "Ada", "secret")

	cookie := sessionCookieFor(t, blog, user.ID)
	cookie.Value = tamperJWT(cookie.Value, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	if got := blog.currentUser(req); got != nil {
		t.Errorf("expected tampered cookie to resolve to anonymous, got %+v", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	blog := setupTestBlog(t)
	admin := registerTestUser(t, blog, "admin@example.com", "Ada", "secret")
	reader := registerTestUser(t, blog, "reader@example.com", "Rob", "secret")

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
		wantCalled bool
	}{
		{"anonymous", nil, http.StatusForbidden, false},
		{"reader", sessionCookieFor(t, blog, reader.ID), http.StatusForbidden, false},
		{"administrator", sessionCookieFor(t, blog, admin.ID), http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := blog.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/new-post", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusForbidden {
				if loc := w.Header().Get("Location"); loc != "" {
					t.Errorf("expected no redirect, got Location %q", loc)
				}
				if !strings.Contains(w.Body.String(), "administrator") {
					t.Error("expected an explanatory message in the 403 body")
				}
			}
		})
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	blog := setupTestBlog(t)
	user := registerTestUser(t, blog, "a@x.com", "Ada", "secret")

	session, err := createSession(blog.db, user.ID)
	if err != nil {
		t.Fatalf("createSession() error: %v", err)
	}

	expired := time.Now().Add(-time.Hour)
	if _, err := blog.db.Exec("UPDATE sessions SET expires_at = ? WHERE token = ?", expired, session.Token); err != nil {
		t.Fatalf("expiring session: %v", err)
	}

	if err := cleanupExpiredSessions(blog.db); err != nil {
		t.Fatalf("cleanupExpiredSessions() error: %v", err)
	}

	var count int
	if err := blog.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE token = ?", session.Token).Scan(&count); err != nil {
		t.Fatalf("counting sessions: %v", err)
	}
	if count != 0 {
		t.Error("expected expired session to be removed")
	}
}
