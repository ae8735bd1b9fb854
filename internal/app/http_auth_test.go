package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tastyoulu/api/internal/auth"
)

func newTestServer(fs *fakeStore) *HTTPServer {
	return NewHTTPServer(newTestService(fs), "*", testLogger())
}

func doJSON(t *testing.T, server *HTTPServer, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func decodePayload(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v body=%s", err, rr.Body.String())
	}
	return payload
}

func registerUser(t *testing.T, server *HTTPServer, username, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":"hunter2secret"}`, username, email)
	rr := doJSON(t, server, http.MethodPost, "/api/auth/register", "", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	payload := decodePayload(t, rr)
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatalf("register: expected token in response")
	}
	return token
}

func TestRegisterLoginAndWhoami(t *testing.T) {
	fs := newFakeStore()
	server := newTestServer(fs)

	token := registerUser(t, server, "maija", "maija@example.com")

	rr := doJSON(t, server, http.MethodGet, "/api/users/me", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("whoami: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	payload := decodePayload(t, rr)
	if payload["username"] != "maija" {
		t.Fatalf("expected username maija, got %v", payload["username"])
	}
	if payload["email"] != "maija@example.com" {
		t.Fatalf("expected email in own profile, got %v", payload["email"])
	}

	rr = doJSON(t, server, http.MethodPost, "/api/auth/login", "",
		`{"email":"maija@example.com","password":"hunter2secret"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	payload = decodePayload(t, rr)
	if payload["token"] == "" {
		t.Fatalf("login: expected fresh token")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	fs := newFakeStore()
	server := newTestServer(fs)
	registerUser(t, server, "maija", "maija@example.com")

	rr := doJSON(t, server, http.MethodPost, "/api/auth/login", "",
		`{"email":"maija@example.com","password":"wrong"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	payload := decodePayload(t, rr)
	if payload["code"] != "INVALID_CREDENTIALS" {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", payload["code"])
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	fs := newFakeStore()
	server := newTestServer(fs)
	registerUser(t, server, "maija", "maija@example.com")

	rr := doJSON(t, server, http.MethodPost, "/api/auth/register", "",
		`{"username":"other","email":"maija@example.com","password":"hunter2secret"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProtectedRoutesRejectMissingOrBadToken(t *testing.T) {
	fs := newFakeStore()
	server := newTestServer(fs)

	rr := doJSON(t, server, http.MethodGet, "/api/users/me", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rr.Code)
	}

	rr = doJSON(t, server, http.MethodGet, "/api/users/me", "not.a.token", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rr.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	server := newTestServer(fs)

	expired, err := auth.IssueWithClaims([]byte("test-secret"), auth.Claims{
		UserID:   1,
		IssuedAt: time.Now().Add(-2 * time.Hour).Unix(),
		Exp:      time.Now().Add(-time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}

	rr := doJSON(t, server, http.MethodGet, "/api/users/me", expired, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	fs := newFakeStore()
	addUser(fs, 1, "maija", "maija@example.com")
	server := newTestServer(fs)

	forged, err := auth.Issue([]byte("other-secret"), 1, time.Hour)
	if err != nil {
		t.Fatalf("issue forged token: %v", err)
	}

	rr := doJSON(t, server, http.MethodGet, "/api/users/me", forged, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong-secret token, got %d", rr.Code)
	}
}

func TestLogoutLeavesTokenUsable(t *testing.T) {
	fs := newFakeStore()
	server := newTestServer(fs)
	token := registerUser(t, server, "maija", "maija@example.com")

	rr := doJSON(t, server, http.MethodPost, "/api/auth/logout", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rr.Code)
	}

	// There is no server-side revocation; the token stays valid until
	// it expires.
	rr = doJSON(t, server, http.MethodGet, "/api/users/me", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected token still valid after logout, got %d", rr.Code)
	}
}

func TestPublicUserProfileOmitsEmail(t *testing.T) {
	fs := newFakeStore()
	server := newTestServer(fs)
	registerUser(t, server, "maija", "maija@example.com")

	rr := doJSON(t, server, http.MethodGet, "/api/users/1", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	payload := decodePayload(t, rr)
	if payload["username"] != "maija" {
		t.Fatalf("expected username maija, got %v", payload["username"])
	}
	if _, present := payload["email"]; present {
		t.Fatalf("public profile must not expose email")
	}
}
