package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"microblog/internal/models"
	"microblog/internal/service"
)

func formRequest(path string, values url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		registerErr  error
		wantLocation string
	}{
		{"success", "alice", nil, "/login"},
		{"duplicate", "alice", service.ErrUsernameTaken, "/register?error=" + url.QueryEscape("Username already exists")},
		{"blank", "  ", service.ErrUsernameRequired, "/register?error=" + url.QueryEscape("Username is required")},
		{"unexpected", "alice", errors.New("db down"), "/error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices()
			ts.accounts.registerErr = tt.registerErr
			r := newTestRouter(ts.service())

			w := httptest.NewRecorder()
			r.ServeHTTP(w, formRequest("/register", url.Values{"username": {tt.username}}))

			if w.Code != http.StatusFound {
				t.Fatalf("status=%d want=%d", w.Code, http.StatusFound)
			}
			if got := w.Header().Get("Location"); got != tt.wantLocation {
				t.Fatalf("Location=%q want=%q", got, tt.wantLocation)
			}
			if len(ts.accounts.registered) != 1 || ts.accounts.registered[0] != tt.username {
				t.Fatalf("registered=%v", ts.accounts.registered)
			}
		})
	}
}

func TestRegisterForm_ShowsError(t *testing.T) {
	r := newTestRouter(newTestServices().service())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register?error="+url.QueryEscape("Username already exists"), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Username already exists") {
		t.Fatalf("error message not rendered: %s", w.Body.String())
	}
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	ts := newTestServices(models.User{ID: 1, Username: "alice"})
	r := newTestRouter(ts.service())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, formRequest("/login", url.Values{"username": {"alice"}}))

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("status=%d Location=%q", w.Code, w.Header().Get("Location"))
	}
	ck := findCookie(w, defaultCookieName)
	if ck == nil {
		t.Fatalf("session cookie not set")
	}
	if ck.Value != "token-alice" || !ck.HttpOnly || ck.Path != "/" {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
	if ck.MaxAge != int(defaultCookieTTL.Seconds()) {
		t.Fatalf("MaxAge=%d", ck.MaxAge)
	}
	if ts.sessions.tokens["token-alice"] != 1 {
		t.Fatalf("session not started: %v", ts.sessions.tokens)
	}
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		startErr     error
		wantLocation string
	}{
		{"unknown user", "mallory", nil, "/login?error=" + url.QueryEscape("User not found")},
		{"blank", "", nil, "/login?error=" + url.QueryEscape("Username is required")},
		{"session start fails", "alice", errors.New("store full"), "/error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices(models.User{ID: 1, Username: "alice"})
			ts.sessions.startErr = tt.startErr
			r := newTestRouter(ts.service())

			w := httptest.NewRecorder()
			r.ServeHTTP(w, formRequest("/login", url.Values{"username": {tt.username}}))

			if got := w.Header().Get("Location"); got != tt.wantLocation {
				t.Fatalf("Location=%q want=%q", got, tt.wantLocation)
			}
			if ck := findCookie(w, defaultCookieName); ck != nil {
				t.Fatalf("cookie must not be set on failure: %+v", ck)
			}
		})
	}
}

func TestLogin_CustomCookie(t *testing.T) {
	ts := newTestServices(models.User{ID: 1, Username: "alice"})
	r := newTestRouter(ts.service(), WithCookie(CookieConfig{Name: "sid", Secure: true}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, formRequest("/login", url.Values{"username": {"alice"}}))

	ck := findCookie(w, "sid")
	if ck == nil || !ck.Secure {
		t.Fatalf("expected secure cookie named sid, got %+v", w.Result().Cookies())
	}
}

func TestLogout(t *testing.T) {
	alice := models.User{ID: 1, Username: "alice"}

	t.Run("ends session and clears cookie", func(t *testing.T) {
		ts := newTestServices(alice)
		r := newTestRouter(ts.service())
		ck := ts.login(alice)

		req := httptest.NewRequest(http.MethodGet, "/logout", nil)
		req.AddCookie(ck)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Header().Get("Location") != "/" {
			t.Fatalf("Location=%q", w.Header().Get("Location"))
		}
		if len(ts.sessions.ended) != 1 || ts.sessions.ended[0] != ck.Value {
			t.Fatalf("ended=%v", ts.sessions.ended)
		}
		cleared := findCookie(w, defaultCookieName)
		if cleared == nil || cleared.MaxAge >= 0 || cleared.Value != "" {
			t.Fatalf("cookie not cleared: %+v", cleared)
		}
	})

	t.Run("failure goes to error page", func(t *testing.T) {
		ts := newTestServices(alice)
		ts.sessions.endErr = errors.New("boom")
		r := newTestRouter(ts.service())

		req := httptest.NewRequest(http.MethodGet, "/logout", nil)
		req.AddCookie(ts.login(alice))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Header().Get("Location") != "/error" {
			t.Fatalf("Location=%q", w.Header().Get("Location"))
		}
	})
}

func TestAuthForms_MalformedBody(t *testing.T) {
	for _, path := range []string{"/register", "/login"} {
		t.Run(path, func(t *testing.T) {
			ts := newTestServices(models.User{ID: 1, Username: "alice"})
			r := newTestRouter(ts.service())

			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("username=alice"))
			// multipart without a boundary cannot be parsed
			req.Header.Set("Content-Type", "multipart/form-data")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			want := path + "?error=" + url.QueryEscape("Invalid form submission")
			if got := w.Header().Get("Location"); got != want {
				t.Fatalf("Location=%q want=%q", got, want)
			}
			if len(ts.accounts.registered) != 0 {
				t.Fatalf("register must not run: %v", ts.accounts.registered)
			}
			if ck := findCookie(w, defaultCookieName); ck != nil {
				t.Fatalf("cookie must not be set: %+v", ck)
			}
		})
	}
}
