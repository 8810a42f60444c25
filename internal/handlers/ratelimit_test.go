package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestIPRateLimiter_PerIPBuckets(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)

	if l.getLimiter("10.0.0.1") != l.getLimiter("10.0.0.1") {
		t.Fatalf("same IP must share a limiter")
	}
	if l.getLimiter("10.0.0.1") == l.getLimiter("10.0.0.2") {
		t.Fatalf("different IPs must not share a limiter")
	}
}

func TestIPRateLimiter_SweepDropsIdleBuckets(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.now = func() time.Time { return now }

	l.getLimiter("10.0.0.1")
	now = base.Add(5 * time.Minute)
	l.getLimiter("10.0.0.2")

	if n := l.Sweep(base.Add(minIdle)); n != 0 || l.Len() != 2 {
		t.Fatalf("nothing is idle yet: removed=%d len=%d", n, l.Len())
	}
	if n := l.Sweep(base.Add(minIdle + time.Minute)); n != 1 || l.Len() != 1 {
		t.Fatalf("want the first IP dropped: removed=%d len=%d", n, l.Len())
	}
	if _, ok := l.ips["10.0.0.2"]; !ok {
		t.Fatalf("recently seen IP was dropped")
	}
}

func TestNewIPRateLimiter_IdleCoversFullRefill(t *testing.T) {
	// 1 token per hour with a burst of 3 needs 3h to refill
	l := NewIPRateLimiter(rate.Every(time.Hour), 3)
	if l.idle < 3*time.Hour-time.Second {
		t.Fatalf("idle=%v, want at least the refill time", l.idle)
	}
	if d := NewIPRateLimiter(rate.Limit(10), 5).idle; d != minIdle {
		t.Fatalf("idle=%v, want %v", d, minIdle)
	}
}

func TestAuthRateLimit(t *testing.T) {
	ts := newTestServices()
	r := newTestRouter(ts.service(), WithAuthRateLimit(NewIPRateLimiter(rate.Limit(1.0/60), 1)))

	send := func(path, ip string) *httptest.ResponseRecorder {
		req := formRequest(path, url.Values{"username": {"nobody"}})
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := send("/login", "192.0.2.1"); w.Code != http.StatusFound {
		t.Fatalf("first request status=%d", w.Code)
	}
	w := send("/register", "192.0.2.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status=%d want=%d", w.Code, http.StatusTooManyRequests)
	}
	if w.Body.String() != `{"error":"too many requests"}` {
		t.Fatalf("body=%s", w.Body.String())
	}
	if w := send("/login", "198.51.100.7"); w.Code != http.StatusFound {
		t.Fatalf("other IP status=%d", w.Code)
	}

	form := httptest.NewRecorder()
	r.ServeHTTP(form, httptest.NewRequest(http.MethodGet, "/login", nil))
	if form.Code != http.StatusOK {
		t.Fatalf("GET /login must not be limited, status=%d", form.Code)
	}
}

func TestAuthRateLimit_Disabled(t *testing.T) {
	ts := newTestServices()
	r := newTestRouter(ts.service(), WithAuthRateLimit(nil))

	for i := 0; i < 20; i++ {
		req := formRequest("/login", url.Values{"username": {"nobody"}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusFound {
			t.Fatalf("request %d status=%d", i, w.Code)
		}
	}
}
