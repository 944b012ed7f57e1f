package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
	}{
		{
			name:   "no checks",
			checks: nil,
			want:   StatusReady,
		},
		{
			name: "all passing",
			checks: map[string]CheckFunc{
				"parse":   func(context.Context) error { return nil },
				"reports": func(context.Context) error { return nil },
			},
			want: StatusReady,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"parse":   func(context.Context) error { return errors.New("no parse completed yet") },
				"reports": func(context.Context) error { return nil },
			},
			want: StatusNotReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(0)
			for name, check := range tt.checks {
				c.Register(name, check)
			}
			report := c.Readiness(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %q, want %q", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.checks) {
				t.Errorf("Checks = %d, want %d", len(report.Checks), len(tt.checks))
			}
		})
	}
}

func TestReadinessTimeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	report := c.Readiness(context.Background())
	res := report.Checks["slow"]
	if res.Status != StatusFailing || res.Message != ErrCheckTimeout.Error() {
		t.Errorf("slow check = %+v, want timeout failure", res)
	}
}

func TestRegisterReplaces(t *testing.T) {
	c := New(time.Second)
	c.Register("b", func(context.Context) error { return errors.New("x") })
	c.Register("a", func(context.Context) error { return nil })
	c.Register("b", func(context.Context) error { return nil })

	if got := c.Names(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", got)
	}
	if !c.Readiness(context.Background()).Ready() {
		t.Error("replaced check should pass")
	}
}

func TestHandlers(t *testing.T) {
	c := New(time.Second)
	failing := true
	c.Register("parse", func(context.Context) error {
		if failing {
			return errors.New("no parse completed yet")
		}
		return nil
	})

	mux := http.NewServeMux()
	Mount(mux, c, BuildInfo{Version: "1.0.0", Commit: "abc"})

	get := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	if rec := get(http.MethodGet, "/health"); rec.Code != http.StatusOK {
		t.Errorf("/health = %d, want 200", rec.Code)
	}
	if rec := get(http.MethodGet, "/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/ready = %d, want 503", rec.Code)
	}

	failing = false
	rec := get(http.MethodGet, "/ready")
	if rec.Code != http.StatusOK {
		t.Errorf("/ready = %d, want 200", rec.Code)
	}
	var report Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode /ready: %v", err)
	}
	if report.Status != StatusReady {
		t.Errorf("status = %q, want ready", report.Status)
	}

	rec = get(http.MethodGet, "/version")
	var info BuildInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode /version: %v", err)
	}
	if info.Version != "1.0.0" || info.Commit != "abc" || info.GoVersion == "" {
		t.Errorf("version = %+v", info)
	}

	if rec := get(http.MethodHead, "/health"); rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("HEAD /health = %d with %d body bytes", rec.Code, rec.Body.Len())
	}
	if rec := get(http.MethodPost, "/ready"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /ready = %d, want 405", rec.Code)
	}
}
