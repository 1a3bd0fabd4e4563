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

func TestChecker_Liveness(t *testing.T) {
	c := New(0)
	c.Register("broken", func(context.Context) error { return errors.New("down") })

	if got := c.Liveness().Status; got != StatusOK {
		t.Errorf("Liveness().Status = %q, want %q", got, StatusOK)
	}
}

func TestChecker_Readiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
	}{
		{"no checks", nil, StatusReady},
		{
			"all healthy",
			map[string]CheckFunc{
				"store":   func(context.Context) error { return nil },
				"ruleset": func(context.Context) error { return nil },
			},
			StatusReady,
		},
		{
			"one failing",
			map[string]CheckFunc{
				"store":   func(context.Context) error { return errors.New("closed") },
				"ruleset": func(context.Context) error { return nil },
			},
			StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			for name, check := range tt.checks {
				c.Register(name, check)
			}
			report := c.Readiness(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %q, want %q", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.checks) {
				t.Errorf("len(Checks) = %d, want %d", len(report.Checks), len(tt.checks))
			}
		})
	}
}

func TestChecker_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	block := make(chan struct{})
	defer close(block)
	c.Register("slow", func(context.Context) error {
		<-block
		return nil
	})

	report := c.Readiness(context.Background())
	res := report.Checks["slow"]
	if res.Status != StatusUnhealthy {
		t.Errorf("slow check Status = %q, want %q", res.Status, StatusUnhealthy)
	}
	if res.Message != context.DeadlineExceeded.Error() {
		t.Errorf("slow check Message = %q, want %q", res.Message, context.DeadlineExceeded.Error())
	}
}

func TestChecker_RegisterUnregister(t *testing.T) {
	c := New(0)
	c.Register("b", func(context.Context) error { return nil })
	c.Register("a", func(context.Context) error { return nil })
	c.Unregister("b")

	names := c.Names()
	if len(names) != 1 || names[0] != "a" {
		t.Errorf("Names() = %v, want [a]", names)
	}
}

func TestHandlers(t *testing.T) {
	c := New(time.Second)
	c.Register("store", func(context.Context) error { return errors.New("closed") })

	tests := []struct {
		name    string
		handler http.Handler
		method  string
		code    int
		status  string
	}{
		{"liveness", c.LivenessHandler(), http.MethodGet, http.StatusOK, StatusOK},
		{"readiness degraded", c.ReadinessHandler(), http.MethodGet, http.StatusServiceUnavailable, StatusDegraded},
		{"liveness head", c.LivenessHandler(), http.MethodHead, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/", nil))

			if rec.Code != tt.code {
				t.Errorf("code = %d, want %d", rec.Code, tt.code)
			}
			if tt.status == "" {
				if rec.Body.Len() != 0 {
					t.Errorf("HEAD body = %q, want empty", rec.Body.String())
				}
				return
			}
			var report Report
			if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if report.Status != tt.status {
				t.Errorf("Status = %q, want %q", report.Status, tt.status)
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc", "today").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc" {
		t.Errorf("info = %+v, want version 1.2.3 commit abc", info)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion is empty")
	}
}
