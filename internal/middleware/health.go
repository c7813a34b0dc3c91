package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

// HealthChecker dipakai untuk cek dependency (store, archive)
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a ping function to HealthChecker
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// PingDB checks a SQL pool with its own short deadline
func PingDB(db *sql.DB) HealthChecker {
	return CheckFunc(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	})
}

// HealthStatus is the body of /health and /health/ready
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	statusUp   = "up"
	statusDown = "down"
)

// runChecks runs the named checkers in name order. ok is false when any of
// the names listed in required failed; an empty required list means all.
func runChecks(ctx context.Context, checkers map[string]HealthChecker, required []string) (HealthStatus, bool) {
	names := make([]string, 0, len(checkers))
	for name := range checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	must := make(map[string]bool, len(required))
	for _, name := range required {
		must[name] = true
	}

	report := HealthStatus{Status: statusUp, Timestamp: time.Now().UTC(), Checks: make(map[string]CheckStatus, len(names))}
	ok := true
	for _, name := range names {
		if err := checkers[name].Check(ctx); err != nil {
			report.Checks[name] = CheckStatus{Status: statusDown, Message: err.Error()}
			if len(must) == 0 || must[name] {
				ok = false
			}
			continue
		}
		report.Checks[name] = CheckStatus{Status: statusUp}
	}
	for name := range must {
		if _, wired := checkers[name]; !wired {
			report.Checks[name] = CheckStatus{Status: statusDown, Message: "not configured"}
			ok = false
		}
	}
	if !ok {
		report.Status = statusDown
	}
	return report, ok
}

func writeReport(w http.ResponseWriter, report HealthStatus, ok bool) {
	code := http.StatusOK
	if !ok {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(report)
}

// HealthHandler reports every checker; any failure answers 503
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report, ok := runChecks(ctx, checkers, nil)
		writeReport(w, report, ok)
	}
}

// ReadinessHandler answers 503 while one of the required checkers fails.
// Checkers not listed (the insight archive) are reported but do not block traffic.
func ReadinessHandler(checkers map[string]HealthChecker, required ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		report, ok := runChecks(ctx, checkers, required)
		if ok && report.Status == statusUp {
			report.Status = "ready"
		}
		writeReport(w, report, ok)
	}
}

// LivenessHandler only proves the process is serving
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
