package http

import (
	"log/slog"
	"net/http"
	"strings"
)

type RouterConfig struct {
	Attendance *AttendanceHandler
	Admin      *AdminHandler
	Health     *HealthHandler
	// Verifier guards every route except /healthz.
	Verifier   TokenVerifier
	Logger     *slog.Logger
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	authenticated := func(h http.HandlerFunc) http.Handler {
		if cfg.Verifier == nil {
			return h
		}
		return RequireIdentity(cfg.Verifier, cfg.Logger)(h)
	}

	if cfg.Health != nil {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Health.Check(w, r)
		})
	}

	if cfg.Attendance != nil {
		mux.Handle("/attendance/check-in", authenticated(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Attendance.CheckIn(w, r)
		}))
		mux.Handle("/attendance/check-out", authenticated(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Attendance.CheckOut(w, r)
		}))
		mux.Handle("/attendance/today", authenticated(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Attendance.Today(w, r)
		}))
		mux.Handle("/attendance/history", authenticated(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Attendance.History(w, r)
		}))
	}

	if cfg.Admin != nil {
		mux.Handle("/admin/attendance", authenticated(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Admin.ListSessions(w, r)
		}))
		mux.Handle("/admin/employees/", authenticated(func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/admin/employees/")
			id, tail, found := strings.Cut(rest, "/")
			if !found || tail != "attendance" || id == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			ctx := ContextWithEmployeeID(r.Context(), id)
			cfg.Admin.EmployeeHistory(w, r.WithContext(ctx))
		}))
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
