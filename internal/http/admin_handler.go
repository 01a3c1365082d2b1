package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/attendance-portal/internal/application"
)

type adminQueryService interface {
	ListAll(ctx context.Context, principal application.Principal, filter application.AdminListFilter) (application.AdminSessionList, error)
}

// AdminHandler serves the administrator endpoints.
type AdminHandler struct {
	admin     adminQueryService
	history   historyService
	responder responder
	logger    *slog.Logger
}

func NewAdminHandler(admin adminQueryService, history historyService, logger *slog.Logger) *AdminHandler {
	base := defaultLogger(logger)
	return &AdminHandler{admin: admin, history: history, responder: newResponder(base), logger: base}
}

func (h *AdminHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AdminHandler", operation, attrs...)
}

func (h *AdminHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.admin == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.log(r.Context(), "ListSessions", "error_kind", "unauthenticated").WarnContext(r.Context(), "missing authenticated principal")
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, codeUnauthenticated, errMissingToken)
		return
	}

	filter, fieldErrs := parseAdminFilter(r)
	if fieldErrs != nil {
		h.log(r.Context(), "ListSessions", "principal_id", principal.UserID, "error_kind", "validation").WarnContext(r.Context(), "invalid admin list query", "errors", fieldErrs)
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: codeValidation,
			Message:   statusMessage(http.StatusUnprocessableEntity),
			Errors:    fieldErrs,
		})
		return
	}

	logger := h.log(r.Context(), "ListSessions", "principal_id", principal.UserID)
	list, err := h.admin.ListAll(r.Context(), principal, filter)
	if err != nil {
		logger.WarnContext(r.Context(), "admin list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(list.Rows), "total", list.Total).InfoContext(r.Context(), "sessions listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAdminListResponse(list))
}

func (h *AdminHandler) EmployeeHistory(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.history == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID, ok := EmployeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(employeeID) == "" {
		h.log(r.Context(), "EmployeeHistory", "error_kind", "bad_request").WarnContext(r.Context(), "missing employee id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "", errInvalidEmployeeID)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.log(r.Context(), "EmployeeHistory", "error_kind", "unauthenticated").WarnContext(r.Context(), "missing authenticated principal")
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, codeUnauthenticated, errMissingToken)
		return
	}
	// The history service lets employees read themselves; this route is for
	// administrators only.
	if !principal.IsAdmin {
		h.log(r.Context(), "EmployeeHistory", "principal_id", principal.UserID, "error_kind", "unauthorized").WarnContext(r.Context(), "non-admin requested employee history")
		h.responder.handleServiceError(r.Context(), w, application.ErrUnauthorized)
		return
	}

	logger := h.log(r.Context(), "EmployeeHistory", "principal_id", principal.UserID, "employee_id", employeeID)
	history, err := h.history.History(r.Context(), principal, employeeID)
	if err != nil {
		logger.WarnContext(r.Context(), "employee history failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(history.Sessions)).InfoContext(r.Context(), "employee history served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toHistoryResponse(history))
}

func parseAdminFilter(r *http.Request) (application.AdminListFilter, map[string]string) {
	query := r.URL.Query()
	filter := application.AdminListFilter{
		Search:     strings.TrimSpace(query.Get("search")),
		EmployeeID: strings.TrimSpace(query.Get("employee_id")),
	}

	var fieldErrs map[string]string
	parse := func(name string, target *int) {
		raw := strings.TrimSpace(query.Get(name))
		if raw == "" {
			return
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			if fieldErrs == nil {
				fieldErrs = make(map[string]string)
			}
			fieldErrs[name] = name + " must be an integer"
			return
		}
		*target = value
	}
	parse("limit", &filter.Limit)
	parse("offset", &filter.Offset)
	return filter, fieldErrs
}
