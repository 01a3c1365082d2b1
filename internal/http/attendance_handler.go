package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/attendance-portal/internal/application"
)

type attendanceService interface {
	CheckIn(ctx context.Context, principal application.Principal, remarks string) (application.AttendanceSession, error)
	CheckOut(ctx context.Context, principal application.Principal, remarks string) (application.AttendanceSession, error)
}

type todayService interface {
	TodayStatus(ctx context.Context, principal application.Principal) (application.TodayStatus, error)
}

type historyService interface {
	History(ctx context.Context, principal application.Principal, employeeID string) (application.EmployeeHistory, error)
}

// maxRemarksBody bounds the check-in/check-out request body.
const maxRemarksBody = 64 << 10

// AttendanceHandler serves the caller's own attendance endpoints.
type AttendanceHandler struct {
	attendance attendanceService
	today      todayService
	history    historyService
	responder  responder
	logger     *slog.Logger
}

func NewAttendanceHandler(attendance attendanceService, today todayService, history historyService, logger *slog.Logger) *AttendanceHandler {
	base := defaultLogger(logger)
	return &AttendanceHandler{
		attendance: attendance,
		today:      today,
		history:    history,
		responder:  newResponder(base),
		logger:     base,
	}
}

func (h *AttendanceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AttendanceHandler", operation, attrs...)
}

// principal returns the authenticated caller or writes a 401.
func (h *AttendanceHandler) principal(w http.ResponseWriter, r *http.Request, operation string) (application.Principal, bool) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		h.log(r.Context(), operation, "error_kind", "unauthenticated").WarnContext(r.Context(), "missing authenticated principal")
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, codeUnauthenticated, errMissingToken)
		return application.Principal{}, false
	}
	return principal, true
}

func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.attendance == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	principal, ok := h.principal(w, r, "CheckIn")
	if !ok {
		return
	}

	req, err := decodeRemarks(w, r)
	if err != nil {
		h.log(r.Context(), "CheckIn", "principal_id", principal.UserID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode check-in request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "", errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CheckIn", "principal_id", principal.UserID)
	session, err := h.attendance.CheckIn(r.Context(), principal, req.Remarks)
	if err != nil {
		logger.WarnContext(r.Context(), "check-in failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("session_id", session.ID).InfoContext(r.Context(), "checked in")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sessionResponse{Session: toSessionDTO(session)})
}

func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.attendance == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	principal, ok := h.principal(w, r, "CheckOut")
	if !ok {
		return
	}

	req, err := decodeRemarks(w, r)
	if err != nil {
		h.log(r.Context(), "CheckOut", "principal_id", principal.UserID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode check-out request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, "", errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CheckOut", "principal_id", principal.UserID)
	session, err := h.attendance.CheckOut(r.Context(), principal, req.Remarks)
	if err != nil {
		logger.WarnContext(r.Context(), "check-out failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("session_id", session.ID, "duration_minutes", *session.DurationMinutes).InfoContext(r.Context(), "checked out")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{Session: toSessionDTO(session)})
}

func (h *AttendanceHandler) Today(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.today == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	principal, ok := h.principal(w, r, "Today")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Today", "principal_id", principal.UserID)
	status, err := h.today.TodayStatus(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "today status failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.DebugContext(r.Context(), "today status served", "status", status.Status, "session_count", len(status.Logs))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toTodayResponse(status))
}

// History serves the caller's own history.
func (h *AttendanceHandler) History(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.history == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	principal, ok := h.principal(w, r, "History")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "History", "principal_id", principal.UserID)
	history, err := h.history.History(r.Context(), principal, principal.UserID)
	if err != nil {
		logger.ErrorContext(r.Context(), "history failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(history.Sessions)).InfoContext(r.Context(), "history served")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toHistoryResponse(history))
}

// decodeRemarks accepts an empty body as empty remarks so the service reports
// the missing field.
func decodeRemarks(w http.ResponseWriter, r *http.Request) (remarksRequest, error) {
	var req remarksRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRemarksBody))
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return remarksRequest{}, nil
		}
		return remarksRequest{}, err
	}
	return req, nil
}
