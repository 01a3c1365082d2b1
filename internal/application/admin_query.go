package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// AdminQueryService gives administrators organisation-wide visibility of the
// session log.
type AdminQueryService struct {
	sessions  SessionReader
	directory EmployeeDirectory
	logger    *slog.Logger
}

// NewAdminQueryService constructs an admin query service with the provided dependencies.
func NewAdminQueryService(sessions SessionReader, directory EmployeeDirectory) *AdminQueryService {
	return NewAdminQueryServiceWithLogger(sessions, directory, nil)
}

// NewAdminQueryServiceWithLogger constructs an admin query service with a specified logger.
func NewAdminQueryServiceWithLogger(sessions SessionReader, directory EmployeeDirectory, logger *slog.Logger) *AdminQueryService {
	return &AdminQueryService{sessions: sessions, directory: directory, logger: defaultLogger(logger)}
}

// ListAll returns every session matching filter joined with its owner's
// identity, newest check-in first. Search folds case and matches a substring
// of the display name or employee code. EmployeeID matches the user id exactly.
func (s *AdminQueryService) ListAll(ctx context.Context, principal Principal, filter AdminListFilter) (list AdminSessionList, err error) {
	if s == nil {
		err = fmt.Errorf("AdminQueryService is nil")
		return
	}

	logger := serviceLogger(ctx, s.logger, "AdminQueryService", "ListAll",
		"principal_id", principal.UserID,
		"employee_id", filter.EmployeeID,
		"has_search", filter.Search != "",
	)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to list sessions", err)
			return
		}
		logger.DebugContext(ctx, "sessions listed", "total", list.Total, "returned", len(list.Rows))
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateAdminFilter(filter)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if s.sessions == nil {
		err = fmt.Errorf("session store not configured")
		return
	}

	sessions, err := s.sessions.ListSessions(ctx, SessionQuery{UserID: strings.TrimSpace(filter.EmployeeID)})
	if err != nil {
		err = mapStoreError("list sessions", err)
		return
	}

	identities, err := s.lookup(ctx, sessions)
	if err != nil {
		return
	}

	needle := foldCase(strings.TrimSpace(filter.Search))
	rows := make([]AdminSessionRow, 0, len(sessions))
	for _, session := range sessions {
		identity, ok := identities[session.UserID]
		if !ok {
			identity = EmployeeIdentity{ID: session.UserID}
		}
		if needle != "" && !matchesSearch(identity, needle) {
			continue
		}
		rows = append(rows, AdminSessionRow{Session: session, Employee: identity})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Session, rows[j].Session
		if !a.CheckIn.Equal(b.CheckIn) {
			return a.CheckIn.After(b.CheckIn)
		}
		return a.ID > b.ID
	})

	list = AdminSessionList{Rows: window(rows, filter.Offset, filter.Limit), Total: len(rows)}
	return
}

func (s *AdminQueryService) lookup(ctx context.Context, sessions []AttendanceSession) (map[string]EmployeeIdentity, error) {
	if s.directory == nil || len(sessions) == 0 {
		return map[string]EmployeeIdentity{}, nil
	}

	seen := make(map[string]struct{}, len(sessions))
	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		if _, ok := seen[session.UserID]; ok {
			continue
		}
		seen[session.UserID] = struct{}{}
		ids = append(ids, session.UserID)
	}
	sort.Strings(ids)

	identities, err := s.directory.LookupEmployees(ctx, ids)
	if err != nil {
		return nil, mapStoreError("lookup employees", err)
	}
	if identities == nil {
		identities = map[string]EmployeeIdentity{}
	}
	return identities, nil
}

// foldCase builds a fresh Caser per call; Casers are stateful and must not be
// shared between goroutines.
func foldCase(s string) string {
	return cases.Fold().String(s)
}

func matchesSearch(identity EmployeeIdentity, needle string) bool {
	return strings.Contains(foldCase(identity.DisplayName), needle) ||
		strings.Contains(foldCase(identity.EmployeeCode), needle)
}

func validateAdminFilter(filter AdminListFilter) *ValidationError {
	vErr := &ValidationError{}
	if filter.Limit < 0 {
		vErr.add("limit", "limit must not be negative")
	}
	if filter.Offset < 0 {
		vErr.add("offset", "offset must not be negative")
	}
	return vErr
}

func window(rows []AdminSessionRow, offset, limit int) []AdminSessionRow {
	if offset >= len(rows) {
		return []AdminSessionRow{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
