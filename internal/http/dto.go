package http

import (
	"time"

	"github.com/example/attendance-portal/internal/application"
)

type remarksRequest struct {
	Remarks string `json:"remarks"`
}

type sessionResponse struct {
	Session sessionDTO `json:"session"`
}

type sessionDTO struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	Date              string  `json:"date"`
	CheckIn           string  `json:"check_in"`
	CheckOut          *string `json:"check_out,omitempty"`
	CheckInRemarks    string  `json:"check_in_remarks"`
	CheckOutRemarks   *string `json:"check_out_remarks,omitempty"`
	Status            string  `json:"status"`
	DurationMinutes   *int    `json:"duration_minutes,omitempty"`
	FormattedDuration string  `json:"formatted_duration,omitempty"`
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toSessionDTO(session application.AttendanceSession) sessionDTO {
	dto := sessionDTO{
		ID:              session.ID,
		UserID:          session.UserID,
		Date:            session.Date,
		CheckIn:         formatInstant(session.CheckIn),
		CheckInRemarks:  session.CheckInRemarks,
		CheckOutRemarks: session.CheckOutRemarks,
		Status:          string(session.Status),
		DurationMinutes: session.DurationMinutes,
	}
	if session.CheckOut != nil {
		out := formatInstant(*session.CheckOut)
		dto.CheckOut = &out
	}
	if session.DurationMinutes != nil {
		dto.FormattedDuration = application.FormatMinutes(*session.DurationMinutes)
	}
	return dto
}

func toSessionDTOs(sessions []application.AttendanceSession) []sessionDTO {
	out := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionDTO(session))
	}
	return out
}

type todayResponse struct {
	Date           string       `json:"date"`
	Status         string       `json:"status"`
	Logs           []sessionDTO `json:"logs"`
	TotalMinutes   int          `json:"total_minutes"`
	FormattedTotal string       `json:"formatted_total"`
	ActiveSession  *sessionDTO  `json:"active_session,omitempty"`
}

func toTodayResponse(status application.TodayStatus) todayResponse {
	resp := todayResponse{
		Date:           status.Date,
		Status:         string(status.Status),
		Logs:           toSessionDTOs(status.Logs),
		TotalMinutes:   status.TotalMinutes,
		FormattedTotal: status.FormattedTotal,
	}
	if status.ActiveSession != nil {
		active := toSessionDTO(*status.ActiveSession)
		resp.ActiveSession = &active
	}
	return resp
}

type employeeDTO struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	Department   string `json:"department,omitempty"`
}

func toEmployeeDTO(identity application.EmployeeIdentity) employeeDTO {
	return employeeDTO{
		ID:           identity.ID,
		EmployeeCode: identity.EmployeeCode,
		DisplayName:  identity.DisplayName,
		Department:   identity.Department,
	}
}

type adminSessionDTO struct {
	sessionDTO
	Employee employeeDTO `json:"employee"`
}

type adminListResponse struct {
	Sessions []adminSessionDTO `json:"sessions"`
	Total    int               `json:"total"`
}

func toAdminListResponse(list application.AdminSessionList) adminListResponse {
	rows := make([]adminSessionDTO, 0, len(list.Rows))
	for _, row := range list.Rows {
		rows = append(rows, adminSessionDTO{
			sessionDTO: toSessionDTO(row.Session),
			Employee:   toEmployeeDTO(row.Employee),
		})
	}
	return adminListResponse{Sessions: rows, Total: list.Total}
}

type historySummaryDTO struct {
	TotalSessions     int    `json:"total_sessions"`
	CompletedSessions int    `json:"completed_sessions"`
	TotalMinutes      int    `json:"total_minutes"`
	AverageMinutes    int    `json:"average_minutes"`
	FormattedTotal    string `json:"formatted_total"`
	FormattedAverage  string `json:"formatted_average"`
}

type historyResponse struct {
	EmployeeID string            `json:"employee_id"`
	Employee   *employeeDTO      `json:"employee,omitempty"`
	Sessions   []sessionDTO      `json:"sessions"`
	Summary    historySummaryDTO `json:"summary"`
}

func toHistoryResponse(history application.EmployeeHistory) historyResponse {
	resp := historyResponse{
		EmployeeID: history.EmployeeID,
		Sessions:   toSessionDTOs(history.Sessions),
		Summary: historySummaryDTO{
			TotalSessions:     history.Summary.TotalSessions,
			CompletedSessions: history.Summary.CompletedSessions,
			TotalMinutes:      history.Summary.TotalMinutes,
			AverageMinutes:    history.Summary.AverageMinutes,
			FormattedTotal:    application.FormatMinutes(history.Summary.TotalMinutes),
			FormattedAverage:  application.FormatMinutes(history.Summary.AverageMinutes),
		},
	}
	if history.Employee != nil {
		employee := toEmployeeDTO(*history.Employee)
		resp.Employee = &employee
	}
	return resp
}

type healthResponse struct {
	Status string `json:"status"`
}
