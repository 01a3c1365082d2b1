// Package http provides HTTP handlers and middleware for the attendance API.
//
// The router exposes the following endpoints:
//   - POST /attendance/check-in: opens a session for the caller. Body:
//     {"remarks"}. Response 201 {"session"}; 409 ALREADY_CHECKED_IN when a
//     session is already open.
//   - POST /attendance/check-out: closes the caller's open session. Body:
//     {"remarks"}. Response 200 {"session"}; 404 NOT_CHECKED_IN otherwise.
//   - GET /attendance/today: the caller's sessions for the current date with
//     the running total.
//   - GET /attendance/history: the caller's full history with a summary.
//   - GET /admin/attendance?search=&employee_id=&limit=&offset=: every
//     session in the organisation, newest first, joined with the employee
//     identity. Administrators only.
//   - GET /admin/employees/{id}/attendance: one employee's history.
//     Administrators only.
//   - GET /healthz: reports whether the store answers a ping.
//
// Every route other than /healthz requires an `Authorization: Bearer` token.
// Request/response DTOs live in dto.go so tests and documentation share the
// same ground truth.
package http
