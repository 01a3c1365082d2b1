package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_History(t *testing.T) {
	t.Parallel()

	store := func() *memorySessions {
		return &memorySessions{sessions: []AttendanceSession{
			completedSession("d1-a", "alice", at(9, 0).AddDate(0, 0, -1), 30),
			completedSession("d2-a", "alice", at(8, 0), 61),
			completedSession("d2-b", "alice", at(13, 0), 60),
			{ID: "d2-c", UserID: "alice", Date: "2024-03-04", CheckIn: at(15, 0), Status: SessionActive},
			completedSession("bob-1", "bob", at(9, 0), 500),
		}}
	}
	directory := &directoryStub{identities: map[string]EmployeeIdentity{
		"alice": {ID: "alice", EmployeeCode: "E-001", DisplayName: "Alice"},
	}}

	t.Run("orders by date then check-in descending with a summary", func(t *testing.T) {
		t.Parallel()

		svc := NewHistoryService(store(), directory)
		history, err := svc.History(context.Background(), Principal{UserID: "root", IsAdmin: true}, "alice")
		require.NoError(t, err)

		got := make([]string, len(history.Sessions))
		for i, s := range history.Sessions {
			got[i] = s.ID
		}
		assert.Equal(t, []string{"d2-c", "d2-b", "d2-a", "d1-a"}, got)
		assert.Equal(t, HistorySummary{
			TotalSessions:     4,
			CompletedSessions: 3,
			TotalMinutes:      151,
			AverageMinutes:    50,
		}, history.Summary)
		require.NotNil(t, history.Employee)
		assert.Equal(t, "E-001", history.Employee.EmployeeCode)
	})

	t.Run("employees may read their own history", func(t *testing.T) {
		t.Parallel()

		history, err := NewHistoryService(store(), nil).History(context.Background(), Principal{UserID: "bob"}, "bob")
		require.NoError(t, err)
		assert.Len(t, history.Sessions, 1)
		assert.Nil(t, history.Employee)
		assert.Equal(t, 500, history.Summary.AverageMinutes)
	})

	t.Run("other employees are refused", func(t *testing.T) {
		t.Parallel()

		_, err := NewHistoryService(store(), nil).History(context.Background(), Principal{UserID: "bob"}, "alice")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("average is zero without completed sessions", func(t *testing.T) {
		t.Parallel()

		only := &memorySessions{sessions: []AttendanceSession{
			{ID: "x", UserID: "carol", Date: "2024-03-04", CheckIn: at(9, 0), Status: SessionActive},
		}}
		history, err := NewHistoryService(only, nil).History(context.Background(), Principal{UserID: "carol"}, "carol")
		require.NoError(t, err)
		assert.Equal(t, HistorySummary{TotalSessions: 1}, history.Summary)

		empty, err := NewHistoryService(&memorySessions{}, nil).History(context.Background(), Principal{UserID: "dan"}, "dan")
		require.NoError(t, err)
		assert.Empty(t, empty.Sessions)
		assert.Zero(t, empty.Summary.AverageMinutes)
	})

	t.Run("requires an employee id", func(t *testing.T) {
		t.Parallel()

		_, err := NewHistoryService(store(), nil).History(context.Background(), Principal{UserID: "root", IsAdmin: true}, " ")
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}
