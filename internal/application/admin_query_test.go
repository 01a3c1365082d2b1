package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminFixture() (*memorySessions, *directoryStub) {
	store := &memorySessions{sessions: []AttendanceSession{
		completedSession("a-1", "alice", at(8, 0), 60),
		completedSession("b-1", "bob", at(9, 0), 30),
		completedSession("a-2", "alice", at(10, 0), 15),
		{ID: "c-1", UserID: "chloe", Date: "2024-03-04", CheckIn: at(11, 0), Status: SessionActive},
		{ID: "g-1", UserID: "ghost", Date: "2024-03-04", CheckIn: at(7, 0), Status: SessionActive},
	}}
	directory := &directoryStub{identities: map[string]EmployeeIdentity{
		"alice": {ID: "alice", EmployeeCode: "E-001", DisplayName: "Alice Müller", Department: "Ops"},
		"bob":   {ID: "bob", EmployeeCode: "E-002", DisplayName: "Bob Stone", Department: "Sales"},
		"chloe": {ID: "chloe", EmployeeCode: "X-9", DisplayName: "Chloé STRASSE", Department: "Ops"},
	}}
	return store, directory
}

func ids(rows []AdminSessionRow) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Session.ID
	}
	return out
}

func TestAdminQueryService_ListAll(t *testing.T) {
	t.Parallel()

	admin := Principal{UserID: "root", IsAdmin: true}

	t.Run("requires an administrator", func(t *testing.T) {
		t.Parallel()

		store, directory := adminFixture()
		svc := NewAdminQueryService(store, directory)
		_, err := svc.ListAll(context.Background(), Principal{UserID: "alice"}, AdminListFilter{})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("returns everything newest first joined with identities", func(t *testing.T) {
		t.Parallel()

		store, directory := adminFixture()
		svc := NewAdminQueryService(store, directory)
		list, err := svc.ListAll(context.Background(), admin, AdminListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"c-1", "a-2", "b-1", "a-1", "g-1"}, ids(list.Rows))
		assert.Equal(t, 5, list.Total)
		assert.Equal(t, "Alice Müller", list.Rows[1].Employee.DisplayName)
		assert.Equal(t, EmployeeIdentity{ID: "ghost"}, list.Rows[4].Employee)

		require.Len(t, directory.requested, 1)
		assert.Equal(t, []string{"alice", "bob", "chloe", "ghost"}, directory.requested[0])
	})

	t.Run("filters by exact employee id", func(t *testing.T) {
		t.Parallel()

		store, directory := adminFixture()
		svc := NewAdminQueryService(store, directory)
		list, err := svc.ListAll(context.Background(), admin, AdminListFilter{EmployeeID: "alice"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a-2", "a-1"}, ids(list.Rows))

		list, err = svc.ListAll(context.Background(), admin, AdminListFilter{EmployeeID: "ali"})
		require.NoError(t, err)
		assert.Empty(t, list.Rows)
	})

	t.Run("search folds case over name and code", func(t *testing.T) {
		t.Parallel()

		store, directory := adminFixture()
		svc := NewAdminQueryService(store, directory)

		cases := map[string][]string{
			"müller":  {"a-2", "a-1"},
			"e-00":    {"a-2", "b-1", "a-1"},
			"strasse": {"c-1"},
			"x-9":     {"c-1"},
			"nobody":  {},
		}
		for search, want := range cases {
			list, err := svc.ListAll(context.Background(), admin, AdminListFilter{Search: search})
			require.NoError(t, err)
			assert.Equal(t, want, ids(list.Rows), "search %q", search)
		}
	})

	t.Run("combines search with employee id", func(t *testing.T) {
		t.Parallel()

		store, directory := adminFixture()
		svc := NewAdminQueryService(store, directory)
		list, err := svc.ListAll(context.Background(), admin, AdminListFilter{EmployeeID: "bob", Search: "alice"})
		require.NoError(t, err)
		assert.Empty(t, list.Rows)
	})

	t.Run("windows the filtered result", func(t *testing.T) {
		t.Parallel()

		store, directory := adminFixture()
		svc := NewAdminQueryService(store, directory)
		list, err := svc.ListAll(context.Background(), admin, AdminListFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"a-2", "b-1"}, ids(list.Rows))
		assert.Equal(t, 5, list.Total)

		list, err = svc.ListAll(context.Background(), admin, AdminListFilter{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, list.Rows)
		assert.Equal(t, 5, list.Total)

		_, err = svc.ListAll(context.Background(), admin, AdminListFilter{Limit: -1})
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("breaks check-in ties by id", func(t *testing.T) {
		t.Parallel()

		store := &memorySessions{sessions: []AttendanceSession{
			completedSession("s-a", "alice", at(9, 0), 5),
			completedSession("s-b", "bob", at(9, 0), 5),
		}}
		svc := NewAdminQueryService(store, nil)
		list, err := svc.ListAll(context.Background(), admin, AdminListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"s-b", "s-a"}, ids(list.Rows))
	})

	t.Run("directory failure is a storage error", func(t *testing.T) {
		t.Parallel()

		store, directory := adminFixture()
		directory.err = errors.New("directory offline")
		svc := NewAdminQueryService(store, directory)
		_, err := svc.ListAll(context.Background(), admin, AdminListFilter{})
		var sErr *StorageError
		assert.ErrorAs(t, err, &sErr)
	})

	t.Run("does not write", func(t *testing.T) {
		t.Parallel()

		store, directory := adminFixture()
		before := store.count()
		_, err := NewAdminQueryService(store, directory).ListAll(context.Background(), admin, AdminListFilter{Search: "a"})
		require.NoError(t, err)
		assert.Equal(t, before, store.count())
		assert.Zero(t, store.creates)
	})
}
