package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// These tests pin down the SQL the repository generates against postgres,
// in particular the nulls-last ordering and the filter composition, without
// needing a live database.

func newMockedRepository(t *testing.T) (TaskRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return NewTaskRepository(gormDB), mock
}

func TestList_OrdersByDueDateNullsLastThenID(t *testing.T) {
	repo, mock := newMockedRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "tasks" ORDER BY CASE WHEN tasks\.due_date IS NULL THEN 1 ELSE 0 END, tasks\.due_date ASC, tasks\.id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	tasks, err := repo.List(TaskFilter{})

	assert.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_UserFilterUsesExistsSubquery(t *testing.T) {
	repo, mock := newMockedRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE EXISTS \(SELECT 1 FROM "task_assignments" WHERE task_assignments\.task_id = tasks\.id AND task_assignments\.username = \$1\) ORDER BY CASE WHEN tasks\.due_date IS NULL THEN 1 ELSE 0 END`).
		WithArgs("user#2345").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	username := "user#2345"
	_, err := repo.List(TaskFilter{Username: &username})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_GuildFilterMatchesExactly(t *testing.T) {
	repo, mock := newMockedRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE tasks\.guild = \$1 ORDER BY CASE WHEN tasks\.due_date IS NULL THEN 1 ELSE 0 END`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	guild := int64(100)
	_, err := repo.List(TaskFilter{Guild: &guild})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignedUsernames_QueriesCandidateSet(t *testing.T) {
	repo, mock := newMockedRepository(t)

	mock.ExpectQuery(`SELECT "username" FROM "task_assignments" WHERE task_id = \$1 AND username IN \(\$2,\$3\)`).
		WithArgs(int64(1), "a#1", "b#2").
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("b#2"))

	assigned, err := repo.AssignedUsernames(1, []string{"a#1", "b#2"})

	assert.NoError(t, err)
	assert.Equal(t, []string{"b#2"}, assigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignedUsernames_NoCandidatesSkipsQuery(t *testing.T) {
	repo, mock := newMockedRepository(t)

	assigned, err := repo.AssignedUsernames(1, nil)

	assert.NoError(t, err)
	assert.Empty(t, assigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}
