package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse-api/internal/models"
)

func TestAttendanceRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance").
		WithArgs(sqlmock.AnyArg(), "class-1", "student-1", "teacher-1", "2026-03-02", models.AttendanceStatusPresent, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	attendance := &models.Attendance{
		ClassID:   "class-1",
		StudentID: "student-1",
		TeacherID: "teacher-1",
		Date:      "2026-03-02",
		Status:    models.AttendanceStatusPresent,
	}
	err := repo.Create(context.Background(), attendance)

	require.NoError(t, err)
	assert.NotEmpty(t, attendance.ID)
	assert.False(t, attendance.MarkedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCreateIsAppendOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO attendance").
		WillReturnResult(sqlmock.NewResult(0, 1))

	first := &models.Attendance{ClassID: "class-1", StudentID: "student-1", TeacherID: "teacher-1", Date: "2026-03-02", Status: models.AttendanceStatusAbsent}
	second := &models.Attendance{ClassID: "class-1", StudentID: "student-1", TeacherID: "teacher-1", Date: "2026-03-02", Status: models.AttendanceStatusPresent}

	require.NoError(t, repo.Create(context.Background(), first))
	require.NoError(t, repo.Create(context.Background(), second))
	assert.NotEqual(t, first.ID, second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListByStudentNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	newer := testTime(t).Add(time.Hour)
	rows := sqlmock.NewRows([]string{"id", "class_id", "student_id", "teacher_id", "date", "status", "notes", "marked_at"}).
		AddRow("att-2", "class-1", "student-1", "teacher-1", "2026-03-03", models.AttendanceStatusLate, nil, newer).
		AddRow("att-1", "class-1", "student-1", "teacher-1", "2026-03-02", models.AttendanceStatusPresent, nil, testTime(t))
	mock.ExpectQuery(`FROM attendance WHERE student_id = \$1 ORDER BY marked_at DESC`).
		WithArgs("student-1").
		WillReturnRows(rows)

	records, err := repo.ListByStudent(context.Background(), "student-1")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "att-2", records[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpdateMissingID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("UPDATE attendance SET status").
		WithArgs(models.AttendanceStatusExcused, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	status := models.AttendanceStatusExcused
	_, err := repo.Update(context.Background(), "missing", models.AttendanceUpdate{Status: &status})

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("UPDATE attendance SET status").
		WithArgs(models.AttendanceStatusLate, "att-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	rows := sqlmock.NewRows([]string{"id", "class_id", "student_id", "teacher_id", "date", "status", "notes", "marked_at"}).
		AddRow("att-1", "class-1", "student-1", "teacher-1", "2026-03-02", models.AttendanceStatusLate, nil, testTime(t))
	mock.ExpectQuery("FROM attendance WHERE id").
		WithArgs("att-1").
		WillReturnRows(rows)

	status := models.AttendanceStatusLate
	updated, err := repo.Update(context.Background(), "att-1", models.AttendanceUpdate{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusLate, updated.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
