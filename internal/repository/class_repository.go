package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/classpulse/classpulse-api/internal/models"
)

// ClassRepository handles persistence of classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID returns a class by its ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, code, teacher_id, room, day_of_week, start_time, end_time, is_active
        FROM classes WHERE id = $1 LIMIT 1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class by id: %w", err)
	}
	return &class, nil
}

// ListByTeacher returns all classes owned by a teacher.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Class, error) {
	const query = `SELECT id, name, code, teacher_id, room, day_of_week, start_time, end_time, is_active
        FROM classes WHERE teacher_id = $1 ORDER BY day_of_week, start_time`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, teacherID); err != nil {
		return nil, fmt.Errorf("list classes by teacher: %w", err)
	}
	return classes, nil
}

// ListByStudent returns the classes a student is enrolled in.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Class, error) {
	const query = `SELECT c.id, c.name, c.code, c.teacher_id, c.room, c.day_of_week, c.start_time, c.end_time, c.is_active
        FROM classes c
        JOIN enrollments e ON e.class_id = c.id
        WHERE e.student_id = $1
        ORDER BY c.day_of_week, c.start_time`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, studentID); err != nil {
		return nil, fmt.Errorf("list classes by student: %w", err)
	}
	return classes, nil
}

// Create persists a new class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	const query = `INSERT INTO classes (id, name, code, teacher_id, room, day_of_week, start_time, end_time, is_active)
        VALUES (:id, :name, :code, :teacher_id, :room, :day_of_week, :start_time, :end_time, :is_active)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update applies the provided partial fields and returns the updated row.
func (r *ClassRepository) Update(ctx context.Context, id string, update models.ClassUpdate) (*models.Class, error) {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}
	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Code != nil {
		add("code", *update.Code)
	}
	if update.Room != nil {
		add("room", *update.Room)
	}
	if update.DayOfWeek != nil {
		add("day_of_week", *update.DayOfWeek)
	}
	if update.StartTime != nil {
		add("start_time", *update.StartTime)
	}
	if update.EndTime != nil {
		add("end_time", *update.EndTime)
	}
	if update.IsActive != nil {
		add("is_active", *update.IsActive)
	}

	if len(sets) > 0 {
		query := fmt.Sprintf("UPDATE classes SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)+1)
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("update class: %w", err)
		}
	}

	return r.FindByID(ctx, id)
}
