package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// GetClassRunForInstructor 按开班 ID 和任课教师双重限定查询，
// 开班不存在与不属于该教师在结果上不可区分，都返回 sql.ErrNoRows
func (r *Repository) GetClassRunForInstructor(id int64, instructorID int64) (*domain.ClassRun, error) {
	query := `
		SELECT course_id, name, start_date, end_date, created_at, version
		FROM class_runs
		WHERE id = $1 AND instructor_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	classRun := &domain.ClassRun{
		ID:           id,
		InstructorID: instructorID,
	}

	dst := []any{&classRun.CourseID, &classRun.Name, &classRun.StartDate, &classRun.EndDate, &classRun.CreatedAt, &classRun.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id, instructorID).Scan(dst...); err != nil {
		return nil, err
	}

	return classRun, nil
}

func (r *Repository) GetClassRunsByInstructor(instructorID int64) ([]*domain.ClassRun, error) {
	query := `
		SELECT id, course_id, name, start_date, end_date, created_at, version
		FROM class_runs
		WHERE instructor_id = $1
		ORDER BY start_date DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, instructorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classRuns := []*domain.ClassRun{}
	for rows.Next() {
		classRun := &domain.ClassRun{
			InstructorID: instructorID,
		}
		dst := []any{&classRun.ID, &classRun.CourseID, &classRun.Name, &classRun.StartDate, &classRun.EndDate, &classRun.CreatedAt, &classRun.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		classRuns = append(classRuns, classRun)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classRuns, nil
}

func (r *Repository) CreateClassRun(classRun *domain.ClassRun) error {
	query := `
		INSERT INTO class_runs (course_id, instructor_id, name, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{classRun.CourseID, classRun.InstructorID, classRun.Name, classRun.StartDate, classRun.EndDate}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&classRun.ID, &classRun.CreatedAt, &classRun.Version); err != nil {
		return err
	}

	return nil
}
