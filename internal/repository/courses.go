package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func (r *Repository) CreateCourse(course *domain.Course) error {
	query := `
		INSERT INTO courses (name, code)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, course.Name, course.Code).Scan(&course.ID, &course.CreatedAt, &course.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetCourseByCode(code string) (*domain.Course, error) {
	query := `
		SELECT id, name, created_at, version
		FROM courses
		WHERE code = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	course := &domain.Course{
		Code: code,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, code).Scan(&course.ID, &course.Name, &course.CreatedAt, &course.Version); err != nil {
		return nil, err
	}

	return course, nil
}
