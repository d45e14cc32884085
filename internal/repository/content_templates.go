package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// GetActiveTemplatesByCourseID 返回某门课程当前启用的全部内容模板
// 模板目录本身由外部协作方维护，这里只读
func (r *Repository) GetActiveTemplatesByCourseID(courseID int64) ([]*domain.ContentTemplate, error) {
	query := `
		SELECT id, week_number, content_type, title, created_at, version
		FROM content_templates
		WHERE course_id = $1 AND is_active = TRUE
		ORDER BY week_number, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []*domain.ContentTemplate{}
	for rows.Next() {
		template := &domain.ContentTemplate{
			CourseID: courseID,
			IsActive: true,
		}
		dst := []any{&template.ID, &template.WeekNumber, &template.ContentType, &template.Title, &template.CreatedAt, &template.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) CreateContentTemplate(template *domain.ContentTemplate) error {
	query := `
		INSERT INTO content_templates (course_id, week_number, content_type, title, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{template.CourseID, template.WeekNumber, template.ContentType, template.Title, template.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&template.ID, &template.CreatedAt, &template.Version); err != nil {
		return err
	}

	return nil
}
