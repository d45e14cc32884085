package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// InsertActivityLog 记录一条操作日志，批量保存成功后调用，失败只记日志不影响请求
func (r *Repository) InsertActivityLog(log *domain.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, event_kind, description, entity_kind, entity_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{log.UserID, log.EventKind, log.Description, log.EntityKind, log.EntityID}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&log.ID, &log.CreatedAt); err != nil {
		return err
	}

	return nil
}
