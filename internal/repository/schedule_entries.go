package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// GetCurrentScheduleByClassID 返回某次开班当前的发布安排，每个模板至多一条
// 按 updated_at 升序扫描，万一出现重复记录时以最近更新的一条为准
func (r *Repository) GetCurrentScheduleByClassID(classRunID int64) (map[int64]*domain.ScheduleEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			se.id,
			se.template_id,
			se.publish_at,
			se.status,
			se.created_at,
			se.updated_at,
			ct.title,
			ct.content_type,
			ct.week_number
		FROM schedule_entries se
		JOIN content_templates ct ON se.template_id = ct.id
		WHERE se.class_run_id = $1
		ORDER BY se.updated_at
	`

	rows, err := r.dbpool.QueryContext(ctx, query, classRunID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	current := make(map[int64]*domain.ScheduleEntry)
	for rows.Next() {
		entry := &domain.ScheduleEntry{
			ClassRunID: classRunID,
		}

		dst := []any{
			&entry.ID,
			&entry.TemplateID,
			&entry.PublishAt,
			&entry.Status,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.TemplateTitle,
			&entry.ContentType,
			&entry.WeekNumber,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		current[entry.TemplateID] = entry
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return current, nil
}

// ApplyScheduleBatch 在一个事务内原子地应用一批发布安排：
// overwrite 为 true 时先清空该开班的全部安排，然后按提交顺序逐条插入或更新，
// (class_run_id, template_id) 上的唯一约束保证并发下也不会产生重复记录，
// 任何一条语句失败都会整体回滚，读取方不会看到部分生效的批次
func (r *Repository) ApplyScheduleBatch(classRunID int64, overwrite bool, assignments []domain.ScheduleAssignment) ([]*domain.ScheduleEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 锁住开班这一行，让同一开班上的并发批量保存（尤其是并发的 overwrite）串行执行
	var lockedID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM class_runs WHERE id = $1 FOR UPDATE`, classRunID).Scan(&lockedID); err != nil {
		return nil, err
	}

	if overwrite {
		query := `DELETE FROM schedule_entries WHERE class_run_id = $1`
		if _, err := tx.ExecContext(ctx, query, classRunID); err != nil {
			return nil, err
		}
	}

	entries := make([]*domain.ScheduleEntry, 0, len(assignments))
	for _, assignment := range assignments {
		query := `
			INSERT INTO schedule_entries (class_run_id, template_id, publish_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (class_run_id, template_id)
			DO UPDATE SET
				publish_at = EXCLUDED.publish_at,
				status = 'scheduled',
				updated_at = NOW()
			RETURNING id, status, created_at, updated_at
		`

		entry := &domain.ScheduleEntry{
			ClassRunID: classRunID,
			TemplateID: assignment.TemplateID,
			PublishAt:  assignment.PublishAt,
		}

		params := []any{classRunID, assignment.TemplateID, assignment.PublishAt}
		dst := []any{&entry.ID, &entry.Status, &entry.CreatedAt, &entry.UpdatedAt}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteScheduleEntry 删除一条发布安排，按开班 ID 二次限定，
// 记录不属于该开班时返回 sql.ErrNoRows 而不是静默忽略
func (r *Repository) DeleteScheduleEntry(id int64, classRunID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM schedule_entries WHERE id = $1 AND class_run_id = $2`

	res, err := r.dbpool.ExecContext(ctx, query, id, classRunID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// MarkScheduleEntryDueNow 把发布时间改成当前时刻并把状态重置为 scheduled，
// 等待外部发布进程在下一轮扫描中处理，这里不做任何实际发布
func (r *Repository) MarkScheduleEntryDueNow(id int64, classRunID int64) (*domain.ScheduleEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE schedule_entries
		SET
			publish_at = NOW(),
			status = 'scheduled',
			updated_at = NOW()
		WHERE id = $1 AND class_run_id = $2
		RETURNING template_id, publish_at, status, created_at, updated_at
	`

	entry := &domain.ScheduleEntry{
		ID:         id,
		ClassRunID: classRunID,
	}

	dst := []any{&entry.TemplateID, &entry.PublishAt, &entry.Status, &entry.CreatedAt, &entry.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id, classRunID).Scan(dst...); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetDueScheduleEntries 扫描到期未发布的安排并带上通知所需的展示字段，供发布进程使用
func (r *Repository) GetDueScheduleEntries(limit int) ([]*domain.DuePublication, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			se.id,
			se.class_run_id,
			cr.name,
			ct.title,
			ct.content_type,
			se.publish_at,
			u.full_name,
			u.email
		FROM schedule_entries se
		JOIN class_runs cr ON se.class_run_id = cr.id
		JOIN content_templates ct ON se.template_id = ct.id
		JOIN users u ON cr.instructor_id = u.id
		WHERE se.status = 'scheduled' AND se.publish_at <= NOW()
		ORDER BY se.publish_at
		LIMIT $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := []*domain.DuePublication{}
	for rows.Next() {
		pub := &domain.DuePublication{}
		dst := []any{
			&pub.EntryID,
			&pub.ClassRunID,
			&pub.ClassName,
			&pub.TemplateTitle,
			&pub.ContentType,
			&pub.PublishAt,
			&pub.InstructorName,
			&pub.InstructorEmail,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		due = append(due, pub)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return due, nil
}

// MarkScheduleEntryStatus 由发布进程写入 published 或 failed 状态
func (r *Repository) MarkScheduleEntryStatus(id int64, status domain.ScheduleStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `UPDATE schedule_entries SET status = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.dbpool.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
