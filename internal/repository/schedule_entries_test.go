package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func testRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 5

	return NewRepository(cfg, db), mock
}

func entryColumns() []string {
	return []string{"id", "status", "created_at", "updated_at"}
}

func TestApplyScheduleBatchOverwriteEmptyPurgesAll(t *testing.T) {
	repo, mock := testRepository(t)

	// 覆盖模式下先锁开班行再整体清空，空批次等价于清空全部安排
	mock.ExpectBegin()
	mock.ExpectQuery("FROM class_runs WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec("DELETE FROM schedule_entries WHERE class_run_id").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	entries, err := repo.ApplyScheduleBatch(3, true, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyScheduleBatchResubmitKeepsScheduleID(t *testing.T) {
	repo, mock := testRepository(t)

	publishAt := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	now := time.Now()

	// 重复提交同一个模板必须走 ON CONFLICT 更新，沿用数据库中已有记录的 ID
	mock.ExpectBegin()
	mock.ExpectQuery("FROM class_runs WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(`(?s)INSERT INTO schedule_entries.*ON CONFLICT \(class_run_id, template_id\).*DO UPDATE`).
		WithArgs(int64(3), int64(7), publishAt).
		WillReturnRows(sqlmock.NewRows(entryColumns()).AddRow(int64(42), "scheduled", now, now))
	mock.ExpectCommit()

	entries, err := repo.ApplyScheduleBatch(3, false, []domain.ScheduleAssignment{
		{TemplateID: 7, PublishAt: publishAt},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].ID)
	assert.Equal(t, domain.ScheduleStatusScheduled, entries[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyScheduleBatchRollsBackOnItemFailure(t *testing.T) {
	repo, mock := testRepository(t)

	publishAt := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	now := time.Now()

	// 批次中任何一条写入失败，整个事务回滚，前面已写入的条目也不生效
	mock.ExpectBegin()
	mock.ExpectQuery("FROM class_runs WHERE id = (.+) FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery("INSERT INTO schedule_entries").
		WithArgs(int64(3), int64(7), publishAt).
		WillReturnRows(sqlmock.NewRows(entryColumns()).AddRow(int64(42), "scheduled", now, now))
	mock.ExpectQuery("INSERT INTO schedule_entries").
		WithArgs(int64(3), int64(999), publishAt).
		WillReturnError(errors.New("违反外键约束"))
	mock.ExpectRollback()

	_, err := repo.ApplyScheduleBatch(3, false, []domain.ScheduleAssignment{
		{TemplateID: 7, PublishAt: publishAt},
		{TemplateID: 999, PublishAt: publishAt},
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteScheduleEntryRejectsForeignClass(t *testing.T) {
	repo, mock := testRepository(t)

	// 记录属于别的开班时影响行数为 0，必须返回 sql.ErrNoRows 而不是静默成功
	mock.ExpectExec("DELETE FROM schedule_entries WHERE id").
		WithArgs(int64(9), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteScheduleEntry(9, 2)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteScheduleEntryScopedByClass(t *testing.T) {
	repo, mock := testRepository(t)

	mock.ExpectExec("DELETE FROM schedule_entries WHERE id").
		WithArgs(int64(9), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteScheduleEntry(9, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkScheduleEntryDueNowRejectsForeignClass(t *testing.T) {
	repo, mock := testRepository(t)

	mock.ExpectQuery("UPDATE schedule_entries").
		WithArgs(int64(9), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"template_id", "publish_at", "status", "created_at", "updated_at"}))

	_, err := repo.MarkScheduleEntryDueNow(9, 2)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
