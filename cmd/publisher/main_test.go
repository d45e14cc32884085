package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
)

type stubQueue struct {
	err       error
	published []amqp.Publishing
}

func (s *stubQueue) PublishWithContext(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, msg)
	return nil
}

func sweepConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 5
	cfg.RabbitMQ.PublishTimeout = 5
	cfg.Publisher.BatchSize = 50
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dueRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "class_run_id", "name", "title", "content_type", "publish_at", "full_name", "email"}).
		AddRow(int64(11), int64(3), "2024春季班", "第一周作业", "assignment", time.Now().Add(-time.Minute), "王老师", "wang@example.com")
}

func TestSweepMarksPublishedAndEmitsEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM schedule_entries se").WillReturnRows(dueRows())
	mock.ExpectExec("UPDATE schedule_entries SET status").
		WithArgs("published", int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	queue := &stubQueue{}
	sweep(sweepConfig(), repository.NewRepository(sweepConfig(), db), queue, discardLogger())

	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, queue.published, 1)

	var mailMessage struct {
		Type string `json:"type"`
		To   string `json:"to"`
	}
	require.NoError(t, json.Unmarshal(queue.published[0].Body, &mailMessage))
	assert.Equal(t, "content_published", mailMessage.Type)
	assert.Equal(t, "wang@example.com", mailMessage.To)
}

func TestSweepMarksFailedWhenDeliveryFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM schedule_entries se").WillReturnRows(dueRows())
	// 投递失败的记录写成 failed，而不是留在 scheduled 上无限重试
	mock.ExpectExec("UPDATE schedule_entries SET status").
		WithArgs("failed", int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	queue := &stubQueue{err: errors.New("队列不可用")}
	sweep(sweepConfig(), repository.NewRepository(sweepConfig(), db), queue, discardLogger())

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, queue.published)
}

func TestSweepKeepsRowScheduledWhenStatusWriteFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM schedule_entries se").WillReturnRows(dueRows())
	mock.ExpectExec("UPDATE schedule_entries SET status").
		WithArgs("published", int64(11)).
		WillReturnError(errors.New("连接中断"))

	queue := &stubQueue{}
	// 状态写入失败只记日志，记录留给下一轮重试
	sweep(sweepConfig(), repository.NewRepository(sweepConfig(), db), queue, discardLogger())

	require.NoError(t, mock.ExpectationsWereMet())
}
