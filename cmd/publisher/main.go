package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// publisher 周期性扫描到期未发布的安排，把发布事件投递到队列并流转状态，
// 投递失败的记录写成 failed。API 服务本身从不做实际发布
func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(time.Duration(cfg.Publisher.SweepInterval) * time.Second)
		defer ticker.Stop()

		for {
			sweep(cfg, repo, ch, logger)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	logger.Info("发布进程已启动", "interval", cfg.Publisher.SweepInterval)
	<-sigChan

	slog.Info("正在关闭 publisher...")
	cancel()
	wg.Wait()
	slog.Info("publisher 已成功关闭")
}

// contentQueue 是发布事件的投递通道，*amqp.Channel 实现了它，测试中可以替换
type contentQueue interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// 单轮扫描，每条记录独立处理，单条失败不影响同一轮的其他记录
func sweep(cfg *config.Config, repo *repository.Repository, ch contentQueue, logger *slog.Logger) {
	due, err := repo.GetDueScheduleEntries(cfg.Publisher.BatchSize)
	if err != nil {
		logger.Error("扫描到期安排失败", slog.String("error", err.Error()))
		return
	}

	if len(due) == 0 {
		return
	}
	logger.Info("扫描到到期安排", slog.Int("count", len(due)))

	for _, pub := range due {
		// 发布动作就是把发布事件交到队列上，交付失败即本次发布失败
		status := domain.ScheduleStatusPublished
		if err := publishContent(cfg, ch, pub); err != nil {
			logger.Error("发布事件投递失败", slog.Int64("entry_id", pub.EntryID), slog.String("error", err.Error()))
			status = domain.ScheduleStatusFailed
		}

		if err := repo.MarkScheduleEntryStatus(pub.EntryID, status); err != nil {
			// 状态写不进去就什么都不改，这条记录留给下一轮重试
			logger.Error("状态写入失败", slog.Int64("entry_id", pub.EntryID), slog.String("error", err.Error()))
			continue
		}

		if status == domain.ScheduleStatusFailed {
			// 失败通知只是尽力而为，队列不可用时多半也发不出去
			if err := notifyPublishFailed(cfg, ch, pub); err != nil {
				logger.Error("失败通知入队失败", slog.Int64("entry_id", pub.EntryID), slog.String("error", err.Error()))
			}
		}
	}
}

// publishContent 把发布事件投递到队列，mail worker 消费后通知任课教师，
// 这次投递同时就是发布动作本身：投递失败的记录会被写成 failed
func publishContent(cfg *config.Config, ch contentQueue, pub *domain.DuePublication) error {
	return enqueueMail(cfg, ch, domain.MailMessage{
		Type: "content_published",
		To:   pub.InstructorEmail,
		Data: domain.ContentPublishedMailData{
			InstructorName: pub.InstructorName,
			ClassName:      pub.ClassName,
			ContentTitle:   pub.TemplateTitle,
			PublishedAt:    time.Now().Format("2006-01-02 15:04:05"),
		},
	})
}

func notifyPublishFailed(cfg *config.Config, ch contentQueue, pub *domain.DuePublication) error {
	return enqueueMail(cfg, ch, domain.MailMessage{
		Type: "publish_failed",
		To:   pub.InstructorEmail,
		Data: domain.PublishFailedMailData{
			InstructorName: pub.InstructorName,
			ClassName:      pub.ClassName,
			ContentTitle:   pub.TemplateTitle,
			PlannedAt:      pub.PublishAt.Format("2006-01-02 15:04:05"),
		},
	})
}

func enqueueMail(cfg *config.Config, ch contentQueue, mailMessage domain.MailMessage) error {
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return ch.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}
