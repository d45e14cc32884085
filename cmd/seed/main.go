package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/seed"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var courseCode string
	var catalogFile string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机教师, 2: 插入随机课程及内容模板, 3: 插入随机开班, 4: 从 CSV 导入课程目录)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&courseCode, "course-code", "", "随机开班所属课程的课程代码")
	flag.StringVar(&catalogFile, "file", "./internal/seed/data/catalog.csv", "课程目录 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的教师数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomInstructor(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机教师", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入教师", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入教师成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的课程数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				course := utils.GenerateRandomCourse()
				if err := repo.CreateCourse(course); err != nil {
					slog.Error("无法插入课程", slog.String("error", err.Error()))
					continue
				}

				templates := utils.GenerateRandomTemplatesForCourse(course.ID, rand.Intn(9)+4)
				for _, template := range templates {
					if err := repo.CreateContentTemplate(template); err != nil {
						slog.Error("无法插入内容模板", slog.String("error", err.Error()))
					}
				}

				cnt--
			}

			slog.Info("插入课程成功", slog.Int("count", n-cnt))
		}
	case 3:
		if courseCode == "" {
			slog.Error("请输入开班所属课程的课程代码")
			return
		}

		course, err := repo.GetCourseByCode(courseCode)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的课程不存在", slog.String("course_code", courseCode))
			default:
				slog.Error("无法获取课程", slog.String("error", err.Error()))
			}
			return
		}

		// 开班随机指派给一名教师
		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}

		instructors := []*domain.User{}
		for _, user := range users {
			if user.Role == domain.RoleInstructor {
				instructors = append(instructors, user)
			}
		}
		if len(instructors) == 0 {
			slog.Error("数据库中没有教师，请先执行 op=1")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			instructor := instructors[rand.Intn(len(instructors))]
			classRun := utils.GenerateRandomClassRun(course.ID, instructor.ID)

			if err := utils.ValidateClassRunDates(classRun); err != nil {
				slog.Error("开班日期非法", slog.String("error", err.Error()))
				continue
			}
			if err := repo.CreateClassRun(classRun); err != nil {
				slog.Error("无法插入开班", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入开班成功", slog.Int("count", cnt))
	case 4:
		seed.SeedCatalog(repo, catalogFile)
	default:
		slog.Error("指定的操作非法")
	}
}
