package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

// SeedCatalog 从 CSV 导入课程目录，
// 表头固定为：课程代码,课程名称,周次,类型,标题
func SeedCatalog(r *repository.Repository, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	columns := map[string]int{}
	for i, header := range headers {
		columns[header] = i
	}
	for _, required := range []string{"课程代码", "课程名称", "周次", "类型", "标题"} {
		if _, ok := columns[required]; !ok {
			slog.Error("缺少必需的列", "column", required)
			return
		}
	}

	// 同一门课程在文件中会出现多行，只创建一次
	courses := map[string]*domain.Course{}
	templatesByCourse := map[string][]*domain.ContentTemplate{}

	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		code := row[columns["课程代码"]]
		if code == "" {
			slog.Error("课程代码为空", "row", row)
			continue
		}

		if _, ok := courses[code]; !ok {
			courses[code] = &domain.Course{
				Name: row[columns["课程名称"]],
				Code: code,
			}
		}

		weekNumber, err := strconv.Atoi(row[columns["周次"]])
		if err != nil {
			slog.Error("转换周次失败", "week", row[columns["周次"]])
			continue
		}

		templatesByCourse[code] = append(templatesByCourse[code], &domain.ContentTemplate{
			WeekNumber:  int32(weekNumber),
			ContentType: domain.ContentType(row[columns["类型"]]),
			Title:       row[columns["标题"]],
			IsActive:    true,
		})
	}

	for code, course := range courses {
		// 已存在的课程直接复用，只补充模板
		existing, err := r.GetCourseByCode(code)
		switch {
		case err == nil:
			course = existing
		case errors.Is(err, sql.ErrNoRows):
			if err := r.CreateCourse(course); err != nil {
				slog.Error("插入课程失败", "code", code, "error", err)
				continue
			}
		default:
			slog.Error("查询课程失败", "code", code, "error", err)
			continue
		}

		templates := templatesByCourse[code]
		if err := utils.ValidateTemplatesForCourse(templates); err != nil {
			slog.Error("模板目录校验失败", "code", code, "error", err)
			continue
		}

		for _, template := range templates {
			template.CourseID = course.ID
			if err := r.CreateContentTemplate(template); err != nil {
				slog.Error("插入内容模板失败", "code", code, "title", template.Title, "error", err)
			}
		}
	}

	slog.Info("课程目录导入完成")
}
