package scheduler

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// DefaultPublishTime 是提交项未指定发布时间时使用的默认时间
const DefaultPublishTime = "08:00:00"

const publishAtLayout = "2006-01-02 15:04:05"

// Submission 是一条期望的发布安排提交项
type Submission struct {
	TemplateID  int64
	Enabled     bool
	PublishDate string // 格式 2006-01-02，为空时该项跳过
	PublishTime string // 格式 15:04:05，为空时使用默认时间
}

type ItemFailure struct {
	TemplateID int64  `json:"templateID"`
	Reason     string `json:"reason"`
}

// BatchPlan 是对一批提交项协调后的结果，Assignments 保持提交顺序
type BatchPlan struct {
	Assignments []domain.ScheduleAssignment
	Skipped     int
	Failures    []ItemFailure
	Warnings    []string
}

// PlanBatch 对一批提交项做纯计算的协调，不触碰任何存储：
//   - 未启用或未填日期的项跳过，跳过不算失败
//   - 日期时间解析失败的项记为失败，但不中断其余项的协调
//   - 发布日期和模板声明周次不对齐只产生提示信息，不会拒绝任何提交项
func PlanBatch(submissions []Submission, weeks []WeekWindow, templates []*domain.ContentTemplate) *BatchPlan {
	byID := make(map[int64]*domain.ContentTemplate, len(templates))
	for _, template := range templates {
		byID[template.ID] = template
	}

	plan := &BatchPlan{
		Assignments: []domain.ScheduleAssignment{},
		Failures:    []ItemFailure{},
		Warnings:    []string{},
	}

	for _, sub := range submissions {
		if !sub.Enabled || sub.PublishDate == "" {
			plan.Skipped++
			continue
		}

		publishTime := sub.PublishTime
		if publishTime == "" {
			publishTime = DefaultPublishTime
		}

		publishAt, err := time.ParseInLocation(publishAtLayout, sub.PublishDate+" "+publishTime, time.Local)
		if err != nil {
			plan.Failures = append(plan.Failures, ItemFailure{
				TemplateID: sub.TemplateID,
				Reason:     "发布日期或时间格式错误",
			})
			continue
		}

		if warning := alignmentWarning(byID[sub.TemplateID], publishAt, weeks); warning != "" {
			plan.Warnings = append(plan.Warnings, warning)
		}

		plan.Assignments = append(plan.Assignments, domain.ScheduleAssignment{
			TemplateID: sub.TemplateID,
			PublishAt:  publishAt,
		})
	}

	return plan
}

// alignmentWarning 检查发布日期和模板声明的周次是否对齐，返回提示文案，对齐时返回空串
func alignmentWarning(template *domain.ContentTemplate, publishAt time.Time, weeks []WeekWindow) string {
	if template == nil || len(weeks) == 0 {
		return ""
	}

	inRange := false
	for _, week := range weeks {
		if week.Contains(publishAt) {
			inRange = true
			break
		}
	}
	if !inRange {
		return fmt.Sprintf("「%s」的发布日期 %s 不在开班日期范围内", template.Title, publishAt.Format("2006-01-02"))
	}

	weekNumber := int(template.WeekNumber)
	if weekNumber > len(weeks) {
		return fmt.Sprintf("「%s」声明的周次（第 %d 周）超出了开班总周数（%d 周）", template.Title, weekNumber, len(weeks))
	}

	if weekNumber >= 1 && !weeks[weekNumber-1].Contains(publishAt) {
		return fmt.Sprintf("「%s」的发布日期 %s 不在第 %d 周（%s ~ %s）内",
			template.Title,
			publishAt.Format("2006-01-02"),
			weekNumber,
			weeks[weekNumber-1].Start.Format("2006-01-02"),
			weeks[weekNumber-1].End.Format("2006-01-02"),
		)
	}

	return ""
}
