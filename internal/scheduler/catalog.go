package scheduler

import (
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// GroupTemplatesByWeek 把内容模板按其声明的周次分组
// 周次超出开班实际周数的模板同样会保留在分组结果中，
// 周次是否对齐只作提示，由调用方负责展示
func GroupTemplatesByWeek(templates []*domain.ContentTemplate) map[int32][]*domain.ContentTemplate {
	byWeek := make(map[int32][]*domain.ContentTemplate)
	for _, template := range templates {
		byWeek[template.WeekNumber] = append(byWeek[template.WeekNumber], template)
	}
	return byWeek
}
