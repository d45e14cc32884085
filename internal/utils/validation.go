package utils

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func ValidateClassRunDates(classRun *domain.ClassRun) error {
	if classRun.EndDate.Before(classRun.StartDate) {
		return errors.New("开班结束日期不能早于开始日期")
	}
	return nil
}

// ValidateTemplatesForCourse 检查模板目录是否可以直接导入：
// 周次必须为正，标题不能为空
func ValidateTemplatesForCourse(templates []*domain.ContentTemplate) error {
	for i, template := range templates {
		if template.WeekNumber < 1 {
			return fmt.Errorf("第 %d 个模板的周次必须为正数", i+1)
		}
		if template.Title == "" {
			return fmt.Errorf("第 %d 个模板的标题不能为空", i+1)
		}
	}
	return nil
}
