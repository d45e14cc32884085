package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func TestValidateClassRunDates(t *testing.T) {
	classRun := &domain.ClassRun{
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2024, 3, 28, 0, 0, 0, 0, time.Local),
	}
	assert.NoError(t, ValidateClassRunDates(classRun))

	// 单日开班合法
	classRun.EndDate = classRun.StartDate
	assert.NoError(t, ValidateClassRunDates(classRun))

	classRun.EndDate = classRun.StartDate.AddDate(0, 0, -1)
	assert.Error(t, ValidateClassRunDates(classRun))
}

func TestValidateTemplatesForCourse(t *testing.T) {
	templates := []*domain.ContentTemplate{
		{WeekNumber: 1, Title: "第1周课程资料", ContentType: domain.ContentTypeMaterial},
		{WeekNumber: 2, Title: "第2周作业", ContentType: domain.ContentTypeAssignment},
	}
	assert.NoError(t, ValidateTemplatesForCourse(templates))

	templates[1].WeekNumber = 0
	assert.ErrorContains(t, ValidateTemplatesForCourse(templates), "周次")

	templates[1].WeekNumber = 2
	templates[0].Title = ""
	assert.ErrorContains(t, ValidateTemplatesForCourse(templates), "标题")
}
