package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func TestGroupTemplatesByWeek(t *testing.T) {
	templates := []*domain.ContentTemplate{
		{ID: 1, WeekNumber: 1, Title: "课程介绍", ContentType: domain.ContentTypeMaterial},
		{ID: 2, WeekNumber: 1, Title: "第一周作业", ContentType: domain.ContentTypeAssignment},
		{ID: 3, WeekNumber: 2, Title: "第二周测验", ContentType: domain.ContentTypeQuiz},
		// 周次超出开班周数的模板也应保留，是否对齐由调用方提示
		{ID: 4, WeekNumber: 12, Title: "期末复习", ContentType: domain.ContentTypeMaterial},
	}

	byWeek := GroupTemplatesByWeek(templates)

	require.Len(t, byWeek, 3)
	assert.Len(t, byWeek[1], 2)
	assert.Len(t, byWeek[2], 1)
	assert.Len(t, byWeek[12], 1)
	assert.Equal(t, int64(4), byWeek[12][0].ID)
}

func TestGroupTemplatesByWeekEmpty(t *testing.T) {
	byWeek := GroupTemplatesByWeek(nil)
	assert.Empty(t, byWeek)
}
