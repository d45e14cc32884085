package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func classWeeks(t *testing.T) []WeekWindow {
	t.Helper()
	weeks, err := PartitionWeeks(date(2024, 1, 1), date(2024, 1, 20))
	require.NoError(t, err)
	return weeks
}

func classTemplates() []*domain.ContentTemplate {
	return []*domain.ContentTemplate{
		{ID: 5, WeekNumber: 2, Title: "第二周讲义", ContentType: domain.ContentTypeMaterial},
		{ID: 6, WeekNumber: 1, Title: "第一周作业", ContentType: domain.ContentTypeAssignment},
		{ID: 7, WeekNumber: 9, Title: "附加内容", ContentType: domain.ContentTypeQuiz},
	}
}

func TestPlanBatchComposesPublishAt(t *testing.T) {
	plan := PlanBatch([]Submission{
		{TemplateID: 5, Enabled: true, PublishDate: "2024-01-10", PublishTime: "09:00:00"},
	}, classWeeks(t), classTemplates())

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, int64(5), plan.Assignments[0].TemplateID)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local), plan.Assignments[0].PublishAt)
	assert.Zero(t, plan.Skipped)
	assert.Empty(t, plan.Failures)
	assert.Empty(t, plan.Warnings)
}

func TestPlanBatchDefaultPublishTime(t *testing.T) {
	plan := PlanBatch([]Submission{
		{TemplateID: 6, Enabled: true, PublishDate: "2024-01-03"},
	}, classWeeks(t), classTemplates())

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, time.Date(2024, 1, 3, 8, 0, 0, 0, time.Local), plan.Assignments[0].PublishAt)
}

func TestPlanBatchSkipsDisabledAndEmptyDate(t *testing.T) {
	plan := PlanBatch([]Submission{
		{TemplateID: 5, Enabled: false, PublishDate: "2024-01-10"},
		{TemplateID: 6, Enabled: true, PublishDate: ""},
		{TemplateID: 6, Enabled: true, PublishDate: "2024-01-03"},
	}, classWeeks(t), classTemplates())

	// 跳过不是失败
	assert.Equal(t, 2, plan.Skipped)
	assert.Empty(t, plan.Failures)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, int64(6), plan.Assignments[0].TemplateID)
}

func TestPlanBatchRecordsParseFailureAndContinues(t *testing.T) {
	plan := PlanBatch([]Submission{
		{TemplateID: 5, Enabled: true, PublishDate: "2024/01/10"},
		{TemplateID: 6, Enabled: true, PublishDate: "2024-01-03"},
	}, classWeeks(t), classTemplates())

	require.Len(t, plan.Failures, 1)
	assert.Equal(t, int64(5), plan.Failures[0].TemplateID)
	// 单项失败不阻止其余提交项的协调
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, int64(6), plan.Assignments[0].TemplateID)
}

func TestPlanBatchKeepsSubmissionOrder(t *testing.T) {
	plan := PlanBatch([]Submission{
		{TemplateID: 6, Enabled: true, PublishDate: "2024-01-03"},
		{TemplateID: 5, Enabled: true, PublishDate: "2024-01-10"},
	}, classWeeks(t), classTemplates())

	require.Len(t, plan.Assignments, 2)
	assert.Equal(t, int64(6), plan.Assignments[0].TemplateID)
	assert.Equal(t, int64(5), plan.Assignments[1].TemplateID)
}

func TestPlanBatchWeekAlignmentIsAdvisory(t *testing.T) {
	// 模板声明第 2 周，却被安排在第 1 周：只提示，仍然生成安排
	plan := PlanBatch([]Submission{
		{TemplateID: 5, Enabled: true, PublishDate: "2024-01-02"},
	}, classWeeks(t), classTemplates())

	require.Len(t, plan.Assignments, 1)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "第 2 周")
}

func TestPlanBatchWarnsOutsideClassRange(t *testing.T) {
	plan := PlanBatch([]Submission{
		{TemplateID: 6, Enabled: true, PublishDate: "2024-02-15"},
	}, classWeeks(t), classTemplates())

	require.Len(t, plan.Assignments, 1)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "不在开班日期范围内")
}

func TestPlanBatchWarnsWeekNumberOverflow(t *testing.T) {
	plan := PlanBatch([]Submission{
		{TemplateID: 7, Enabled: true, PublishDate: "2024-01-18"},
	}, classWeeks(t), classTemplates())

	require.Len(t, plan.Assignments, 1)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "超出了开班总周数")
}

func TestPlanBatchUnknownTemplateNoWarning(t *testing.T) {
	// 模板归属校验由上游负责，这里按原样接受
	plan := PlanBatch([]Submission{
		{TemplateID: 999, Enabled: true, PublishDate: "2024-01-10"},
	}, classWeeks(t), classTemplates())

	require.Len(t, plan.Assignments, 1)
	assert.Empty(t, plan.Warnings)
}

func TestPlanBatchEmpty(t *testing.T) {
	plan := PlanBatch(nil, classWeeks(t), classTemplates())
	assert.Empty(t, plan.Assignments)
	assert.Zero(t, plan.Skipped)
}
