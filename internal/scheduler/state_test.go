package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

func TestBuildScheduleState(t *testing.T) {
	weeks, err := PartitionWeeks(date(2024, 1, 1), date(2024, 1, 20))
	require.NoError(t, err)

	templates := classTemplates()
	byWeek := GroupTemplatesByWeek(templates)

	current := map[int64]*domain.ScheduleEntry{
		// 模板 5 声明第 2 周，但被安排在了第 1 周：已安排标记与落点无关
		5: {ID: 100, TemplateID: 5, PublishAt: time.Date(2024, 1, 2, 8, 0, 0, 0, time.Local), Status: domain.ScheduleStatusScheduled},
		7: {ID: 101, TemplateID: 7, PublishAt: time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local), Status: domain.ScheduleStatusScheduled},
	}

	state := BuildScheduleState(weeks, byWeek, current)
	require.Len(t, state.Weeks, 3)

	// 1 月 2 日应列出两条安排，按模板 ID 排序
	day2 := state.Weeks[0].Days[1]
	require.Equal(t, date(2024, 1, 2), day2.Date)
	require.Len(t, day2.Entries, 2)
	assert.Equal(t, int64(5), day2.Entries[0].TemplateID)
	assert.Equal(t, int64(7), day2.Entries[1].TemplateID)

	// 其余日期没有安排
	assert.Empty(t, state.Weeks[0].Days[0].Entries)
	assert.Empty(t, state.Weeks[1].Days[0].Entries)

	// 模板 5 在第 2 周的分组里，即便它的安排落在第 1 周也应标记为已安排
	require.Len(t, state.Weeks[1].Templates, 1)
	assert.Equal(t, int64(5), state.Weeks[1].Templates[0].Template.ID)
	assert.True(t, state.Weeks[1].Templates[0].Scheduled)
	require.NotNil(t, state.Weeks[1].Templates[0].Entry)

	// 模板 6 未安排
	require.Len(t, state.Weeks[0].Templates, 1)
	assert.Equal(t, int64(6), state.Weeks[0].Templates[0].Template.ID)
	assert.False(t, state.Weeks[0].Templates[0].Scheduled)
	assert.Nil(t, state.Weeks[0].Templates[0].Entry)

	// 模板 7 声明第 9 周，超出总周数，进入溢出分组且保留已安排标记
	require.Len(t, state.OverflowTemplates, 1)
	assert.Equal(t, int64(7), state.OverflowTemplates[0].Template.ID)
	assert.True(t, state.OverflowTemplates[0].Scheduled)
}

func TestBuildScheduleStateEmptySchedule(t *testing.T) {
	weeks, err := PartitionWeeks(date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)

	state := BuildScheduleState(weeks, GroupTemplatesByWeek(classTemplates()), map[int64]*domain.ScheduleEntry{})

	require.Len(t, state.Weeks, 1)
	assert.Len(t, state.Weeks[0].Days, 7)
	for _, day := range state.Weeks[0].Days {
		assert.Empty(t, day.Entries)
	}
	for _, templateState := range state.Weeks[0].Templates {
		assert.False(t, templateState.Scheduled)
	}
}

func TestBuildScheduleStateIsPureDerivation(t *testing.T) {
	weeks, err := PartitionWeeks(date(2024, 1, 1), date(2024, 1, 20))
	require.NoError(t, err)

	byWeek := GroupTemplatesByWeek(classTemplates())
	current := map[int64]*domain.ScheduleEntry{
		6: {ID: 102, TemplateID: 6, PublishAt: time.Date(2024, 1, 3, 8, 0, 0, 0, time.Local)},
	}

	first := BuildScheduleState(weeks, byWeek, current)
	second := BuildScheduleState(weeks, byWeek, current)

	// 重复计算结果一致，且输入未被修改
	assert.Equal(t, first, second)
	assert.Len(t, current, 1)
}
