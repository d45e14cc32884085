package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestPartitionWeeksInvalidRange(t *testing.T) {
	_, err := PartitionWeeks(date(2024, 1, 10), date(2024, 1, 9))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestPartitionWeeksTwentyDays(t *testing.T) {
	// 2024-01-01 ~ 2024-01-20 共 20 天，应切出 3 周，最后一周只有 6 天
	weeks, err := PartitionWeeks(date(2024, 1, 1), date(2024, 1, 20))
	require.NoError(t, err)
	require.Len(t, weeks, 3)

	assert.Equal(t, 1, weeks[0].Index)
	assert.Equal(t, date(2024, 1, 1), weeks[0].Start)
	assert.Equal(t, date(2024, 1, 7), weeks[0].End)

	assert.Equal(t, 2, weeks[1].Index)
	assert.Equal(t, date(2024, 1, 8), weeks[1].Start)
	assert.Equal(t, date(2024, 1, 14), weeks[1].End)

	assert.Equal(t, 3, weeks[2].Index)
	assert.Equal(t, date(2024, 1, 15), weeks[2].Start)
	assert.Equal(t, date(2024, 1, 20), weeks[2].End)
	assert.Len(t, weeks[2].Days(), 6)
}

func TestPartitionWeeksSingleDay(t *testing.T) {
	weeks, err := PartitionWeeks(date(2024, 3, 15), date(2024, 3, 15))
	require.NoError(t, err)
	require.Len(t, weeks, 1)
	assert.Equal(t, weeks[0].Start, weeks[0].End)
	assert.Len(t, weeks[0].Days(), 1)
}

func TestPartitionWeeksIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 59, 0, 0, time.Local)
	end := time.Date(2024, 1, 14, 0, 1, 0, 0, time.Local)

	weeks, err := PartitionWeeks(start, end)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, date(2024, 1, 1), weeks[0].Start)
	assert.Equal(t, date(2024, 1, 14), weeks[1].End)
}

func TestPartitionWeeksProperties(t *testing.T) {
	start := date(2024, 1, 1)

	for days := 1; days <= 70; days++ {
		end := start.AddDate(0, 0, days-1)
		weeks, err := PartitionWeeks(start, end)
		require.NoError(t, err)

		// 周数 = ceil(天数 / 7)
		expectedCount := (days + 6) / 7
		require.Len(t, weeks, expectedCount, "天数为 %d 时周数错误", days)

		// 窗口连续且不重叠，序号从 1 开始连续递增，最后一个窗口的结束日期等于 endDate
		for i, week := range weeks {
			assert.Equal(t, i+1, week.Index)
			assert.Equal(t, start.AddDate(0, 0, i*7), week.Start)
			assert.False(t, week.End.Before(week.Start))
			if i > 0 {
				assert.Equal(t, weeks[i-1].End.AddDate(0, 0, 1), week.Start)
			}
		}
		assert.Equal(t, end, weeks[len(weeks)-1].End)
	}
}

func TestWeekWindowContains(t *testing.T) {
	window := WeekWindow{Index: 1, Start: date(2024, 1, 8), End: date(2024, 1, 14)}

	assert.True(t, window.Contains(date(2024, 1, 8)))
	assert.True(t, window.Contains(time.Date(2024, 1, 14, 20, 30, 0, 0, time.Local)))
	assert.False(t, window.Contains(date(2024, 1, 7)))
	assert.False(t, window.Contains(date(2024, 1, 15)))
}
