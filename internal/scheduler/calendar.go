package scheduler

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("开班结束日期不能早于开始日期")

// WeekWindow 是开班日期范围按周切分出的一个连续区间，最短 1 天，最长 7 天
type WeekWindow struct {
	Index int       `json:"index"` // 从 1 开始，连续无间隔
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PartitionWeeks 把开班的日期范围切分为有序的周窗口序列
// 第 1 周从 startDate 当天开始，之后每周的开始比上一周晚 7 天，
// 最后一周的结束日期收敛到 endDate，因此最后一个窗口可能不足 7 天
func PartitionWeeks(startDate, endDate time.Time) ([]WeekWindow, error) {
	start := truncateToDate(startDate)
	end := truncateToDate(endDate)

	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	weeks := []WeekWindow{}
	for i := 0; ; i++ {
		weekStart := start.AddDate(0, 0, i*7)
		if weekStart.After(end) {
			break
		}

		weekEnd := weekStart.AddDate(0, 0, 6)
		if weekEnd.After(end) {
			weekEnd = end
		}

		weeks = append(weeks, WeekWindow{
			Index: i + 1,
			Start: weekStart,
			End:   weekEnd,
		})
	}

	return weeks, nil
}

// Days 按顺序返回窗口内的每一个日期
func (w WeekWindow) Days() []time.Time {
	days := []time.Time{}
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains 判断某个时刻所在的日期是否落在窗口内
func (w WeekWindow) Contains(t time.Time) bool {
	d := truncateToDate(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
