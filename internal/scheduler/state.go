package scheduler

import (
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// TemplateState 标记一个模板当前是否已有发布安排
type TemplateState struct {
	Template  *domain.ContentTemplate `json:"template"`
	Scheduled bool                    `json:"scheduled"`
	Entry     *domain.ScheduleEntry   `json:"entry,omitempty"`
}

type DayState struct {
	Date    time.Time               `json:"date"`
	Entries []*domain.ScheduleEntry `json:"entries"`
}

type WeekState struct {
	Window    WeekWindow      `json:"window"`
	Templates []TemplateState `json:"templates"`
	Days      []DayState      `json:"days"`
}

// ScheduleState 是面向展示的发布计划快照，纯派生结果，可以在每次读取时重算
type ScheduleState struct {
	Weeks []WeekState `json:"weeks"`
	// 声明周次超出开班总周数的模板，只提示不拒绝
	OverflowTemplates []TemplateState `json:"overflowTemplates"`
}

// BuildScheduleState 把周窗口、模板分组和当前已保存的发布安排合成展示状态：
// 每个模板只要在 current 中有记录就视为已安排，与它实际落在哪一天无关；
// 每一天列出发布日期和它匹配的所有安排
func BuildScheduleState(weeks []WeekWindow, templatesByWeek map[int32][]*domain.ContentTemplate, current map[int64]*domain.ScheduleEntry) *ScheduleState {
	state := &ScheduleState{
		Weeks:             make([]WeekState, 0, len(weeks)),
		OverflowTemplates: []TemplateState{},
	}

	for _, window := range weeks {
		week := WeekState{
			Window:    window,
			Templates: templateStates(templatesByWeek[int32(window.Index)], current),
			Days:      make([]DayState, 0, 7),
		}

		for _, day := range window.Days() {
			week.Days = append(week.Days, DayState{
				Date:    day,
				Entries: entriesOnDay(current, day),
			})
		}

		state.Weeks = append(state.Weeks, week)
	}

	// 收集周次超出总周数的模板
	overflowWeeks := []int32{}
	for weekNumber := range templatesByWeek {
		if int(weekNumber) > len(weeks) {
			overflowWeeks = append(overflowWeeks, weekNumber)
		}
	}
	sort.Slice(overflowWeeks, func(i, j int) bool { return overflowWeeks[i] < overflowWeeks[j] })

	for _, weekNumber := range overflowWeeks {
		state.OverflowTemplates = append(state.OverflowTemplates, templateStates(templatesByWeek[weekNumber], current)...)
	}

	return state
}

func templateStates(templates []*domain.ContentTemplate, current map[int64]*domain.ScheduleEntry) []TemplateState {
	states := make([]TemplateState, 0, len(templates))
	for _, template := range templates {
		entry, scheduled := current[template.ID]
		states = append(states, TemplateState{
			Template:  template,
			Scheduled: scheduled,
			Entry:     entry,
		})
	}
	return states
}

func entriesOnDay(current map[int64]*domain.ScheduleEntry, day time.Time) []*domain.ScheduleEntry {
	entries := []*domain.ScheduleEntry{}
	for _, entry := range current {
		if truncateToDate(entry.PublishAt).Equal(day) {
			entries = append(entries, entry)
		}
	}

	// map 遍历顺序不确定，按模板 ID 排序保证输出稳定
	sort.Slice(entries, func(i, j int) bool { return entries[i].TemplateID < entries[j].TemplateID })

	return entries
}
