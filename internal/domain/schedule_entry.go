package domain

import "time"

type ScheduleStatus string

const (
	// 本服务只会写入 scheduled 状态，published 和 failed 由外部的发布进程写入
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusPublished ScheduleStatus = "published"
	ScheduleStatusFailed    ScheduleStatus = "failed"
)

// ScheduleEntry 把一个内容模板绑定到某次开班的一个具体发布时间
// (class_run_id, template_id) 上有唯一约束，每个模板在一次开班中至多一条记录
type ScheduleEntry struct {
	ID         int64          `json:"id"`
	ClassRunID int64          `json:"classRunID"`
	TemplateID int64          `json:"templateID"`
	PublishAt  time.Time      `json:"publishAt"`
	Status     ScheduleStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`

	// 以下字段来自与 content_templates 的联表查询，仅用于展示
	TemplateTitle string      `json:"templateTitle,omitempty"`
	ContentType   ContentType `json:"contentType,omitempty"`
	WeekNumber    int32       `json:"weekNumber,omitempty"`
}

// ScheduleAssignment 是协调器计算出的一条待写入的发布安排
type ScheduleAssignment struct {
	TemplateID int64
	PublishAt  time.Time
}

// DuePublication 是发布进程扫描出的一条到期待发布记录，带上通知所需的展示字段
type DuePublication struct {
	EntryID         int64
	ClassRunID      int64
	ClassName       string
	TemplateTitle   string
	ContentType     ContentType
	PublishAt       time.Time
	InstructorName  string
	InstructorEmail string
}
