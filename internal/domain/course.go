package domain

import "time"

type ContentType string

const (
	ContentTypeMaterial   ContentType = "material"
	ContentTypeAssignment ContentType = "assignment"
	ContentTypeQuiz       ContentType = "quiz"
)

type Course struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// ContentTemplate 是课程内容模板，按周次组织，尚未绑定到任何具体的发布日期
type ContentTemplate struct {
	ID          int64       `json:"id"`
	CourseID    int64       `json:"courseID"`
	WeekNumber  int32       `json:"weekNumber"`
	ContentType ContentType `json:"contentType"`
	Title       string      `json:"title"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	Version     int32       `json:"-"`
}
