package domain

import "time"

// ClassRun 是某门课程的一次开班，开始和结束日期决定了内容发布计划的有效范围
type ClassRun struct {
	ID           int64     `json:"id"`
	CourseID     int64     `json:"courseID"`
	InstructorID int64     `json:"instructorID"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
