package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ContentPublishedMailData struct {
	InstructorName string `json:"instructorName"`
	ClassName      string `json:"className"`
	ContentTitle   string `json:"contentTitle"`
	PublishedAt    string `json:"publishedAt"`
}

type PublishFailedMailData struct {
	InstructorName string `json:"instructorName"`
	ClassName      string `json:"className"`
	ContentTitle   string `json:"contentTitle"`
	PlannedAt      string `json:"plannedAt"`
}
