package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomInstructor(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleInstructor,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

func GenerateRandomCourse() *domain.Course {
	return &domain.Course{
		Name: "测试课程" + GenerateRandomID(3, 3),
		Code: "TEST-" + GenerateRandomID(0, 4),
	}
}

var contentTypes = []domain.ContentType{
	domain.ContentTypeMaterial,
	domain.ContentTypeAssignment,
	domain.ContentTypeQuiz,
}

// 为一门课程随机生成若干周的内容模板，每周 1~3 个
func GenerateRandomTemplatesForCourse(courseID int64, weekCount int) []*domain.ContentTemplate {
	templates := []*domain.ContentTemplate{}

	for week := 1; week <= weekCount; week++ {
		n := rand.Intn(3) + 1
		for i := 0; i < n; i++ {
			contentType := contentTypes[rand.Intn(len(contentTypes))]
			templates = append(templates, &domain.ContentTemplate{
				CourseID:    courseID,
				WeekNumber:  int32(week),
				ContentType: contentType,
				Title:       fmt.Sprintf("第%d周%s %s", week, contentTypeLabel(contentType), GenerateRandomID(0, 3)),
				IsActive:    true,
			})
		}
	}

	return templates
}

func contentTypeLabel(contentType domain.ContentType) string {
	switch contentType {
	case domain.ContentTypeMaterial:
		return "课程资料"
	case domain.ContentTypeAssignment:
		return "作业"
	case domain.ContentTypeQuiz:
		return "测验"
	default:
		return "内容"
	}
}

// 随机生成一次开班，开始日期落在前后一个月内，持续 2~12 周
func GenerateRandomClassRun(courseID int64, instructorID int64) *domain.ClassRun {
	startDate := time.Now().AddDate(0, 0, rand.Intn(61)-30).Truncate(24 * time.Hour)
	weekCount := rand.Intn(11) + 2

	return &domain.ClassRun{
		CourseID:     courseID,
		InstructorID: instructorID,
		Name:         "测试开班" + GenerateRandomID(3, 3),
		StartDate:    startDate,
		EndDate:      startDate.AddDate(0, 0, weekCount*7-1),
	}
}
