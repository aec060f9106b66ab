// internal/model/enrollment.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment はユーザーとコースの受講関係を表します。
// (user_id, course_id) は複合ユニーク。再登録は新しい行を作らず重複エラーになる。
// progress_percent / completed はレッスン完了後に Progress Tracker だけが更新する。
type Enrollment struct {
	EnrollmentID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index:idx_user_course,unique" json:"user_id"`
	CourseID        uuid.UUID `gorm:"type:uuid;not null;index:idx_user_course,unique" json:"course_id"`
	Enrolled        bool      `gorm:"not null;default:true" json:"enrolled"`
	ProgressPercent int       `gorm:"not null;default:0" json:"progress_percent"`
	Completed       bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt       time.Time `json:"enrolled_at"`
	UpdatedAt       time.Time `json:"-"`

	// 関連 (Preload用)
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"-"`
}

func (Enrollment) TableName() string {
	return "user_course_enrollments"
}

// EnrollResponse は受講登録APIのレスポンスDTO。
// 登録済みの場合もエラーではなく already_enrolled=true の成功として返す。
type EnrollResponse struct {
	Enrolled        bool `json:"enrolled"`
	AlreadyEnrolled bool `json:"already_enrolled"`
}
