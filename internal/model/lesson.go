// internal/model/lesson.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Lesson はコースのシラバス項目（レッスン）を表します。
// order_index がコース内の再生順を定義し、コース内で一意。
// オーサリングでのみ作成され、クライアントからは不変。
type Lesson struct {
	LessonID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;index:idx_course_order,unique" json:"course_id"`
	Title      string    `gorm:"not null" json:"title"`
	VideoURL   string    `gorm:"column:video_url;not null" json:"video_url"`
	Duration   string    `json:"duration"`
	Preview    bool      `gorm:"not null;default:false" json:"preview"` // 未登録でも視聴可能なプレビュー
	OrderIndex int       `gorm:"column:order_index;not null;index:idx_course_order,unique" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Lesson) TableName() string {
	return "course_syllabus"
}
