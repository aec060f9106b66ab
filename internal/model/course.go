// internal/model/course.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Course はコースのメタデータを表します。
// クライアントからは読み取り専用で、作成・更新はバックエンド側のオーサリングのみが行う。
type Course struct {
	CourseID      uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Instructor    string         `gorm:"not null" json:"instructor"`
	Description   string         `json:"description"`
	Price         *int64         `json:"price"` // null または 0 は無料コース
	Rating        float64        `json:"rating"`
	Reviews       int            `json:"reviews"`
	Image         string         `json:"image"`
	Lectures      int            `json:"lectures"`       // レッスン数
	TotalDuration string         `gorm:"column:total_duration" json:"total_duration"`
	Topics        datatypes.JSON `json:"topics"` // 学習トピックの配列
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// IsFree は無料コースかどうかを返します
func (c *Course) IsFree() bool {
	return c.Price == nil || *c.Price == 0
}

// MyCourseResponse はマイコース一覧のレスポンスDTO
type MyCourseResponse struct {
	CourseID        uuid.UUID `json:"course_id"`
	Title           string    `json:"title"`
	Instructor      string    `json:"instructor"`
	Image           string    `json:"image"`
	ProgressPercent int       `json:"progress_percent"`
	Completed       bool      `json:"completed"`
	EnrolledAt      time.Time `json:"enrolled_at"`
}
