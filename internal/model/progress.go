// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress はユーザーのレッスン単位の視聴進捗を表します。
// レッスンへの最初の操作で遅延作成され、(user_id, syllabus_id) で一意。
// completed は false→true のみ遷移し、true になった後は終端状態（un-complete しない）。
type LessonProgress struct {
	ProgressID      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_lesson,unique" json:"user_id"`
	CourseID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	SyllabusID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_lesson,unique;column:syllabus_id" json:"syllabus_id"`
	Completed       bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt     *time.Time `json:"completed_at"`
	ProgressPercent int        `gorm:"not null;default:0" json:"progress_percent"` // レッスン単位の視聴率 (完了時 100)
	WatchedSeconds  int        `gorm:"not null;default:0" json:"watched_seconds"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`

	// 関連 (Preload用)
	Lesson *Lesson `gorm:"foreignKey:SyllabusID;references:LessonID" json:"-"`
}

func (LessonProgress) TableName() string {
	return "user_lesson_progress"
}

// MarkCompletedRequest はレッスン完了APIのリクエストDTO
type MarkCompletedRequest struct {
	WatchedSeconds int `json:"watched_seconds" validate:"gte=0"`
}

// MarkCompletedResponse はレッスン完了後のローカル状態のスナップショット。
// ストアへの書き込みが失敗しても楽観的状態はロールバックせず、
// synced=false と警告メッセージで失敗を通知する。
type MarkCompletedResponse struct {
	CompletionMap   map[uuid.UUID]bool `json:"completion_map"`
	ProgressPercent int                `json:"progress_percent"`
	Completed       bool               `json:"completed"`
	CourseCompleted bool               `json:"course_completed"` // このリクエストで100%に到達したか
	Synced          bool               `json:"synced"`
	SyncWarning     string             `json:"sync_warning,omitempty"`
}
