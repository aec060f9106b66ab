// internal/model/incident.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IncidentEvent は検出する不正視聴シグナルの種別
type IncidentEvent string

const (
	EventScreenshotAttempt IncidentEvent = "screenshot_attempt"
	EventFocusLost         IncidentEvent = "app_background_focus_lost"
)

// IncidentDetails は security_incidents.details に格納するJSONペイロード
type IncidentDetails struct {
	Timestamp      time.Time `json:"timestamp"`
	ViolationCount int       `json:"violation_count"` // セッション内の累積違反回数
}

// SecurityIncident は不正視聴インシデントの記録。
// 追記専用で、クライアントからの更新・削除はない。
type SecurityIncident struct {
	IncidentID uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CourseID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	Event      IncidentEvent  `gorm:"not null" json:"event"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (SecurityIncident) TableName() string {
	return "security_incidents"
}

// SecuritySignalRequest はセキュリティシグナル通知APIのリクエストDTO
type SecuritySignalRequest struct {
	Event string `json:"event" validate:"required,oneof=screenshot_attempt app_background_focus_lost"`
}
