// internal/model/playback.go
package model

import (
	"github.com/google/uuid"
)

// PlaybackState は視聴セッションの再生状態
type PlaybackState string

const (
	// PlaybackLocked は再生可能なレッスンが選択されていない状態
	PlaybackLocked PlaybackState = "locked"
	// PlaybackReady は再生可能なレッスンが選択されストリームがロード済みの状態
	PlaybackReady PlaybackState = "ready"
	// PlaybackBlocked はセキュリティモニタにより再生が強制停止された状態
	PlaybackBlocked PlaybackState = "blocked"
)

// ContextKey はコンテキストに値を格納するためのキー型
type ContextKey string

const (
	UserIDKey ContextKey = "userID"
)

// PlaybackView は視聴セッションの読み取り専用スナップショット
type PlaybackView struct {
	State          PlaybackState  `json:"state"`
	ActiveLessonID *uuid.UUID     `json:"active_lesson_id,omitempty"`
	ActiveVideoURL string         `json:"active_video_url,omitempty"`
	Warning        *IncidentEvent `json:"warning,omitempty"` // 未確認の警告種別
	ViolationCount int            `json:"violation_count"`
}

// LessonView はシラバス表示用のレッスン情報（視聴可否つき）
type LessonView struct {
	Lesson
	Playable  bool `json:"playable"`
	Completed bool `json:"completed"`
}

// CourseDetailResponse はコース詳細画面の初期ロードのレスポンス。
// 4つの読み取り（コース・シラバス・受講状態・進捗）がすべて揃ってから返す。
type CourseDetailResponse struct {
	Course          *Course            `json:"course"`
	Syllabus        []LessonView       `json:"syllabus"`
	Enrolled        bool               `json:"enrolled"`
	CompletionMap   map[uuid.UUID]bool `json:"completion_map"`
	ProgressPercent int                `json:"progress_percent"` // 完了マップから毎回導出（保存値は使わない）
	Completed       bool               `json:"completed"`
	Playback        PlaybackView       `json:"playback"`
}
