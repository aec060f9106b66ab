//go:generate mockery --name ProgressService --output ./mocks --outpkg mocks --case=underscore
// internal/service/progress_service.go
package service

import (
	"context"
	"time"

	"go_course_keep/internal/middleware"
	"go_course_keep/internal/model"
	"go_course_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressService interface {
	// MarkLessonCompleted はレッスンを完了にし、ローカル状態を先に確定してからストアへ書き込みます。
	// 書き込みが失敗してもローカル状態はロールバックせず synced=false で返す
	MarkLessonCompleted(ctx context.Context, sess *ViewingSession, lessonID uuid.UUID, req *model.MarkCompletedRequest) (*model.MarkCompletedResponse, error)
}

type progressService struct {
	db         *gorm.DB
	progRepo   repository.ProgressRepository
	enrollRepo repository.EnrollmentRepository
	notifier   CompletionNotifier
}

func NewProgressService(db *gorm.DB, progRepo repository.ProgressRepository, enrollRepo repository.EnrollmentRepository, notifier CompletionNotifier) ProgressService {
	return &progressService{
		db:         db,
		progRepo:   progRepo,
		enrollRepo: enrollRepo,
		notifier:   notifier,
	}
}

func (s *progressService) MarkLessonCompleted(ctx context.Context, sess *ViewingSession, lessonID uuid.UUID, req *model.MarkCompletedRequest) (*model.MarkCompletedResponse, error) {
	logger := middleware.GetLogger(ctx)
	if sess == nil {
		return nil, model.NewAppError("SESSION_NOT_FOUND", "視聴セッションがありません。コース画面を開き直してください。", "", model.ErrSessionNotFound)
	}
	userID := sess.UserID()
	courseID := sess.CourseID()

	// 1. ローカル状態を先に確定 (楽観的更新)
	local := sess.markCompletedLocally(lessonID)
	if local.unknownLesson {
		return nil, model.NewAppError("LESSON_NOT_FOUND", "レッスンが見つかりません。", "", model.ErrNotFound)
	}
	if local.alreadyCompleted {
		// 完了済みレッスンの再操作は何も書き込まない (冪等)
		return &model.MarkCompletedResponse{
			CompletionMap:   local.completionMap,
			ProgressPercent: local.percent,
			Completed:       local.completed,
			Synced:          true,
		}, nil
	}

	// 2. レッスン進捗の upsert と受講行の進捗更新。
	// ここから先のエラーはローカル状態に波及させない
	var syncErr error
	now := time.Now()
	progress := &model.LessonProgress{
		ProgressID:      uuid.New(),
		UserID:          userID,
		CourseID:        courseID,
		SyllabusID:      lessonID,
		Completed:       true,
		CompletedAt:     &now,
		ProgressPercent: 100,
		WatchedSeconds:  req.WatchedSeconds,
	}
	if err := s.progRepo.Upsert(ctx, s.db, progress); err != nil {
		syncErr = err
	} else if err := s.enrollRepo.UpdateProgress(ctx, s.db, userID, courseID, local.percent, local.completed); err != nil {
		syncErr = err
	}

	resp := &model.MarkCompletedResponse{
		CompletionMap:   local.completionMap,
		ProgressPercent: local.percent,
		Completed:       local.completed,
		CourseCompleted: local.completedEvent,
		Synced:          syncErr == nil,
	}
	if syncErr != nil {
		logger.Warn("Progress write failed, keeping optimistic local state",
			"error", syncErr,
			"user_id", userID.String(),
			"course_id", courseID.String(),
			"lesson_id", lessonID.String(),
		)
		resp.SyncWarning = "進捗の保存に失敗しました。画面の表示は最新ですが、再読み込み時に再同期されます。"
	}

	// 3. コース完了イベントは100%に到達したこの1回だけ発火する
	if local.completedEvent {
		logger.Info("Course completed",
			"user_id", userID.String(),
			"course_id", courseID.String(),
		)
		s.notifier.CourseCompleted(ctx, userID, courseID, sess.CourseTitle())
	}

	return resp, nil
}
