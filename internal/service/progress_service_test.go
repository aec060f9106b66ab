// internal/service/progress_service_test.go
package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go_course_keep/internal/model"
	"go_course_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeNotifier はコース完了イベントの発火回数を記録する CompletionNotifier 実装
type fakeNotifier struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeNotifier) CourseCompleted(ctx context.Context, userID, courseID uuid.UUID, courseTitle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// newTestViewingSession は進捗テスト用のセッションを直接組み立てる
func newTestViewingSession(userID, courseID uuid.UUID, lessons []*model.Lesson, completed map[uuid.UUID]bool) *ViewingSession {
	sess := &ViewingSession{
		userID:     userID,
		courseID:   courseID,
		course:     &model.Course{CourseID: courseID, Title: "test_course"},
		lessons:    lessons,
		lessonIx:   make(map[uuid.UUID]*model.Lesson, len(lessons)),
		state:      model.PlaybackReady,
		completion: make(map[uuid.UUID]bool),
	}
	for _, l := range lessons {
		sess.lessonIx[l.LessonID] = l
	}
	for id, done := range completed {
		if done {
			sess.completion[id] = true
		}
	}
	sess.completedNotified = sess.derivePercentLocked() >= 100
	return sess
}

func Test_progressService_MarkLessonCompleted(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB()

	userID := uuid.New()
	courseID := uuid.New()
	lessons := []*model.Lesson{
		{LessonID: uuid.New(), CourseID: courseID, OrderIndex: 0},
		{LessonID: uuid.New(), CourseID: courseID, OrderIndex: 1},
	}

	t.Run("正常系: 完了で進捗率が導出されストアへ書き込まれる", func(t *testing.T) {
		mockProgRepo := new(mocks.ProgressRepository)
		mockEnrollRepo := new(mocks.EnrollmentRepository)
		notifier := &fakeNotifier{}
		svc := NewProgressService(db, mockProgRepo, mockEnrollRepo, notifier)
		sess := newTestViewingSession(userID, courseID, lessons, nil)

		mockProgRepo.On("Upsert", ctx, db, mock.AnythingOfType("*model.LessonProgress")).
			Run(func(args mock.Arguments) {
				p := args.Get(2).(*model.LessonProgress)
				assert.Equal(t, userID, p.UserID)
				assert.Equal(t, courseID, p.CourseID)
				assert.Equal(t, lessons[0].LessonID, p.SyllabusID)
				assert.True(t, p.Completed)
				require.NotNil(t, p.CompletedAt)
				assert.WithinDuration(t, time.Now(), *p.CompletedAt, 5*time.Second)
				assert.Equal(t, 100, p.ProgressPercent)
				assert.Equal(t, 321, p.WatchedSeconds)
			}).Return(nil).Once()
		mockEnrollRepo.On("UpdateProgress", ctx, db, userID, courseID, 50, false).Return(nil).Once()

		result, err := svc.MarkLessonCompleted(ctx, sess, lessons[0].LessonID, &model.MarkCompletedRequest{WatchedSeconds: 321})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.True(t, result.CompletionMap[lessons[0].LessonID])
		assert.Equal(t, 50, result.ProgressPercent)
		assert.False(t, result.Completed)
		assert.False(t, result.CourseCompleted)
		assert.True(t, result.Synced)
		assert.Empty(t, result.SyncWarning)
		assert.Equal(t, 0, notifier.callCount())

		mockProgRepo.AssertExpectations(t)
		mockEnrollRepo.AssertExpectations(t)
	})

	t.Run("正常系: 100%到達でコース完了イベントが一度だけ発火する", func(t *testing.T) {
		mockProgRepo := new(mocks.ProgressRepository)
		mockEnrollRepo := new(mocks.EnrollmentRepository)
		notifier := &fakeNotifier{}
		svc := NewProgressService(db, mockProgRepo, mockEnrollRepo, notifier)
		sess := newTestViewingSession(userID, courseID, lessons, map[uuid.UUID]bool{lessons[0].LessonID: true})

		mockProgRepo.On("Upsert", ctx, db, mock.AnythingOfType("*model.LessonProgress")).Return(nil).Once()
		mockEnrollRepo.On("UpdateProgress", ctx, db, userID, courseID, 100, true).Return(nil).Once()

		result, err := svc.MarkLessonCompleted(ctx, sess, lessons[1].LessonID, &model.MarkCompletedRequest{})

		require.NoError(t, err)
		assert.Equal(t, 100, result.ProgressPercent)
		assert.True(t, result.Completed)
		assert.True(t, result.CourseCompleted)
		assert.Equal(t, 1, notifier.callCount())

		// 完了済みレッスンへの再操作は何も書き込まず、イベントも再発火しない
		result2, err := svc.MarkLessonCompleted(ctx, sess, lessons[1].LessonID, &model.MarkCompletedRequest{})
		require.NoError(t, err)
		assert.True(t, result2.Synced)
		assert.False(t, result2.CourseCompleted)
		assert.Equal(t, 100, result2.ProgressPercent)
		assert.Equal(t, 1, notifier.callCount())

		mockProgRepo.AssertExpectations(t)
		mockEnrollRepo.AssertExpectations(t)
	})

	t.Run("正常系: 進捗の書き込み失敗でもローカル状態はロールバックしない", func(t *testing.T) {
		mockProgRepo := new(mocks.ProgressRepository)
		mockEnrollRepo := new(mocks.EnrollmentRepository)
		notifier := &fakeNotifier{}
		svc := NewProgressService(db, mockProgRepo, mockEnrollRepo, notifier)
		sess := newTestViewingSession(userID, courseID, lessons, nil)

		mockProgRepo.On("Upsert", ctx, db, mock.AnythingOfType("*model.LessonProgress")).
			Return(errors.New("db error on upsert")).Once()
		// Upsert が失敗したら受講行の更新は行わない

		result, err := svc.MarkLessonCompleted(ctx, sess, lessons[0].LessonID, &model.MarkCompletedRequest{})

		require.NoError(t, err)
		assert.True(t, result.CompletionMap[lessons[0].LessonID]) // 楽観的更新は維持
		assert.Equal(t, 50, result.ProgressPercent)
		assert.False(t, result.Synced)
		assert.NotEmpty(t, result.SyncWarning)

		mockProgRepo.AssertExpectations(t)
		mockEnrollRepo.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("正常系: 受講行の更新失敗も synced=false で通知する", func(t *testing.T) {
		mockProgRepo := new(mocks.ProgressRepository)
		mockEnrollRepo := new(mocks.EnrollmentRepository)
		notifier := &fakeNotifier{}
		svc := NewProgressService(db, mockProgRepo, mockEnrollRepo, notifier)
		sess := newTestViewingSession(userID, courseID, lessons, nil)

		mockProgRepo.On("Upsert", ctx, db, mock.AnythingOfType("*model.LessonProgress")).Return(nil).Once()
		mockEnrollRepo.On("UpdateProgress", ctx, db, userID, courseID, 50, false).
			Return(errors.New("db error on update enrollment")).Once()

		result, err := svc.MarkLessonCompleted(ctx, sess, lessons[0].LessonID, &model.MarkCompletedRequest{})

		require.NoError(t, err)
		assert.False(t, result.Synced)
		assert.NotEmpty(t, result.SyncWarning)
		assert.Equal(t, 50, result.ProgressPercent)

		mockProgRepo.AssertExpectations(t)
		mockEnrollRepo.AssertExpectations(t)
	})

	t.Run("正常系: 書き込みが失敗しても100%到達イベントは発火する", func(t *testing.T) {
		mockProgRepo := new(mocks.ProgressRepository)
		mockEnrollRepo := new(mocks.EnrollmentRepository)
		notifier := &fakeNotifier{}
		svc := NewProgressService(db, mockProgRepo, mockEnrollRepo, notifier)
		sess := newTestViewingSession(userID, courseID, lessons, map[uuid.UUID]bool{lessons[0].LessonID: true})

		mockProgRepo.On("Upsert", ctx, db, mock.AnythingOfType("*model.LessonProgress")).
			Return(errors.New("db error on upsert")).Once()

		result, err := svc.MarkLessonCompleted(ctx, sess, lessons[1].LessonID, &model.MarkCompletedRequest{})

		require.NoError(t, err)
		assert.False(t, result.Synced)
		assert.True(t, result.CourseCompleted)
		assert.Equal(t, 1, notifier.callCount())
	})

	t.Run("異常系: コースに存在しないレッスン", func(t *testing.T) {
		mockProgRepo := new(mocks.ProgressRepository)
		mockEnrollRepo := new(mocks.EnrollmentRepository)
		svc := NewProgressService(db, mockProgRepo, mockEnrollRepo, &fakeNotifier{})
		sess := newTestViewingSession(userID, courseID, lessons, nil)

		result, err := svc.MarkLessonCompleted(ctx, sess, uuid.New(), &model.MarkCompletedRequest{})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Nil(t, result)
		mockProgRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: セッションが nil", func(t *testing.T) {
		svc := NewProgressService(db, new(mocks.ProgressRepository), new(mocks.EnrollmentRepository), &fakeNotifier{})

		result, err := svc.MarkLessonCompleted(ctx, nil, lessons[0].LessonID, &model.MarkCompletedRequest{})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrSessionNotFound)
		assert.Nil(t, result)
	})
}
