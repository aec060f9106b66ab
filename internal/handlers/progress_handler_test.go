// internal/handlers/progress_handler_test.go
package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"go_course_keep/internal/handlers"
	"go_course_keep/internal/model"
	"go_course_keep/internal/service"
	"go_course_keep/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProgressHandler_MarkLessonCompleted(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	lessonID := uuid.New()
	pattern := "/api/v1/courses/{course_id}/lessons/{lesson_id}/complete"
	path := fmt.Sprintf("/api/v1/courses/%s/lessons/%s/complete", courseID, lessonID)

	// ハンドラはセッションを取得してサービスへ渡すだけなので中身は見ない
	sess := &service.ViewingSession{}

	okResp := &model.MarkCompletedResponse{
		CompletionMap:   map[uuid.UUID]bool{lessonID: true},
		ProgressPercent: 50,
		Synced:          true,
	}

	tests := []struct {
		name           string
		path           string
		body           interface{}
		setupMock      func(playback *mocks.PlaybackService, progress *mocks.ProgressService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "正常系: 視聴秒数つきの完了操作",
			path: path,
			body: model.MarkCompletedRequest{WatchedSeconds: 321},
			setupMock: func(playback *mocks.PlaybackService, progress *mocks.ProgressService) {
				playback.On("Session", userID, courseID).Return(sess, nil).Once()
				progress.On("MarkLessonCompleted", mock.Anything, sess, lessonID, &model.MarkCompletedRequest{WatchedSeconds: 321}).
					Return(okResp, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "正常系: ボディなしの完了操作",
			path: path,
			body: nil,
			setupMock: func(playback *mocks.PlaybackService, progress *mocks.ProgressService) {
				playback.On("Session", userID, courseID).Return(sess, nil).Once()
				progress.On("MarkLessonCompleted", mock.Anything, sess, lessonID, &model.MarkCompletedRequest{}).
					Return(okResp, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "異常系: 視聴セッションなし (画面未ロード)",
			path: path,
			body: nil,
			setupMock: func(playback *mocks.PlaybackService, progress *mocks.ProgressService) {
				playback.On("Session", userID, courseID).
					Return(nil, model.NewAppError("SESSION_NOT_FOUND", "視聴セッションがありません。", "", model.ErrSessionNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "SESSION_NOT_FOUND",
		},
		{
			name: "異常系: コースに存在しないレッスン",
			path: path,
			body: nil,
			setupMock: func(playback *mocks.PlaybackService, progress *mocks.ProgressService) {
				playback.On("Session", userID, courseID).Return(sess, nil).Once()
				progress.On("MarkLessonCompleted", mock.Anything, sess, lessonID, &model.MarkCompletedRequest{}).
					Return(nil, model.NewAppError("LESSON_NOT_FOUND", "レッスンが見つかりません。", "", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "LESSON_NOT_FOUND",
		},
		{
			name:           "異常系: 視聴秒数が負",
			path:           path,
			body:           model.MarkCompletedRequest{WatchedSeconds: -1},
			setupMock:      func(playback *mocks.PlaybackService, progress *mocks.ProgressService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: ボディがJSONとして不正",
			path:           path,
			body:           `{"watched_seconds": `,
			setupMock:      func(playback *mocks.PlaybackService, progress *mocks.ProgressService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST_BODY",
		},
		{
			name:           "異常系: lesson_id の形式不正",
			path:           fmt.Sprintf("/api/v1/courses/%s/lessons/not-a-uuid/complete", courseID),
			body:           nil,
			setupMock:      func(playback *mocks.PlaybackService, progress *mocks.ProgressService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_URL_PARAM",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockPlayback := mocks.NewPlaybackService(t)
			mockProgress := mocks.NewProgressService(t)
			tc.setupMock(mockPlayback, mockProgress)
			handler := handlers.NewProgressHandler(mockPlayback, mockProgress, testLogger())
			router := newTestRouter(userID, http.MethodPost, pattern, handler.MarkLessonCompleted)

			rr := performRequest(t, router, http.MethodPost, tc.path, tc.body)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedCode != "" {
				assertErrorCode(t, rr, tc.expectedCode)
			} else {
				var resp model.MarkCompletedResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.True(t, resp.Synced)
				assert.Equal(t, 50, resp.ProgressPercent)
				assert.True(t, resp.CompletionMap[lessonID])
			}
		})
	}
}

// 書き込み失敗時もハンドラは200で synced=false の結果をそのまま返す
func TestProgressHandler_MarkLessonCompleted_SyncWarning(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	lessonID := uuid.New()
	pattern := "/api/v1/courses/{course_id}/lessons/{lesson_id}/complete"
	path := fmt.Sprintf("/api/v1/courses/%s/lessons/%s/complete", courseID, lessonID)

	sess := &service.ViewingSession{}
	mockPlayback := mocks.NewPlaybackService(t)
	mockProgress := mocks.NewProgressService(t)
	mockPlayback.On("Session", userID, courseID).Return(sess, nil).Once()
	mockProgress.On("MarkLessonCompleted", mock.Anything, sess, lessonID, &model.MarkCompletedRequest{}).
		Return(&model.MarkCompletedResponse{
			CompletionMap:   map[uuid.UUID]bool{lessonID: true},
			ProgressPercent: 50,
			Synced:          false,
			SyncWarning:     "進捗の保存に失敗しました。画面の表示は最新ですが、再読み込み時に再同期されます。",
		}, nil).Once()

	handler := handlers.NewProgressHandler(mockPlayback, mockProgress, testLogger())
	router := newTestRouter(userID, http.MethodPost, pattern, handler.MarkLessonCompleted)

	rr := performRequest(t, router, http.MethodPost, path, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp model.MarkCompletedResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Synced)
	assert.NotEmpty(t, resp.SyncWarning)
	assert.True(t, resp.CompletionMap[lessonID])
}
