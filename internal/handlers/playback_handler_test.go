// internal/handlers/playback_handler_test.go
package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"go_course_keep/internal/handlers"
	"go_course_keep/internal/model"
	"go_course_keep/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlaybackHandler_SelectLesson(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	lessonID := uuid.New()
	pattern := "/api/v1/courses/{course_id}/lessons/{lesson_id}/select"
	path := fmt.Sprintf("/api/v1/courses/%s/lessons/%s/select", courseID, lessonID)

	readyView := &model.PlaybackView{
		State:          model.PlaybackReady,
		ActiveLessonID: &lessonID,
		ActiveVideoURL: "https://cdn.example.com/videos/1.m3u8",
	}

	tests := []struct {
		name           string
		userID         uuid.UUID
		path           string
		setupMock      func(svc *mocks.PlaybackService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "正常系: レッスン選択成功",
			userID: userID,
			path:   path,
			setupMock: func(svc *mocks.PlaybackService) {
				svc.On("SelectLesson", mock.Anything, userID, courseID, lessonID).
					Return(readyView, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "異常系: 未登録ユーザーのロック済みレッスン選択は403",
			userID: userID,
			path:   path,
			setupMock: func(svc *mocks.PlaybackService) {
				svc.On("SelectLesson", mock.Anything, userID, courseID, lessonID).
					Return(nil, model.NewAppError("LESSON_LOCKED", "受講登録すると全てのレッスンを視聴できます。", "", model.ErrLessonLocked)).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "LESSON_LOCKED",
		},
		{
			name:   "異常系: 警告未確認のブロック中は403",
			userID: userID,
			path:   path,
			setupMock: func(svc *mocks.PlaybackService) {
				svc.On("SelectLesson", mock.Anything, userID, courseID, lessonID).
					Return(nil, model.NewAppError("SECURITY_BLOCKED", "セキュリティ警告を確認するまで再生できません。", "", model.ErrSecurityBlocked)).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "SECURITY_BLOCKED",
		},
		{
			name:   "異常系: 視聴セッションなし",
			userID: userID,
			path:   path,
			setupMock: func(svc *mocks.PlaybackService) {
				svc.On("SelectLesson", mock.Anything, userID, courseID, lessonID).
					Return(nil, model.NewAppError("SESSION_NOT_FOUND", "視聴セッションがありません。", "", model.ErrSessionNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "SESSION_NOT_FOUND",
		},
		{
			name:           "異常系: lesson_id の形式不正",
			userID:         userID,
			path:           fmt.Sprintf("/api/v1/courses/%s/lessons/not-a-uuid/select", courseID),
			setupMock:      func(svc *mocks.PlaybackService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_URL_PARAM",
		},
		{
			name:           "異常系: 認証情報なし",
			userID:         uuid.Nil,
			path:           path,
			setupMock:      func(svc *mocks.PlaybackService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusForbidden,
			expectedCode:   "UNAUTHORIZED",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := mocks.NewPlaybackService(t)
			tc.setupMock(mockSvc)
			handler := handlers.NewPlaybackHandler(mockSvc, testLogger())
			router := newTestRouter(tc.userID, http.MethodPost, pattern, handler.SelectLesson)

			rr := performRequest(t, router, http.MethodPost, tc.path, nil)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedCode != "" {
				assertErrorCode(t, rr, tc.expectedCode)
			} else {
				var view model.PlaybackView
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
				assert.Equal(t, readyView.State, view.State)
				assert.Equal(t, readyView.ActiveVideoURL, view.ActiveVideoURL)
			}
		})
	}
}

func TestPlaybackHandler_PostSecurityEvent(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	pattern := "/api/v1/courses/{course_id}/security-events"
	path := fmt.Sprintf("/api/v1/courses/%s/security-events", courseID)

	blockedView := &model.PlaybackView{
		State:          model.PlaybackBlocked,
		Warning:        ptrIncidentEvent(model.EventScreenshotAttempt),
		ViolationCount: 1,
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(svc *mocks.PlaybackService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "正常系: スクリーンショット検出でブロック状態が返る",
			body: model.SecuritySignalRequest{Event: "screenshot_attempt"},
			setupMock: func(svc *mocks.PlaybackService) {
				svc.On("HandleSecuritySignal", mock.Anything, userID, courseID, model.EventScreenshotAttempt).
					Return(blockedView, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "正常系: バックグラウンド遷移の検出",
			body: model.SecuritySignalRequest{Event: "app_background_focus_lost"},
			setupMock: func(svc *mocks.PlaybackService) {
				svc.On("HandleSecuritySignal", mock.Anything, userID, courseID, model.EventFocusLost).
					Return(blockedView, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: 未知のイベント種別はバリデーションで弾く",
			body:           model.SecuritySignalRequest{Event: "rooted_device"},
			setupMock:      func(svc *mocks.PlaybackService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: イベント種別が空",
			body:           model.SecuritySignalRequest{},
			setupMock:      func(svc *mocks.PlaybackService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "異常系: ボディがJSONとして不正",
			body:           `{"event": `,
			setupMock:      func(svc *mocks.PlaybackService) { /* Serviceは呼ばれない */ },
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST_BODY",
		},
		{
			name: "異常系: 視聴セッションなし",
			body: model.SecuritySignalRequest{Event: "screenshot_attempt"},
			setupMock: func(svc *mocks.PlaybackService) {
				svc.On("HandleSecuritySignal", mock.Anything, userID, courseID, model.EventScreenshotAttempt).
					Return(nil, model.NewAppError("SESSION_NOT_FOUND", "視聴セッションがありません。", "", model.ErrSessionNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "SESSION_NOT_FOUND",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockSvc := mocks.NewPlaybackService(t)
			tc.setupMock(mockSvc)
			handler := handlers.NewPlaybackHandler(mockSvc, testLogger())
			router := newTestRouter(userID, http.MethodPost, pattern, handler.PostSecurityEvent)

			rr := performRequest(t, router, http.MethodPost, path, tc.body)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedCode != "" {
				assertErrorCode(t, rr, tc.expectedCode)
			} else {
				var view model.PlaybackView
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
				assert.Equal(t, model.PlaybackBlocked, view.State)
				require.NotNil(t, view.Warning)
				assert.Equal(t, 1, view.ViolationCount)
			}
		})
	}
}

func TestPlaybackHandler_AcknowledgeWarning(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	pattern := "/api/v1/courses/{course_id}/acknowledge-warning"
	path := fmt.Sprintf("/api/v1/courses/%s/acknowledge-warning", courseID)

	t.Run("正常系: 警告確認で再生可能状態に復帰する", func(t *testing.T) {
		mockSvc := mocks.NewPlaybackService(t)
		mockSvc.On("AcknowledgeWarning", mock.Anything, userID, courseID).
			Return(&model.PlaybackView{State: model.PlaybackReady, ViolationCount: 1}, nil).Once()
		handler := handlers.NewPlaybackHandler(mockSvc, testLogger())
		router := newTestRouter(userID, http.MethodPost, pattern, handler.AcknowledgeWarning)

		rr := performRequest(t, router, http.MethodPost, path, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var view model.PlaybackView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		assert.Equal(t, model.PlaybackReady, view.State)
		assert.Nil(t, view.Warning)
		assert.Equal(t, 1, view.ViolationCount) // 違反回数は確認操作では減らない
	})

	t.Run("異常系: 視聴セッションなし", func(t *testing.T) {
		mockSvc := mocks.NewPlaybackService(t)
		mockSvc.On("AcknowledgeWarning", mock.Anything, userID, courseID).
			Return(nil, model.NewAppError("SESSION_NOT_FOUND", "視聴セッションがありません。", "", model.ErrSessionNotFound)).Once()
		handler := handlers.NewPlaybackHandler(mockSvc, testLogger())
		router := newTestRouter(userID, http.MethodPost, pattern, handler.AcknowledgeWarning)

		rr := performRequest(t, router, http.MethodPost, path, nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assertErrorCode(t, rr, "SESSION_NOT_FOUND")
	})
}

func TestPlaybackHandler_CloseSession(t *testing.T) {
	userID := uuid.New()
	courseID := uuid.New()
	pattern := "/api/v1/courses/{course_id}/session"
	path := fmt.Sprintf("/api/v1/courses/%s/session", courseID)

	t.Run("正常系: セッション破棄は204を返す", func(t *testing.T) {
		mockSvc := mocks.NewPlaybackService(t)
		mockSvc.On("CloseSession", mock.Anything, userID, courseID).Return().Once()
		handler := handlers.NewPlaybackHandler(mockSvc, testLogger())
		router := newTestRouter(userID, http.MethodDelete, pattern, handler.CloseSession)

		rr := performRequest(t, router, http.MethodDelete, path, nil)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("正常系: セッションが存在しなくても204 (冪等)", func(t *testing.T) {
		mockSvc := mocks.NewPlaybackService(t)
		// Serviceの実装はセッションなしでも何もしないだけなので、ハンドラは常に204
		mockSvc.On("CloseSession", mock.Anything, userID, courseID).Return().Once()
		handler := handlers.NewPlaybackHandler(mockSvc, testLogger())
		router := newTestRouter(userID, http.MethodDelete, pattern, handler.CloseSession)

		rr := performRequest(t, router, http.MethodDelete, path, nil)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func ptrIncidentEvent(e model.IncidentEvent) *model.IncidentEvent {
	return &e
}
