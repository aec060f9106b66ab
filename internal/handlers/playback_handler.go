// internal/handlers/playback_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_course_keep/internal/middleware"
	"go_course_keep/internal/model"
	"go_course_keep/internal/service"
	"go_course_keep/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type PlaybackHandler struct {
	playbackSvc service.PlaybackService
	logger      *slog.Logger
}

func NewPlaybackHandler(playbackSvc service.PlaybackService, logger *slog.Logger) *PlaybackHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackHandler{
		playbackSvc: playbackSvc,
		logger:      logger,
	}
}

// urlIDs は course_id (と必要なら lesson_id) のURLパラメータを取り出す共通処理
func (h *PlaybackHandler) urlCourseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	courseIDStr := chi.URLParam(r, "course_id")
	courseID, err := uuid.Parse(courseIDStr)
	if err != nil {
		logger.Warn("Invalid course ID format in URL", slog.String("course_id_str", courseIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "course_idの形式が正しくありません。", "course_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return courseID, true
}

// SelectLesson はレッスン選択 (再生開始) のハンドラ
func (h *PlaybackHandler) SelectLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SelectLesson"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	courseID, ok := h.urlCourseID(w, r, logger)
	if !ok {
		return
	}

	lessonIDStr := chi.URLParam(r, "lesson_id")
	lessonID, err := uuid.Parse(lessonIDStr)
	if err != nil {
		logger.Warn("Invalid lesson ID format in URL", slog.String("lesson_id_str", lessonIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "lesson_idの形式が正しくありません。", "lesson_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("course_id", courseID.String()), slog.String("lesson_id", lessonID.String()))

	view, err := h.playbackSvc.SelectLesson(r.Context(), userID, courseID, lessonID)
	if err != nil {
		if errors.Is(err, model.ErrLessonLocked) || errors.Is(err, model.ErrSecurityBlocked) {
			logger.Info("Lesson selection rejected", slog.Any("error", err))
		} else {
			logger.Error("Error selecting lesson in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lesson selected successfully")
	webutil.RespondWithJSON(w, http.StatusOK, view)
}

// PostSecurityEvent はクライアントが検出したセキュリティシグナルの通知ハンドラ
func (h *PlaybackHandler) PostSecurityEvent(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostSecurityEvent"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	courseID, ok := h.urlCourseID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("course_id", courseID.String()))

	var req model.SecuritySignalRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
			firstErr := validationErrors[0]
			translatedMsg := firstErr.Translate(webutil.Trans)
			appErr := model.NewAppError("VALIDATION_ERROR", translatedMsg, firstErr.Field(), model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	view, err := h.playbackSvc.HandleSecuritySignal(r.Context(), userID, courseID, model.IncidentEvent(req.Event))
	if err != nil {
		logger.Error("Error handling security signal in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Security signal handled", slog.String("event", req.Event), slog.Int("violation_count", view.ViolationCount))
	webutil.RespondWithJSON(w, http.StatusOK, view)
}

// AcknowledgeWarning はセキュリティ警告の確認操作のハンドラ
func (h *PlaybackHandler) AcknowledgeWarning(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AcknowledgeWarning"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	courseID, ok := h.urlCourseID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("course_id", courseID.String()))

	view, err := h.playbackSvc.AcknowledgeWarning(r.Context(), userID, courseID)
	if err != nil {
		logger.Error("Error acknowledging warning in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Security warning acknowledged", slog.String("state", string(view.State)))
	webutil.RespondWithJSON(w, http.StatusOK, view)
}

// CloseSession は視聴セッションの破棄 (画面離脱) のハンドラ
func (h *PlaybackHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CloseSession"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	courseID, ok := h.urlCourseID(w, r, logger)
	if !ok {
		return
	}

	// セッションが存在しなくても冪等に成功させる
	h.playbackSvc.CloseSession(r.Context(), userID, courseID)

	logger.Info("Viewing session closed (or was already closed)", slog.String("course_id", courseID.String()))
	w.WriteHeader(http.StatusNoContent)
}
