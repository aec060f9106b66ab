// internal/handlers/progress_handler.go
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

type ProgressHandler struct {
	playbackSvc service.PlaybackService
	progressSvc service.ProgressService
	logger      *slog.Logger
}

func NewProgressHandler(playbackSvc service.PlaybackService, progressSvc service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		playbackSvc: playbackSvc,
		progressSvc: progressSvc,
		logger:      logger,
	}
}

// MarkLessonCompleted はレッスン完了操作のハンドラ
func (h *ProgressHandler) MarkLessonCompleted(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "MarkLessonCompleted"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	courseIDStr := chi.URLParam(r, "course_id")
	courseID, err := uuid.Parse(courseIDStr)
	if err != nil {
		logger.Warn("Invalid course ID format in URL", slog.String("course_id_str", courseIDStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", "course_idの形式が正しくありません。", "course_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
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

	// ボディは省略可能 (視聴秒数なしの完了操作)
	req := model.MarkCompletedRequest{}
	if r.Body != nil && r.ContentLength > 0 {
		if err := webutil.DecodeJSONBody(r, &req); err != nil {
			logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
			appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
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

	sess, err := h.playbackSvc.Session(userID, courseID)
	if err != nil {
		logger.Warn("Viewing session not found for progress update", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.progressSvc.MarkLessonCompleted(r.Context(), sess, lessonID, &req)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Lesson not found in course", slog.Any("error", err))
		} else {
			logger.Error("Error marking lesson completed in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Lesson marked completed",
		slog.Int("progress_percent", result.ProgressPercent),
		slog.Bool("course_completed", result.CourseCompleted),
		slog.Bool("synced", result.Synced),
	)
	webutil.RespondWithJSON(w, http.StatusOK, result)
}
