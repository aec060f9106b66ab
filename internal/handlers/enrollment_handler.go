// internal/handlers/enrollment_handler.go
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
	"github.com/google/uuid"
)

type EnrollmentHandler struct {
	entitlementSvc service.EntitlementService
	playbackSvc    service.PlaybackService
	logger         *slog.Logger
}

func NewEnrollmentHandler(entitlementSvc service.EntitlementService, playbackSvc service.PlaybackService, logger *slog.Logger) *EnrollmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrollmentHandler{
		entitlementSvc: entitlementSvc,
		playbackSvc:    playbackSvc,
		logger:         logger,
	}
}

// Enroll はコースへの受講登録のハンドラ。
// 登録済みの場合も already_enrolled=true の成功レスポンスを返す
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Enroll"))

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
	logger = logger.With(slog.String("course_id", courseID.String()))

	result, err := h.entitlementSvc.Enroll(r.Context(), userID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Course not found for enrollment", slog.Any("error", err))
		} else {
			logger.Error("Error enrolling in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	// 開いている視聴セッションがあれば受講状態を即時反映する
	h.playbackSvc.MarkEnrolled(userID, courseID)

	logger.Info("Enrollment completed successfully", slog.Bool("already_enrolled", result.AlreadyEnrolled))
	webutil.RespondWithJSON(w, http.StatusOK, result)
}
