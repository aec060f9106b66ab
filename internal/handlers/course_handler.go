// internal/handlers/course_handler.go
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

type CourseHandler struct {
	playbackSvc service.PlaybackService
	courseSvc   service.CourseService
	logger      *slog.Logger
}

func NewCourseHandler(playbackSvc service.PlaybackService, courseSvc service.CourseService, logger *slog.Logger) *CourseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseHandler{
		playbackSvc: playbackSvc,
		courseSvc:   courseSvc,
		logger:      logger,
	}
}

// GetCourseDetail はコース詳細画面の初期ロードのハンドラ。
// 視聴セッションを開き、コース・シラバス・受講状態・進捗をまとめて返す
func (h *CourseHandler) GetCourseDetail(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCourseDetail"))

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

	detail, err := h.playbackSvc.OpenSession(r.Context(), userID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Course not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error opening viewing session in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Course detail loaded successfully")
	webutil.RespondWithJSON(w, http.StatusOK, detail)
}

// ListMyCourses は受講中コースの一覧を取得するためのハンドラ
func (h *CourseHandler) ListMyCourses(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListMyCourses"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	courses, err := h.courseSvc.ListMyCourses(r.Context(), userID)
	if err != nil {
		logger.Error("Error listing my courses in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if courses == nil {
		courses = []*model.MyCourseResponse{}
	}
	logger.Info("My courses listed successfully", slog.Int("count", len(courses)))
	webutil.RespondWithJSON(w, http.StatusOK, courses)
}
