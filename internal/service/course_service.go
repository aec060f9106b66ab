//go:generate mockery --name CourseService --output ./mocks --outpkg mocks --case=underscore
// internal/service/course_service.go
package service

import (
	"context"
	"errors"

	"go_course_keep/internal/middleware"
	"go_course_keep/internal/model"
	"go_course_keep/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CourseDetailParts はコース詳細画面の初期ロードに必要な4つの読み取り結果。
// Enrollment と Progresses は未登録・進捗なしの場合に nil / 空になる
type CourseDetailParts struct {
	Course     *model.Course
	Lessons    []*model.Lesson
	Enrollment *model.Enrollment
	Progresses []*model.LessonProgress
}

type CourseService interface {
	// LoadCourseDetail は4つの読み取りを並行で発行し、すべて揃ってから返します。
	// どれか1つでも失敗したら全体を失敗させる (部分データで画面を組み立てない)
	LoadCourseDetail(ctx context.Context, userID, courseID uuid.UUID) (*CourseDetailParts, error)
	ListMyCourses(ctx context.Context, userID uuid.UUID) ([]*model.MyCourseResponse, error)
}

type courseService struct {
	db         *gorm.DB
	courseRepo repository.CourseRepository
	lessonRepo repository.LessonRepository
	enrollRepo repository.EnrollmentRepository
	progRepo   repository.ProgressRepository
}

func NewCourseService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	enrollRepo repository.EnrollmentRepository,
	progRepo repository.ProgressRepository,
) CourseService {
	return &courseService{
		db:         db,
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		enrollRepo: enrollRepo,
		progRepo:   progRepo,
	}
}

func (s *courseService) LoadCourseDetail(ctx context.Context, userID, courseID uuid.UUID) (*CourseDetailParts, error) {
	logger := middleware.GetLogger(ctx)
	parts := &CourseDetailParts{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		course, err := s.courseRepo.FindByID(gctx, s.db, courseID)
		if err != nil {
			return err
		}
		parts.Course = course
		return nil
	})

	g.Go(func() error {
		lessons, err := s.lessonRepo.FindByCourse(gctx, s.db, courseID)
		if err != nil {
			return err
		}
		parts.Lessons = lessons
		return nil
	})

	g.Go(func() error {
		enrollment, err := s.enrollRepo.FindByUserAndCourse(gctx, s.db, userID, courseID)
		if err != nil {
			// 未登録は正常系 (プレビュー視聴ができる状態)
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			return err
		}
		parts.Enrollment = enrollment
		return nil
	})

	g.Go(func() error {
		progresses, err := s.progRepo.FindByUserAndCourse(gctx, s.db, userID, courseID)
		if err != nil {
			return err
		}
		parts.Progresses = progresses
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error loading course detail", "error", err, "course_id", courseID.String())
		return nil, model.NewAppError("COURSE_LOAD_FAILED", "コース情報の取得に失敗しました。", "", err)
	}

	return parts, nil
}

func (s *courseService) ListMyCourses(ctx context.Context, userID uuid.UUID) ([]*model.MyCourseResponse, error) {
	logger := middleware.GetLogger(ctx)

	enrollments, err := s.enrollRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Error listing enrollments", "error", err, "user_id", userID.String())
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "マイコースの取得に失敗しました。", "", err)
	}

	courses := make([]*model.MyCourseResponse, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			// コース側が削除済みの受講行はスキップ
			logger.Warn("Enrollment references missing course, skipping",
				"user_id", userID.String(),
				"course_id", e.CourseID.String(),
			)
			continue
		}
		courses = append(courses, &model.MyCourseResponse{
			CourseID:        e.CourseID,
			Title:           e.Course.Title,
			Instructor:      e.Course.Instructor,
			Image:           e.Course.Image,
			ProgressPercent: e.ProgressPercent,
			Completed:       e.Completed,
			EnrolledAt:      e.CreatedAt,
		})
	}
	return courses, nil
}
