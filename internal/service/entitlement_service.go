//go:generate mockery --name EntitlementService --output ./mocks --outpkg mocks --case=underscore
// internal/service/entitlement_service.go
package service

import (
	"context"
	"errors"

	"go_course_keep/internal/middleware"
	"go_course_keep/internal/model"
	"go_course_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntitlementService interface {
	// CanPlay はレッスンが視聴可能かを判定します。純粋関数で副作用なし
	CanPlay(lesson *model.Lesson, enrollment *model.Enrollment) bool
	// Enroll はユーザーをコースに受講登録します。登録済みでもエラーにしない
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*model.EnrollResponse, error)
}

type entitlementService struct {
	db         *gorm.DB
	courseRepo repository.CourseRepository
	enrollRepo repository.EnrollmentRepository
}

func NewEntitlementService(db *gorm.DB, courseRepo repository.CourseRepository, enrollRepo repository.EnrollmentRepository) EntitlementService {
	return &entitlementService{
		db:         db,
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
	}
}

// CanPlay は現在の受講状態とレッスンのプレビューフラグだけから視聴可否を決めます。
// 判定できない入力 (lesson が nil 等) はすべて視聴不可に倒す (fail closed)。
func (s *entitlementService) CanPlay(lesson *model.Lesson, enrollment *model.Enrollment) bool {
	if lesson == nil {
		return false
	}
	if lesson.Preview {
		return true
	}
	return enrollment != nil && enrollment.Enrolled
}

func (s *entitlementService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*model.EnrollResponse, error) {
	logger := middleware.GetLogger(ctx)

	// 1. コースの存在確認
	if _, err := s.courseRepo.FindByID(ctx, s.db, courseID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding course for enrollment", "error", err, "course_id", courseID.String())
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "受講登録に失敗しました。", "", err)
	}

	// 2. 受講登録行を挿入
	enrollment := &model.Enrollment{
		EnrollmentID:    uuid.New(),
		UserID:          userID,
		CourseID:        courseID,
		Enrolled:        true,
		ProgressPercent: 0,
	}
	if err := s.enrollRepo.Create(ctx, s.db, enrollment); err != nil {
		// (user_id, course_id) の重複は「登録済み」なので冪等に成功として返す
		if errors.Is(err, model.ErrConflict) {
			logger.Info("User already enrolled in course",
				"user_id", userID.String(),
				"course_id", courseID.String(),
			)
			return &model.EnrollResponse{Enrolled: true, AlreadyEnrolled: true}, nil
		}
		logger.Error("Error creating enrollment", "error", err, "user_id", userID.String(), "course_id", courseID.String())
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "受講登録に失敗しました。", "", err)
	}

	logger.Info("User enrolled in course",
		"user_id", userID.String(),
		"course_id", courseID.String(),
	)
	return &model.EnrollResponse{Enrolled: true, AlreadyEnrolled: false}, nil
}
