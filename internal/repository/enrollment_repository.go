//go:generate mockery --name EnrollmentRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_course_keep/internal/middleware"
	"go_course_keep/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsUniqueViolation は受講登録の重複をストアのエラーから判定する述語。
// どのエラーコードが「登録済み」を意味するかはストア実装依存のため、
// 差し替え可能な変数にしてある (テストや別ストアで上書きする)。
var IsUniqueViolation = func(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type EnrollmentRepository interface {
	// Create は受講登録行を挿入します。(user_id, course_id) の重複は model.ErrConflict を返します
	Create(ctx context.Context, db *gorm.DB, enrollment *model.Enrollment) error
	FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Enrollment, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.Enrollment, error)
	// UpdateProgress は progress_percent と completed のみを更新します
	UpdateProgress(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID, percent int, completed bool) error
}

type gormEnrollmentRepository struct{}

func NewGormEnrollmentRepository() EnrollmentRepository {
	return &gormEnrollmentRepository{}
}

func (r *gormEnrollmentRepository) Create(ctx context.Context, db *gorm.DB, enrollment *model.Enrollment) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Create(enrollment)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			logger.Warn("Duplicate key error on create enrollment",
				"error", result.Error,
				"user_id", enrollment.UserID.String(),
				"course_id", enrollment.CourseID.String(),
			)
			return model.ErrConflict
		}
		logger.Error("Error creating enrollment in DB",
			"error", result.Error,
			"user_id", enrollment.UserID.String(),
			"course_id", enrollment.CourseID.String(),
		)
		return fmt.Errorf("gormEnrollmentRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormEnrollmentRepository) FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)
	var enrollment model.Enrollment
	result := db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding enrollment in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByUserAndCourse: %w", result.Error)
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ? AND enrolled = ?", userID, true).
		Order("created_at DESC").
		Find(&enrollments)
	if result.Error != nil {
		logger.Error("Error finding enrollments by user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByUser: %w", result.Error)
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) UpdateProgress(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID, percent int, completed bool) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(map[string]interface{}{
			"progress_percent": percent,
			"completed":        completed,
		})
	if result.Error != nil {
		logger.Error("Error updating enrollment progress in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"course_id", courseID.String(),
		)
		return fmt.Errorf("gormEnrollmentRepository.UpdateProgress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
