//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"go_course_keep/internal/middleware"
	"go_course_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	// FindByUserAndCourse はコース内の全レッスン進捗を返します
	FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) ([]*model.LessonProgress, error)
	// Upsert は (user_id, syllabus_id) をキーに進捗行を作成または更新します
	Upsert(ctx context.Context, db *gorm.DB, progress *model.LessonProgress) error
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) ([]*model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)
	var progresses []*model.LessonProgress
	result := db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&progresses)
	if result.Error != nil {
		logger.Error("Error finding lesson progresses in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindByUserAndCourse: %w", result.Error)
	}
	return progresses, nil
}

func (r *gormProgressRepository) Upsert(ctx context.Context, db *gorm.DB, progress *model.LessonProgress) error {
	logger := middleware.GetLogger(ctx)
	// (user_id, syllabus_id) の複合ユニークキーで冪等にする。
	// completed は true への一方向遷移なので、更新で false に戻ることはない。
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "syllabus_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"completed", "completed_at", "progress_percent", "watched_seconds", "updated_at",
		}),
	}).Create(progress)
	if result.Error != nil {
		logger.Error("Error upserting lesson progress in DB",
			"error", result.Error,
			"user_id", progress.UserID.String(),
			"syllabus_id", progress.SyllabusID.String(),
		)
		return fmt.Errorf("gormProgressRepository.Upsert: %w", result.Error)
	}
	return nil
}
