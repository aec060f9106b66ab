//go:generate mockery --name LessonRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_course_keep/internal/middleware"
	"go_course_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonRepository interface {
	// FindByCourse はコースのシラバスを order_index 昇順で返します
	FindByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]*model.Lesson, error)
	FindByID(ctx context.Context, db *gorm.DB, courseID, lessonID uuid.UUID) (*model.Lesson, error)
}

type gormLessonRepository struct{}

func NewGormLessonRepository() LessonRepository {
	return &gormLessonRepository{}
}

func (r *gormLessonRepository) FindByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]*model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	var lessons []*model.Lesson
	result := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&lessons)
	if result.Error != nil {
		logger.Error("Error finding lessons by course in DB",
			"error", result.Error,
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormLessonRepository.FindByCourse: %w", result.Error)
	}
	return lessons, nil
}

func (r *gormLessonRepository) FindByID(ctx context.Context, db *gorm.DB, courseID, lessonID uuid.UUID) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	var lesson model.Lesson
	result := db.WithContext(ctx).Where("course_id = ? AND lesson_id = ?", courseID, lessonID).First(&lesson)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding lesson by ID in DB",
			"error", result.Error,
			"course_id", courseID.String(),
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormLessonRepository.FindByID: %w", result.Error)
	}
	return &lesson, nil
}
