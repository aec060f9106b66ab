//go:generate mockery --name IncidentRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"go_course_keep/internal/middleware"
	"go_course_keep/internal/model"

	"gorm.io/gorm"
)

type IncidentRepository interface {
	// Create はインシデント行を追記します。更新・削除のAPIは持たない
	Create(ctx context.Context, db *gorm.DB, incident *model.SecurityIncident) error
}

type gormIncidentRepository struct{}

func NewGormIncidentRepository() IncidentRepository {
	return &gormIncidentRepository{}
}

func (r *gormIncidentRepository) Create(ctx context.Context, db *gorm.DB, incident *model.SecurityIncident) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Create(incident)
	if result.Error != nil {
		logger.Error("Error creating security incident in DB",
			"error", result.Error,
			"user_id", incident.UserID.String(),
			"course_id", incident.CourseID.String(),
			"event", string(incident.Event),
		)
		return fmt.Errorf("gormIncidentRepository.Create: %w", result.Error)
	}
	return nil
}
