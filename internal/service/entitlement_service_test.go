// internal/service/entitlement_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"go_course_keep/internal/model"
	"go_course_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- テストヘルパー関数 ---
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

// --- Test CanPlay ---
func Test_entitlementService_CanPlay(t *testing.T) {
	db := setupTestDB()
	svc := NewEntitlementService(db, new(mocks.CourseRepository), new(mocks.EnrollmentRepository))

	previewLesson := &model.Lesson{LessonID: uuid.New(), Preview: true}
	paidLesson := &model.Lesson{LessonID: uuid.New(), Preview: false}

	tests := []struct {
		name       string
		lesson     *model.Lesson
		enrollment *model.Enrollment
		want       bool
	}{
		{
			name:       "正常系: プレビューレッスンは未登録でも視聴可能",
			lesson:     previewLesson,
			enrollment: nil,
			want:       true,
		},
		{
			name:       "正常系: 受講登録済みなら非プレビューも視聴可能",
			lesson:     paidLesson,
			enrollment: &model.Enrollment{Enrolled: true},
			want:       true,
		},
		{
			name:       "正常系: 未登録は非プレビューを視聴不可",
			lesson:     paidLesson,
			enrollment: nil,
			want:       false,
		},
		{
			name:       "正常系: enrolled=false の受講行では視聴不可",
			lesson:     paidLesson,
			enrollment: &model.Enrollment{Enrolled: false},
			want:       false,
		},
		{
			name:       "異常系: レッスンが nil なら視聴不可 (fail closed)",
			lesson:     nil,
			enrollment: &model.Enrollment{Enrolled: true},
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.CanPlay(tt.lesson, tt.enrollment))
		})
	}
}

// --- Test Enroll ---
func Test_entitlementService_Enroll(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB()
	mockCourseRepo := new(mocks.CourseRepository)
	mockEnrollRepo := new(mocks.EnrollmentRepository)
	svc := NewEntitlementService(db, mockCourseRepo, mockEnrollRepo)

	userID := uuid.New()
	courseID := uuid.New()
	course := &model.Course{CourseID: courseID, Title: "test_course"}

	tests := []struct {
		name                string
		setupMock           func(courseRepo *mocks.CourseRepository, enrollRepo *mocks.EnrollmentRepository)
		wantErr             error
		wantAlreadyEnrolled bool
	}{
		{
			name: "正常系: 新規の受講登録成功",
			setupMock: func(courseRepo *mocks.CourseRepository, enrollRepo *mocks.EnrollmentRepository) {
				courseRepo.On("FindByID", ctx, db, courseID).Return(course, nil).Once()
				enrollRepo.On("Create", ctx, db, mock.AnythingOfType("*model.Enrollment")).
					Run(func(args mock.Arguments) {
						e := args.Get(2).(*model.Enrollment)
						assert.Equal(t, userID, e.UserID)
						assert.Equal(t, courseID, e.CourseID)
						assert.True(t, e.Enrolled)
						assert.Equal(t, 0, e.ProgressPercent)
						assert.NotEqual(t, uuid.Nil, e.EnrollmentID)
					}).Return(nil).Once()
			},
			wantErr:             nil,
			wantAlreadyEnrolled: false,
		},
		{
			name: "正常系: 登録済みでもエラーにせず already_enrolled=true で返す",
			setupMock: func(courseRepo *mocks.CourseRepository, enrollRepo *mocks.EnrollmentRepository) {
				courseRepo.On("FindByID", ctx, db, courseID).Return(course, nil).Once()
				enrollRepo.On("Create", ctx, db, mock.AnythingOfType("*model.Enrollment")).
					Return(model.ErrConflict).Once()
			},
			wantErr:             nil,
			wantAlreadyEnrolled: true,
		},
		{
			name: "異常系: コースが存在しない",
			setupMock: func(courseRepo *mocks.CourseRepository, enrollRepo *mocks.EnrollmentRepository) {
				courseRepo.On("FindByID", ctx, db, courseID).Return(nil, model.ErrNotFound).Once()
				// enrollRepo.Create は呼ばれない
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "異常系: 受講登録の挿入でDBエラー",
			setupMock: func(courseRepo *mocks.CourseRepository, enrollRepo *mocks.EnrollmentRepository) {
				courseRepo.On("FindByID", ctx, db, courseID).Return(course, nil).Once()
				enrollRepo.On("Create", ctx, db, mock.AnythingOfType("*model.Enrollment")).
					Return(errors.New("db error on create enrollment")).Once()
			},
			wantErr: model.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCourseRepo.Mock = mock.Mock{}
			mockEnrollRepo.Mock = mock.Mock{}
			if tt.setupMock != nil {
				tt.setupMock(mockCourseRepo, mockEnrollRepo)
			}

			result, err := svc.Enroll(ctx, userID, courseID)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, model.ErrNotFound) {
					assert.ErrorIs(t, err, model.ErrNotFound)
				}
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.True(t, result.Enrolled)
				assert.Equal(t, tt.wantAlreadyEnrolled, result.AlreadyEnrolled)
			}

			mockCourseRepo.AssertExpectations(t)
			mockEnrollRepo.AssertExpectations(t)
		})
	}
}
