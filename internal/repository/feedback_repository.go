package repository

import (
	"context"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db}
}

// Upsert keeps one row per interview; a later submission overwrites it.
func (r *FeedbackRepository) Upsert(ctx context.Context, feedback *model.Feedback) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "interview_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"interviewer_email", "technical_skills", "education_training", "work_experience",
			"organizational_skills", "communication", "attitude", "overall_rating",
			"final_recommendation", "comments", "current_ctc", "expected_ctc", "notice_period",
			"updated_at",
		}),
	}).Create(feedback).Error
	return translate(err)
}

func (r *FeedbackRepository) FindByInterview(ctx context.Context, interviewID uuid.UUID) (*model.Feedback, error) {
	var f model.Feedback
	if err := r.db.WithContext(ctx).First(&f, "interview_id = ?", interviewID).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}
