package repository

import (
	"context"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutreachRepository struct {
	db *gorm.DB
}

func NewOutreachRepository(db *gorm.DB) *OutreachRepository {
	return &OutreachRepository{db}
}

func (r *OutreachRepository) Create(ctx context.Context, outreach *model.Outreach) error {
	return translate(r.db.WithContext(ctx).Create(outreach).Error)
}

func (r *OutreachRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Outreach, error) {
	var o model.Outreach
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OutreachRepository) SetAcknowledgement(ctx context.Context, id uuid.UUID, ack model.Acknowledgement, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Outreach{}).
		Where("id = ? AND acknowledgement IS NULL", id).
		Updates(map[string]any{"acknowledgement": ack, "acknowledged_at": at})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *OutreachRepository) ListInterested(ctx context.Context, jobID uuid.UUID) ([]model.Outreach, error) {
	var list []model.Outreach
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND acknowledgement = ?", jobID, model.AckInterested).
		Order("rank ASC").
		Find(&list).Error
	return list, translate(err)
}
