package repository

import (
	"context"
	"fmt"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	return translate(r.db.WithContext(ctx).Create(job).Error)
}

func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	return translate(r.db.WithContext(ctx).Save(job).Error)
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var j model.Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

// FindLatestByRole matches role or title case-insensitively and returns the
// most recently created job.
func (r *JobRepository) FindLatestByRole(ctx context.Context, role string) (*model.Job, error) {
	var j model.Job
	pattern := fmt.Sprintf("%%%s%%", role)
	err := r.db.WithContext(ctx).
		Where("role ILIKE ? OR title ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		First(&j).Error
	if err != nil {
		return nil, translate(err)
	}
	return &j, nil
}
