package repository

import (
	"context"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ResumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *ResumeRepository {
	return &ResumeRepository{db}
}

func (r *ResumeRepository) Create(ctx context.Context, resume *model.Resume) error {
	return translate(r.db.WithContext(ctx).Create(resume).Error)
}

func (r *ResumeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Resume, error) {
	var resumes []model.Resume
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&resumes).Error
	return resumes, translate(err)
}

// TopMatches ranks resumes by cosine distance (<=>) to the embedding.
func (r *ResumeRepository) TopMatches(ctx context.Context, embedding pgvector.Vector, topK int) ([]model.ResumeMatch, error) {
	var matches []model.ResumeMatch
	err := r.db.WithContext(ctx).Raw(`
        SELECT *, embedding <=> ? AS distance
        FROM resumes
        WHERE embedding IS NOT NULL
        ORDER BY embedding <=> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&matches).Error
	return matches, translate(err)
}

func (r *ResumeRepository) MatchesFor(ctx context.Context, embedding pgvector.Vector, ids []uuid.UUID) ([]model.ResumeMatch, error) {
	var matches []model.ResumeMatch
	err := r.db.WithContext(ctx).Raw(`
        SELECT *, embedding <=> ? AS distance
        FROM resumes
        WHERE id IN ?
    `, embedding, ids).Scan(&matches).Error
	return matches, translate(err)
}
