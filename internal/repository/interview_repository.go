package repository

import (
	"context"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var inactiveStatuses = []model.InterviewStatus{model.StatusCancelled, model.StatusDeclined}

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db}
}

// Create returns ErrDuplicate when an active interview already exists for
// the same outreach and round.
func (r *InterviewRepository) Create(ctx context.Context, interview *model.Interview) error {
	return translate(r.db.WithContext(ctx).Create(interview).Error)
}

func (r *InterviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	var iv model.Interview
	if err := r.db.WithContext(ctx).First(&iv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &iv, nil
}

func (r *InterviewRepository) FindActive(ctx context.Context, outreachID uuid.UUID, round int) (*model.Interview, error) {
	var iv model.Interview
	err := r.db.WithContext(ctx).
		Where("outreach_id = ? AND interview_round = ? AND status NOT IN ?", outreachID, round, inactiveStatuses).
		First(&iv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &iv, nil
}

func (r *InterviewRepository) ListActiveByOutreach(ctx context.Context, outreachID uuid.UUID) ([]model.Interview, error) {
	var list []model.Interview
	err := r.db.WithContext(ctx).
		Where("outreach_id = ? AND status NOT IN ?", outreachID, inactiveStatuses).
		Find(&list).Error
	return list, translate(err)
}

// transitionOmit lists the columns a transition never writes.
// feedback_sent_at is owned by MarkFeedbackSent.
var transitionOmit = []string{"id", "created_at", "feedback_sent_at"}

func (r *InterviewRepository) Transition(ctx context.Context, interview *model.Interview, from model.InterviewStatus) error {
	res := r.transition(ctx, interview, from)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *InterviewRepository) transition(ctx context.Context, interview *model.Interview, from model.InterviewStatus) *gorm.DB {
	return r.db.WithContext(ctx).Model(interview).
		Where("status = ?", from).
		Select("*").Omit(transitionOmit...).
		Updates(interview)
}

func (r *InterviewRepository) CountActiveOnDate(ctx context.Context, day time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Interview{}).
		Where("interview_date = ? AND status NOT IN ?", day.Format(time.DateOnly), inactiveStatuses).
		Count(&n).Error
	return n, translate(err)
}

func (r *InterviewRepository) ListDueForFeedback(ctx context.Context, cutoff time.Time) ([]model.Interview, error) {
	var list []model.Interview
	err := r.db.WithContext(ctx).
		Where("status = ? AND feedback_sent_at IS NULL AND confirmed_slot_time <= ?", model.StatusScheduled, cutoff).
		Order("confirmed_slot_time ASC").
		Find(&list).Error
	return list, translate(err)
}

func (r *InterviewRepository) MarkFeedbackSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Interview{}).
		Where("id = ? AND feedback_sent_at IS NULL", id).
		Update("feedback_sent_at", at)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *InterviewRepository) CreateHRRound(ctx context.Context, firstRoundID uuid.UUID, next *model.Interview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Interview{}).
			Where("id = ? AND hr_round_scheduled = ?", firstRoundID, false).
			Update("hr_round_scheduled", true)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrStaleState
		}
		return translate(tx.Create(next).Error)
	})
}

func (r *InterviewRepository) SetDecision(ctx context.Context, id uuid.UUID, decision model.Decision) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Interview{}).
		Where("id = ? AND (decision IS NULL OR decision = '')", id).
		Update("decision", decision)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *InterviewRepository) List(ctx context.Context, filter model.InterviewFilter, page, pageSize int) ([]model.Interview, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Interview{})
	if filter.JobID != nil {
		q = q.Where("job_id = ?", *filter.JobID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var list []model.Interview
	q = q.Order("created_at DESC")
	if pageSize > 0 {
		q = q.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, translate(err)
	}
	return list, total, nil
}

func (r *InterviewRepository) CountByStatus(ctx context.Context, jobID *uuid.UUID) (map[model.InterviewStatus]int64, error) {
	var rows []struct {
		Status model.InterviewStatus
		Count  int64
	}
	q := r.db.WithContext(ctx).Model(&model.Interview{}).Select("status, count(*) AS count")
	if jobID != nil {
		q = q.Where("job_id = ?", *jobID)
	}
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	counts := make(map[model.InterviewStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
