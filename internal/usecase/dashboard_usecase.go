package usecase

import (
	"context"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/export"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/fadilmartias/recruit-scheduler/internal/repository"
	"github.com/fadilmartias/recruit-scheduler/internal/response"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type StatusSummary struct {
	Counts map[model.InterviewStatus]int64 `json:"counts"`
	Total  int64                           `json:"total"`
}

type DashboardUsecase struct {
	interviewRepo repository.InterviewRepositoryInterface
	loc           *time.Location
	now           func() time.Time
}

func NewDashboardUsecase(interviewRepo repository.InterviewRepositoryInterface, loc *time.Location) *DashboardUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUsecase{interviewRepo: interviewRepo, loc: loc, now: time.Now}
}

// Status counts interviews per status. Statuses without interviews are
// reported as zero.
func (uc *DashboardUsecase) Status(ctx context.Context, jobID *uuid.UUID) (*StatusSummary, error) {
	counts, err := uc.interviewRepo.CountByStatus(ctx, jobID)
	if err != nil {
		return nil, newError(KindInternal, "interview status", "could not count interviews", err)
	}
	summary := &StatusSummary{Counts: make(map[model.InterviewStatus]int64, len(model.AllStatuses))}
	for _, s := range model.AllStatuses {
		summary.Counts[s] = counts[s]
		summary.Total += counts[s]
	}
	return summary, nil
}

func (uc *DashboardUsecase) List(ctx context.Context, filter model.InterviewFilter, page, pageSize int) ([]model.Interview, *response.Pagination, error) {
	const op = "list interviews"
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, newError(KindInvalidInput, op, "unknown status "+string(filter.Status), nil)
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	list, total, err := uc.interviewRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, nil, newError(KindInternal, op, "could not list interviews", err)
	}
	return list, response.NewPagination(page, pageSize, total, len(list)), nil
}

// Export renders every interview matching filter as an xlsx workbook.
func (uc *DashboardUsecase) Export(ctx context.Context, filter model.InterviewFilter) ([]byte, error) {
	const op = "export interviews"
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, newError(KindInvalidInput, op, "unknown status "+string(filter.Status), nil)
	}
	list, _, err := uc.interviewRepo.List(ctx, filter, 1, 0)
	if err != nil {
		return nil, newError(KindInternal, op, "could not list interviews", err)
	}
	counts, err := uc.interviewRepo.CountByStatus(ctx, filter.JobID)
	if err != nil {
		return nil, newError(KindInternal, op, "could not count interviews", err)
	}
	data, err := export.InterviewWorkbook(list, counts, uc.loc, uc.now())
	if err != nil {
		return nil, newError(KindInternal, op, "could not build the workbook", err)
	}
	return data, nil
}
