package usecase

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/export"
	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedInterviews(t *testing.T, repo *memInterviewRepo, jobID uuid.UUID, status model.InterviewStatus, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		iv := &model.Interview{
			OutreachID:     uuid.New(),
			JobID:          jobID,
			CandidateName:  fmt.Sprintf("%s-%02d", status, i),
			InterviewRound: model.RoundTechnical,
			InterviewDate:  tuesday,
			Status:         status,
		}
		require.NoError(t, repo.Create(context.Background(), iv))
	}
}

func TestDashboardStatus(t *testing.T) {
	repo := newMemInterviewRepo()
	jobA, jobB := uuid.New(), uuid.New()
	seedInterviews(t, repo, jobA, model.StatusPending, 2)
	seedInterviews(t, repo, jobA, model.StatusScheduled, 1)
	seedInterviews(t, repo, jobB, model.StatusCancelled, 3)
	uc := NewDashboardUsecase(repo, testLoc)

	all, err := uc.Status(context.Background(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 6, all.Total)
	assert.Len(t, all.Counts, len(model.AllStatuses))
	assert.EqualValues(t, 0, all.Counts[model.StatusCompleted])

	onlyA, err := uc.Status(context.Background(), &jobA)
	require.NoError(t, err)
	assert.EqualValues(t, 3, onlyA.Total)
	assert.EqualValues(t, 2, onlyA.Counts[model.StatusPending])
	assert.EqualValues(t, 0, onlyA.Counts[model.StatusCancelled])
}

func TestDashboardList(t *testing.T) {
	repo := newMemInterviewRepo()
	jobID := uuid.New()
	seedInterviews(t, repo, jobID, model.StatusPending, 25)
	seedInterviews(t, repo, jobID, model.StatusScheduled, 2)
	uc := NewDashboardUsecase(repo, testLoc)
	ctx := context.Background()

	list, page, err := uc.List(ctx, model.InterviewFilter{Status: model.StatusPending}, 2, 0)
	require.NoError(t, err)
	assert.Len(t, list, 5)
	assert.Equal(t, defaultPageSize, page.PageSize)
	assert.EqualValues(t, 25, page.TotalItems)
	assert.EqualValues(t, 2, page.TotalPages)
	assert.Equal(t, 21, page.From)
	assert.Equal(t, 25, page.To)
	assert.False(t, page.HasMore)

	_, page, err = uc.List(ctx, model.InterviewFilter{}, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, maxPageSize, page.PageSize)

	_, _, err = uc.List(ctx, model.InterviewFilter{Status: "archived"}, 1, 10)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestDashboardExport(t *testing.T) {
	repo := newMemInterviewRepo()
	jobID := uuid.New()
	seedInterviews(t, repo, jobID, model.StatusPending, 30)
	seedInterviews(t, repo, uuid.New(), model.StatusScheduled, 4)
	uc := NewDashboardUsecase(repo, testLoc)
	uc.now = func() time.Time { return tuesday }

	data, err := uc.Export(context.Background(), model.InterviewFilter{JobID: &jobID})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.InterviewsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 31, "header plus every matching interview, not one page")

	_, err = uc.Export(context.Background(), model.InterviewFilter{Status: "archived"})
	assert.Equal(t, KindInvalidInput, KindOf(err))
}
