package export

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestInterviewWorkbook(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	start := time.Date(2025, 3, 5, 10, 0, 0, 0, loc)
	interviews := []model.Interview{
		{
			CandidateName:     "Asha Rao",
			CandidateEmail:    "asha@example.com",
			JobTitle:          "Backend Engineer",
			InterviewRound:    model.RoundTechnical,
			Status:            model.StatusScheduled,
			InterviewDate:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			ConfirmedSlotTime: &start,
			InterviewerEmail:  "lead@example.com",
			MeetLink:          "https://meet.google.com/abc-defg-hij",
		},
		{
			CandidateName:  "Ben Ode",
			CandidateEmail: "ben@example.com",
			JobTitle:       "Backend Engineer",
			InterviewRound: model.RoundHR,
			Status:         model.StatusPending,
			InterviewDate:  time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
		},
	}
	counts := map[model.InterviewStatus]int64{
		model.StatusScheduled: 1,
		model.StatusPending:   1,
	}

	data, err := InterviewWorkbook(interviews, counts, loc, start)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, InterviewsSheet}, f.GetSheetList())

	rows, err := f.GetRows(InterviewsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, interviewHeaders, rows[0])
	assert.Equal(t, "Asha Rao", rows[1][0])
	assert.Equal(t, "Technical Round", rows[1][3])
	assert.Equal(t, "scheduled", rows[1][4])
	assert.Equal(t, "2025-03-05", rows[1][5])
	assert.Equal(t, "2025-03-05 10:00", rows[1][6])
	assert.Equal(t, "HR Round", rows[2][3])

	total, err := f.GetCellValue(SummarySheet, "B"+strconv.Itoa(4+len(model.AllStatuses)))
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}

func TestInterviewWorkbookEmpty(t *testing.T) {
	data, err := InterviewWorkbook(nil, nil, nil, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(InterviewsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
