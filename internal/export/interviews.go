package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	InterviewsSheet = "Interviews"

	timeLayout = "2006-01-02 15:04"
)

var interviewHeaders = []string{
	"Candidate", "Email", "Role", "Round", "Status", "Interview Date", "Confirmed Time",
	"Interviewer", "Meet Link", "Feedback Requested", "Decision",
}

// statusFill colours interview rows by status.
var statusFill = map[model.InterviewStatus]string{
	model.StatusScheduled:         "C6EFCE",
	model.StatusCompleted:         "BDD7EE",
	model.StatusWaitingApproval:   "FFEB9C",
	model.StatusPendingReschedule: "FFEB9C",
	model.StatusCancelled:         "FFC7CE",
	model.StatusDeclined:          "FFC7CE",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// InterviewWorkbook renders the interview list and per-status totals as an
// xlsx document. Times are shown in loc.
func InterviewWorkbook(interviews []model.Interview, counts map[model.InterviewStatus]int64, loc *time.Location, generatedAt time.Time) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(InterviewsSheet); err != nil {
		return nil, fmt.Errorf("create interviews sheet: %w", err)
	}

	if err := writeSummary(f, counts, generatedAt.In(loc)); err != nil {
		return nil, fmt.Errorf("write summary sheet: %w", err)
	}
	if err := writeInterviews(f, interviews, loc); err != nil {
		return nil, fmt.Errorf("write interviews sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
}

func writeSummary(f *excelize.File, counts map[model.InterviewStatus]int64, generatedAt time.Time) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 15); err != nil {
		return err
	}

	rows := [][]any{
		{"Generated", generatedAt.Format(timeLayout)},
		{},
		{"Status", "Interviews"},
	}
	var total int64
	for _, s := range model.AllStatuses {
		rows = append(rows, []any{string(s), counts[s]})
		total += counts[s]
	}
	rows = append(rows, []any{"total", total})

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if len(row) == 0 {
			continue
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(SummarySheet, "A3", "B3", header)
}

func writeInterviews(f *excelize.File, interviews []model.Interview, loc *time.Location) error {
	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, h := range interviewHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(InterviewsSheet, cell, h); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(interviewHeaders))
	if err := f.SetCellStyle(InterviewsSheet, "A1", lastCol+"1", header); err != nil {
		return err
	}
	if err := f.SetColWidth(InterviewsSheet, "A", lastCol, 20); err != nil {
		return err
	}

	rowStyles := make(map[model.InterviewStatus]int, len(statusFill))
	for status, color := range statusFill {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		rowStyles[status] = style
	}

	for i, iv := range interviews {
		r := i + 2
		row := []any{
			iv.CandidateName,
			iv.CandidateEmail,
			iv.JobTitle,
			model.RoundName(iv.InterviewRound),
			string(iv.Status),
			iv.InterviewDate.Format(time.DateOnly),
			formatTime(iv.ConfirmedSlotTime, loc),
			iv.InterviewerEmail,
			iv.MeetLink,
			formatTime(iv.FeedbackSentAt, loc),
			string(iv.Decision),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(InterviewsSheet, cell, &row); err != nil {
			return err
		}
		if style, ok := rowStyles[iv.Status]; ok {
			if err := f.SetCellStyle(InterviewsSheet, cell, fmt.Sprintf("%s%d", lastCol, r), style); err != nil {
				return err
			}
		}
	}

	if len(interviews) > 0 {
		ref := fmt.Sprintf("A1:%s%d", lastCol, len(interviews)+1)
		if err := f.AutoFilter(InterviewsSheet, ref, []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}
	return f.SetPanes(InterviewsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(timeLayout)
}
