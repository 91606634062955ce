package businessflow

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/utils"
)

type summaryFlowFixture struct {
	flow    *SummaryFlowImpl
	entries *fakeTimeEntryRepo
}

func newSummaryFlowFixture() *summaryFlowFixture {
	entries := newFakeTimeEntryRepo()
	return &summaryFlowFixture{
		flow: &SummaryFlowImpl{
			entryRepo: entries,
			workerRepo: newFakeWorkerRepo(
				&models.Worker{ID: "W-1", Name: "Ana Torres"},
				&models.Worker{ID: "W-2", Name: "Luis Prado"},
				&models.Worker{ID: "W-3", Name: "Sofia Lima"},
			),
		},
		entries: entries,
	}
}

func (fix *summaryFlowFixture) seedHours(t *testing.T, workerID string, date time.Time, hours float64) {
	t.Helper()
	require.NoError(t, fix.entries.Save(context.Background(), &models.TimeEntry{
		WorkerID:   workerID,
		WorkerName: workerID,
		Date:       dateOnly(date),
		TotalHours: hours,
	}))
}

func TestMonthlySummaryRejectsBadMonth(t *testing.T) {
	fix := newSummaryFlowFixture()

	for _, month := range []int{0, 13, -1} {
		_, err := fix.flow.MonthlySummary(context.Background(), adminActor(), &dto.MonthlySummaryRequest{
			Year: 2024, Month: month,
		})
		require.Error(t, err)
		assert.True(t, IsInvalidMonth(err))
	}
}

func TestMonthlySummaryAggregatesPerDay(t *testing.T) {
	fix := newSummaryFlowFixture()
	march := func(day int) time.Time { return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC) }

	// Two entries on the same day sum into one daily total; regularizations
	// count like any other entry.
	fix.seedHours(t, "W-1", march(4), 4)
	fix.seedHours(t, "W-1", march(4), 3.5)
	fix.seedHours(t, "W-1", march(5), 8)
	fix.seedHours(t, "W-2", march(4), 8)
	// Outside the month, must not appear.
	fix.seedHours(t, "W-1", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 8)
	fix.seedHours(t, "W-1", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 8)

	report, err := fix.flow.MonthlySummary(context.Background(), adminActor(), &dto.MonthlySummaryRequest{
		Year: 2024, Month: 3,
	})
	require.NoError(t, err)
	require.Len(t, report, 3)

	byID := map[string]*dto.WorkerMonthlySummary{}
	for _, summary := range report {
		byID[summary.WorkerID] = summary
	}

	w1 := byID["W-1"]
	require.NotNil(t, w1)
	assert.Equal(t, "Ana Torres", w1.WorkerName)
	require.Len(t, w1.Days, 2)
	assert.Equal(t, 7.5, w1.Days[0].TotalHours)
	assert.Equal(t, 8.0, w1.Days[1].TotalHours)
	assert.Equal(t, 15.5, w1.MonthTotal)

	// A worker with no entries this month still appears, with empty days.
	w3 := byID["W-3"]
	require.NotNil(t, w3)
	assert.Empty(t, w3.Days)
	assert.Zero(t, w3.MonthTotal)
}

func TestMonthlySummaryWorkerScope(t *testing.T) {
	fix := newSummaryFlowFixture()
	march := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	fix.seedHours(t, "W-1", march, 8)
	fix.seedHours(t, "W-2", march, 8)

	report, err := fix.flow.MonthlySummary(context.Background(), workerActor("W-1"), &dto.MonthlySummaryRequest{
		Year: 2024, Month: 3,
	})
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "W-1", report[0].WorkerID)
	assert.Equal(t, 8.0, report[0].MonthTotal)
}

func TestMonthlySummaryWorkerWithoutLink(t *testing.T) {
	fix := newSummaryFlowFixture()

	actor := Actor{UserID: 9, Username: "orphan", Role: models.RoleWorker}
	_, err := fix.flow.MonthlySummary(context.Background(), actor, &dto.MonthlySummaryRequest{
		Year: 2024, Month: 3,
	})
	require.Error(t, err)
	assert.True(t, IsPermissionDenied(err))
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		year, month int
		first, last string
	}{
		{2024, 3, "2024-03-01", "2024-03-31"},
		{2024, 2, "2024-02-01", "2024-02-29"},
		{2023, 2, "2023-02-01", "2023-02-28"},
		{2024, 12, "2024-12-01", "2024-12-31"},
	}
	for _, tt := range tests {
		first, last := monthBounds(tt.year, tt.month)
		assert.Equal(t, tt.first, first.Format(utils.DateLayout))
		assert.Equal(t, tt.last, last.Format(utils.DateLayout))
	}
}

func TestExportMonthlySummaryWorkbook(t *testing.T) {
	fix := newSummaryFlowFixture()
	fix.seedHours(t, "W-1", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), 8)

	filename, payload, err := fix.flow.ExportMonthlySummary(context.Background(), workerActor("W-1"), &dto.MonthlySummaryRequest{
		Year: 2024, Month: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "monthly_summary_2024_03.xlsx", filename)
	require.NotEmpty(t, payload)

	xl, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows(xl.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"worker_id", "worker_name", "date", "hours"}, rows[0])
	assert.Equal(t, "2024-03-04", rows[1][2])
	assert.Equal(t, "total", rows[2][2])
}
