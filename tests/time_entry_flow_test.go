package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasobra/backend/app/dto"
	businessflow "github.com/horasobra/backend/business_flow"
	"github.com/horasobra/backend/models"
	"github.com/horasobra/backend/repository"
	testingutil "github.com/horasobra/backend/testing"
)

// TestTimeEntryFlowAgainstDatabase exercises the create, batch, and summary
// flows end to end against a real PostgreSQL schema, catching mismatches the
// in-memory fakes cannot (column quoting, date truncation, aggregation SQL).
func TestTimeEntryFlowAgainstDatabase(t *testing.T) {
	withDB(t, func(t *testing.T, tdb *testingutil.TestDB) {
		worker, site, costCode, err := tdb.SeedBaseFixtures()
		require.NoError(t, err)

		entryRepo := repository.NewTimeEntryRepository(tdb.DB)
		workerRepo := repository.NewWorkerRepository(tdb.DB)
		costCodeRepo := repository.NewCostCodeRepository(tdb.DB)

		entryFlow := businessflow.NewTimeEntryFlow(entryRepo, workerRepo, costCodeRepo, nil)
		batchFlow := businessflow.NewTimeEntryBatchFlow(entryRepo, workerRepo, costCodeRepo, nil, tdb.DB)
		summaryFlow := businessflow.NewSummaryFlow(entryRepo, workerRepo, nil)

		admin := businessflow.Actor{UserID: 100, Username: "admin", Role: models.RoleAdmin}
		ctx := context.Background()
		day := dto.NewDate(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))

		t.Run("CreateAndOverlap", func(t *testing.T) {
			entry, err := entryFlow.Create(ctx, admin, &dto.CreateTimeEntryRequest{
				WorkerID:   worker.ID,
				Date:       day,
				Start:      tod(t, "08:00"),
				End:        tod(t, "12:00"),
				TotalHours: 4,
				SiteID:     &site.ID,
				CostCodeID: &costCode.ID,
			})
			require.NoError(t, err)
			assert.NotZero(t, entry.ID)
			require.NotNil(t, entry.CostCodeName)
			assert.Equal(t, costCode.Name, *entry.CostCodeName)

			_, err = entryFlow.Create(ctx, admin, &dto.CreateTimeEntryRequest{
				WorkerID:   worker.ID,
				Date:       day,
				Start:      tod(t, "11:00"),
				End:        tod(t, "15:00"),
				TotalHours: 4,
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsOverlapConflict(err))
		})

		t.Run("BatchIsAtomic", func(t *testing.T) {
			require.NoError(t, tdb.ClearAllTables())
			worker, _, _, err := tdb.SeedBaseFixtures()
			require.NoError(t, err)

			// Second candidate collides with the first, so neither lands.
			_, err = batchFlow.CreateBatch(ctx, admin, &dto.CreateTimeEntryBatchRequest{
				Entries: []dto.BatchEntryRequest{
					{WorkerID: worker.ID, Date: day, Start: tod(t, "08:00"), End: tod(t, "12:00"), TotalHours: 4},
					{WorkerID: worker.ID, Date: day, Start: tod(t, "11:00"), End: tod(t, "15:00"), TotalHours: 4},
				},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsOverlapConflict(err))

			count, err := entryRepo.CountByWorker(ctx, worker.ID)
			require.NoError(t, err)
			assert.Zero(t, count)

			entries, err := batchFlow.CreateBatch(ctx, admin, &dto.CreateTimeEntryBatchRequest{
				Entries: []dto.BatchEntryRequest{
					{WorkerID: worker.ID, Date: day, Start: tod(t, "08:00"), End: tod(t, "12:00"), TotalHours: 4},
					{WorkerID: worker.ID, Date: day, Start: tod(t, "13:00"), End: tod(t, "17:00"), TotalHours: 4},
				},
			})
			require.NoError(t, err)
			assert.Len(t, entries, 2)
		})

		t.Run("MonthlySummary", func(t *testing.T) {
			require.NoError(t, tdb.ClearAllTables())
			worker, _, _, err := tdb.SeedBaseFixtures()
			require.NoError(t, err)

			_, err = batchFlow.CreateBatch(ctx, admin, &dto.CreateTimeEntryBatchRequest{
				Entries: []dto.BatchEntryRequest{
					{WorkerID: worker.ID, Date: day, Start: tod(t, "08:00"), End: tod(t, "12:00"), TotalHours: 4},
					{WorkerID: worker.ID, Date: day, Start: tod(t, "13:00"), End: tod(t, "16:30"), TotalHours: 3.5},
				},
			})
			require.NoError(t, err)

			report, err := summaryFlow.MonthlySummary(ctx, admin, &dto.MonthlySummaryRequest{Year: 2024, Month: 3})
			require.NoError(t, err)
			require.Len(t, report, 1)
			assert.Equal(t, worker.ID, report[0].WorkerID)
			require.Len(t, report[0].Days, 1)
			assert.Equal(t, 7.5, report[0].Days[0].TotalHours)
			assert.Equal(t, 7.5, report[0].MonthTotal)
		})
	})
}
