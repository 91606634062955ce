package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horasobra/backend/app/dto"
	"github.com/horasobra/backend/models"
)

type batchFlowFixture struct {
	flow    *TimeEntryBatchFlowImpl
	entries *fakeTimeEntryRepo
	txCalls int
}

func newBatchFlowFixture() *batchFlowFixture {
	fix := &batchFlowFixture{entries: newFakeTimeEntryRepo()}
	fix.flow = &TimeEntryBatchFlowImpl{
		entryRepo: fix.entries,
		workerRepo: newFakeWorkerRepo(
			&models.Worker{ID: "W-1", Name: "Ana Torres"},
			&models.Worker{ID: "W-2", Name: "Luis Prado"},
		),
		costCodeRepo: newFakeCostCodeRepo(
			&models.CostCode{ID: 7, SiteID: 1, Name: "Foundations", SiteName: "North Plaza"},
		),
		runInTx: func(ctx context.Context, fn func(context.Context) error) error {
			fix.txCalls++
			return fn(ctx)
		},
		now: func() time.Time { return testNow },
	}
	return fix
}

func batchItem(t *testing.T, workerID string, date time.Time, start, end string, hours float64) dto.BatchEntryRequest {
	t.Helper()
	return dto.BatchEntryRequest{
		WorkerID:   workerID,
		Date:       dto.NewDate(date),
		Start:      todPtr(t, start),
		End:        todPtr(t, end),
		TotalHours: hours,
	}
}

func TestBatchCreateSavesAllInOneTransaction(t *testing.T) {
	fix := newBatchFlowFixture()

	entries, err := fix.flow.CreateBatch(context.Background(), adminActor(), &dto.CreateTimeEntryBatchRequest{
		Entries: []dto.BatchEntryRequest{
			batchItem(t, "W-1", testNow, "08:00", "12:00", 4),
			batchItem(t, "W-1", testNow, "13:00", "17:00", 4),
			batchItem(t, "W-2", testNow, "08:00", "12:00", 4),
		},
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, fix.txCalls)
	assert.Len(t, fix.entries.entries, 3)
	assert.Equal(t, "Ana Torres", entries[0].WorkerName)
}

func TestBatchCreateValidationBlamesCandidate(t *testing.T) {
	fix := newBatchFlowFixture()

	_, err := fix.flow.CreateBatch(context.Background(), adminActor(), &dto.CreateTimeEntryBatchRequest{
		Entries: []dto.BatchEntryRequest{
			batchItem(t, "W-1", testNow, "08:00", "12:00", 4),
			{WorkerID: "W-404", Date: dto.NewDate(testNow), Start: todPtr(t, "08:00"), End: todPtr(t, "12:00"), TotalHours: 4},
			batchItem(t, "W-2", testNow, "08:00", "12:00", 4),
		},
	})
	require.Error(t, err)
	assert.True(t, IsWorkerNotFound(err))

	var candidateErr *CandidateError
	require.ErrorAs(t, err, &candidateErr)
	assert.Equal(t, 1, candidateErr.Index)

	// Nothing was saved.
	assert.Empty(t, fix.entries.entries)
	assert.Zero(t, fix.txCalls)
}

func TestBatchCreateConflictWithPersistedEntry(t *testing.T) {
	fix := newBatchFlowFixture()
	ctx := context.Background()

	// Seed one persisted entry, then submit a batch whose second candidate
	// collides with it.
	_, err := fix.flow.CreateBatch(ctx, adminActor(), &dto.CreateTimeEntryBatchRequest{
		Entries: []dto.BatchEntryRequest{batchItem(t, "W-1", testNow, "08:00", "12:00", 4)},
	})
	require.NoError(t, err)
	require.Len(t, fix.entries.entries, 1)
	var persistedUUID string
	for _, entry := range fix.entries.entries {
		persistedUUID = entry.UUID.String()
	}

	_, err = fix.flow.CreateBatch(ctx, adminActor(), &dto.CreateTimeEntryBatchRequest{
		Entries: []dto.BatchEntryRequest{
			batchItem(t, "W-2", testNow, "08:00", "12:00", 4),
			batchItem(t, "W-1", testNow, "11:00", "15:00", 4),
		},
	})
	require.Error(t, err)
	assert.True(t, IsOverlapConflict(err))

	var overlap *OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, 1, overlap.CandidateIndex)
	require.NotNil(t, overlap.EntryUUID)
	assert.Equal(t, persistedUUID, *overlap.EntryUUID)
	assert.Nil(t, overlap.BatchIndex)

	// The whole batch was rejected, including the valid first candidate.
	assert.Len(t, fix.entries.entries, 1)
}

func TestBatchCreateIntraBatchConflict(t *testing.T) {
	fix := newBatchFlowFixture()

	_, err := fix.flow.CreateBatch(context.Background(), adminActor(), &dto.CreateTimeEntryBatchRequest{
		Entries: []dto.BatchEntryRequest{
			batchItem(t, "W-1", testNow, "08:00", "12:00", 4),
			batchItem(t, "W-2", testNow, "08:00", "12:00", 4),
			batchItem(t, "W-1", testNow, "11:00", "15:00", 4),
		},
	})
	require.Error(t, err)
	assert.True(t, IsOverlapConflict(err))

	var overlap *OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, 2, overlap.CandidateIndex)
	require.NotNil(t, overlap.BatchIndex)
	assert.Equal(t, 0, *overlap.BatchIndex)
	assert.Nil(t, overlap.EntryUUID)

	assert.Empty(t, fix.entries.entries)
}

func TestBatchCreateSameIntervalDifferentWorkers(t *testing.T) {
	fix := newBatchFlowFixture()

	entries, err := fix.flow.CreateBatch(context.Background(), adminActor(), &dto.CreateTimeEntryBatchRequest{
		Entries: []dto.BatchEntryRequest{
			batchItem(t, "W-1", testNow, "08:00", "12:00", 4),
			batchItem(t, "W-2", testNow, "08:00", "12:00", 4),
		},
	})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestBatchCreateRegularizationsSkipOverlap(t *testing.T) {
	fix := newBatchFlowFixture()

	// A regularization candidate sits alongside an interval candidate for
	// the same worker and date without conflicting.
	entries, err := fix.flow.CreateBatch(context.Background(), secretaryActor(), &dto.CreateTimeEntryBatchRequest{
		Entries: []dto.BatchEntryRequest{
			batchItem(t, "W-1", testNow, "08:00", "12:00", 4),
			{WorkerID: "W-1", Date: dto.NewDate(testNow), TotalHours: 2, IsRegularization: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[1].Interval())
}

func TestBatchCreateWorkerCannotSubmitRegularization(t *testing.T) {
	fix := newBatchFlowFixture()

	_, err := fix.flow.CreateBatch(context.Background(), workerActor("W-1"), &dto.CreateTimeEntryBatchRequest{
		Entries: []dto.BatchEntryRequest{
			{WorkerID: "W-1", Date: dto.NewDate(testNow), TotalHours: 2, IsRegularization: true},
		},
	})
	require.Error(t, err)
	assert.True(t, IsPermissionDenied(err))

	var candidateErr *CandidateError
	require.ErrorAs(t, err, &candidateErr)
	assert.Equal(t, 0, candidateErr.Index)
}

func TestBatchCreateStorageFailureIsAtomic(t *testing.T) {
	fix := newBatchFlowFixture()
	fix.entries.saveBatchErr = assert.AnError

	_, err := fix.flow.CreateBatch(context.Background(), adminActor(), &dto.CreateTimeEntryBatchRequest{
		Entries: []dto.BatchEntryRequest{
			batchItem(t, "W-1", testNow, "08:00", "12:00", 4),
			batchItem(t, "W-2", testNow, "08:00", "12:00", 4),
		},
	})
	require.Error(t, err)
	assert.True(t, IsStorageIntegrity(err))
	assert.Empty(t, fix.entries.entries)
	assert.Equal(t, 1, fix.txCalls)
}
