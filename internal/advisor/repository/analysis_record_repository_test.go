package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testTopic  = "RELIANCE"
	testParams = "₹100000-Moderate-Value"
)

// createTestRepository returns an initialized repository backed by a file in t.TempDir().
func createTestRepository(t *testing.T) *analysisRecordRepository {
	t.Helper()
	repo := NewAnalysisRecordRepository(sqlite.Config{Path: filepath.Join(t.TempDir(), "test.db")}, logger.NewNop()).(*analysisRecordRepository)
	require.NoError(t, repo.Initialize(context.Background()))
	return repo
}

// brokenRepository points at a directory that does not exist, so every open fails.
func brokenRepository(t *testing.T) *analysisRecordRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "missing", "dir", "test.db")
	return NewAnalysisRecordRepository(sqlite.Config{Path: path}, logger.NewNop()).(*analysisRecordRepository)
}

func TestInitialize_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)

	require.True(t, repo.Save(ctx, testTopic, testParams, "text A").OK())

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Initialize(ctx), "iteration %d", i)
	}

	assert.True(t, repo.SchemaExists(ctx))
	records := repo.ListAll(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, "text A", records[0].Content)

	var tables int64
	require.NoError(t, repo.withConn(ctx, func(db *gorm.DB) error {
		return db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'analysis_data'").Scan(&tables).Error
	}))
	assert.EqualValues(t, 1, tables)
}

func TestInitialize_PathWithHashKeepsConfiguredFile(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "reports#2024")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "investment_analysis.db")
	repo := NewAnalysisRecordRepository(sqlite.Config{Path: path}, logger.NewNop())

	require.NoError(t, repo.Initialize(ctx))
	require.True(t, repo.Save(ctx, testTopic, testParams, "text A").OK())

	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "reports"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "text A", repo.Retrieve(ctx, testTopic, testParams).Content)
}

func TestInitialize_FailsWithStorageInitError(t *testing.T) {
	repo := brokenRepository(t)

	err := repo.Initialize(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageInit)
}

func TestSchemaExists(t *testing.T) {
	ctx := context.Background()

	t.Run("false before initialize", func(t *testing.T) {
		repo := NewAnalysisRecordRepository(sqlite.Config{Path: filepath.Join(t.TempDir(), "fresh.db")}, logger.NewNop())
		assert.False(t, repo.SchemaExists(ctx))
	})

	t.Run("true after initialize", func(t *testing.T) {
		assert.True(t, createTestRepository(t).SchemaExists(ctx))
	})

	t.Run("false when the engine fails", func(t *testing.T) {
		assert.False(t, brokenRepository(t).SchemaExists(ctx))
	})
}

func TestSaveRetrieve_Scenario(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)

	saved := repo.Save(ctx, testTopic, testParams, "text A")
	require.Equal(t, OutcomeSaved, saved.Outcome)

	got := repo.Retrieve(ctx, testTopic, testParams)
	assert.Equal(t, OutcomeFound, got.Outcome)
	assert.Equal(t, "text A", got.Content)
	assert.NoError(t, got.Err)
}

func TestUpdate_Scenario(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)
	require.True(t, repo.Save(ctx, testTopic, testParams, "text A").OK())

	updated := repo.Update(ctx, testTopic, testParams, "text B")
	assert.Equal(t, OutcomeUpdated, updated.Outcome)
	assert.Equal(t, "text B", repo.Retrieve(ctx, testTopic, testParams).Content)
}

func TestDelete_Scenario(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)
	require.True(t, repo.Save(ctx, testTopic, testParams, "text A").OK())

	assert.Equal(t, OutcomeDeleted, repo.Delete(ctx, testTopic, testParams).Outcome)

	got := repo.Retrieve(ctx, testTopic, testParams)
	assert.True(t, got.NotFound())
	assert.Empty(t, got.Content)

	again := repo.Delete(ctx, testTopic, testParams)
	assert.Equal(t, OutcomeNotFound, again.Outcome)
	assert.Equal(t, "No content found to delete for the given topic and parameters.", again.Message())
}

func TestRetrieve_EmptyStoreIsNotFound(t *testing.T) {
	repo := createTestRepository(t)

	got := repo.Retrieve(context.Background(), "UNKNOWN", "x")
	assert.Equal(t, OutcomeNotFound, got.Outcome)
	assert.NoError(t, got.Err)
	assert.Equal(t, "No content found for the given topic and parameters.", got.Message())
}

func TestRetrieve_DuplicatesReturnFirstInserted(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)

	require.True(t, repo.Save(ctx, testTopic, testParams, "first").OK())
	require.True(t, repo.Save(ctx, testTopic, testParams, "second").OK())
	require.True(t, repo.Save(ctx, testTopic, "other", "third").OK())

	assert.Equal(t, "first", repo.Retrieve(ctx, testTopic, testParams).Content)
	assert.Len(t, repo.ListAll(ctx), 3)
}

func TestUpdate_AffectsEveryMatchingRow(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)

	require.True(t, repo.Save(ctx, testTopic, testParams, "first").OK())
	require.True(t, repo.Save(ctx, testTopic, testParams, "second").OK())
	require.True(t, repo.Save(ctx, "TCS", testParams, "untouched").OK())

	require.Equal(t, OutcomeUpdated, repo.Update(ctx, testTopic, testParams, "rewritten").Outcome)

	records := repo.ListAll(ctx)
	require.Len(t, records, 3)
	assert.Equal(t, "rewritten", records[0].Content)
	assert.Equal(t, "rewritten", records[1].Content)
	assert.Equal(t, "untouched", records[2].Content)
}

func TestUpdate_NoMatchMutatesNothing(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)
	require.True(t, repo.Save(ctx, testTopic, testParams, "text A").OK())

	res := repo.Update(ctx, "UNKNOWN", testParams, "text B")
	assert.Equal(t, OutcomeNotFound, res.Outcome)
	assert.Equal(t, "No matching content found to update.", res.Message())
	assert.Equal(t, "text A", repo.Retrieve(ctx, testTopic, testParams).Content)
}

func TestUpdate_KeepsIDTopicAndParameters(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)
	require.True(t, repo.Save(ctx, testTopic, testParams, "text A").OK())
	before := repo.ListAll(ctx)[0]

	require.True(t, repo.Update(ctx, testTopic, testParams, "text B").OK())

	after := repo.ListAll(ctx)[0]
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Topic, after.Topic)
	assert.Equal(t, before.Parameters, after.Parameters)
	assert.Equal(t, "text B", after.Content)
}

func TestDelete_RemovesEveryMatchingRow(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)

	require.True(t, repo.Save(ctx, testTopic, testParams, "first").OK())
	require.True(t, repo.Save(ctx, testTopic, testParams, "second").OK())
	require.True(t, repo.Save(ctx, "TCS", testParams, "kept").OK())

	require.Equal(t, OutcomeDeleted, repo.Delete(ctx, testTopic, testParams).Outcome)

	records := repo.ListAll(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, "TCS", records[0].Topic)
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)

	assert.Empty(t, repo.ListAll(ctx))
	assert.NotNil(t, repo.ListAll(ctx))

	inputs := []entity.AnalysisRecord{
		{Topic: "RELIANCE", Parameters: "p1", Content: "c1"},
		{Topic: "TCS", Parameters: "p2", Content: "c2"},
		{Topic: "INFY", Parameters: "p3", Content: "c3"},
	}
	for _, in := range inputs {
		require.True(t, repo.Save(ctx, in.Topic, in.Parameters, in.Content).OK())
	}

	records := repo.ListAll(ctx)
	require.Len(t, records, len(inputs))
	seen := map[uint]bool{}
	for i, rec := range records {
		assert.Equal(t, inputs[i].Topic, rec.Topic)
		assert.Equal(t, inputs[i].Parameters, rec.Parameters)
		assert.Equal(t, inputs[i].Content, rec.Content)
		assert.False(t, seen[rec.ID], "duplicate id %d", rec.ID)
		seen[rec.ID] = true
	}

	require.True(t, repo.Delete(ctx, "TCS", "p2").OK())
	assert.Len(t, repo.ListAll(ctx), len(inputs)-1)
}

func TestIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)

	require.True(t, repo.Save(ctx, "A", "p", "1").OK())
	require.True(t, repo.Save(ctx, "B", "p", "2").OK())
	last := repo.ListAll(ctx)[1].ID

	require.True(t, repo.Delete(ctx, "B", "p").OK())
	require.True(t, repo.Save(ctx, "C", "p", "3").OK())

	records := repo.ListAll(ctx)
	require.Len(t, records, 2)
	assert.Greater(t, records[1].ID, last)
}

func TestSave_RejectsEmptyKey(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)

	res := repo.Save(ctx, "", testParams, "x")
	assert.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, ErrInvalidRecord)

	res = repo.Save(ctx, testTopic, "  ", "x")
	assert.ErrorIs(t, res.Err, ErrInvalidRecord)
	assert.Empty(t, repo.ListAll(ctx))
}

func TestEngineFailures_AreReportedNotRaised(t *testing.T) {
	ctx := context.Background()
	repo := brokenRepository(t)

	save := repo.Save(ctx, testTopic, testParams, "x")
	assert.True(t, save.Failed())
	assert.ErrorIs(t, save.Err, ErrStorageWrite)

	get := repo.Retrieve(ctx, testTopic, testParams)
	assert.True(t, get.Failed())
	assert.ErrorIs(t, get.Err, ErrStorageRead)
	assert.False(t, get.NotFound())

	assert.ErrorIs(t, repo.Update(ctx, testTopic, testParams, "y").Err, ErrStorageWrite)
	assert.ErrorIs(t, repo.Delete(ctx, testTopic, testParams).Err, ErrStorageWrite)

	records := repo.ListAll(ctx)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestOperations_FailWhenTableMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRecordRepository(sqlite.Config{Path: filepath.Join(t.TempDir(), "noschema.db")}, logger.NewNop())

	assert.ErrorIs(t, repo.Save(ctx, testTopic, testParams, "x").Err, ErrStorageWrite)
	assert.ErrorIs(t, repo.Retrieve(ctx, testTopic, testParams).Err, ErrStorageRead)
	assert.Empty(t, repo.ListAll(ctx))
}

func TestEveryOperation_ReleasesItsConnection(t *testing.T) {
	ctx := context.Background()
	repo := createTestRepository(t)

	var opened []*gorm.DB
	repo.open = func(cfg sqlite.Config) (*gorm.DB, error) {
		db, err := sqlite.Open(cfg)
		if err == nil {
			opened = append(opened, db)
		}
		return db, err
	}

	require.NoError(t, repo.Initialize(ctx))
	repo.SchemaExists(ctx)
	repo.Save(ctx, testTopic, testParams, "x")
	repo.Retrieve(ctx, testTopic, testParams)
	repo.Retrieve(ctx, "UNKNOWN", "x")
	repo.Update(ctx, testTopic, testParams, "y")
	repo.Update(ctx, "UNKNOWN", "x", "y")
	repo.ListAll(ctx)
	repo.Delete(ctx, testTopic, testParams)
	repo.Delete(ctx, testTopic, testParams)
	repo.Save(ctx, "", "", "invalid never opens")

	require.Len(t, opened, 10)
	for i, db := range opened {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.Error(t, sqlDB.Ping(), "connection %d left open", i)
	}
}

func TestOpenFailure_IsWrapped(t *testing.T) {
	repo := createTestRepository(t)
	boom := errors.New("boom")
	repo.open = func(sqlite.Config) (*gorm.DB, error) { return nil, boom }

	res := repo.Retrieve(context.Background(), testTopic, testParams)
	assert.ErrorIs(t, res.Err, ErrStorageRead)
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, "An error occurred while retrieving the content.", res.Message())

	res = repo.Delete(context.Background(), testTopic, testParams)
	assert.ErrorIs(t, res.Err, ErrStorageWrite)
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, "An error occurred while deleting the content.", res.Message())

	err := repo.Initialize(context.Background())
	assert.ErrorIs(t, err, ErrStorageInit)
	assert.ErrorIs(t, err, boom)
}

func TestResultMessage(t *testing.T) {
	assert.Equal(t, "Content updated successfully.", Result{Outcome: OutcomeUpdated}.Message())
	assert.Equal(t, "Content deleted successfully.", Result{Outcome: OutcomeDeleted}.Message())
	assert.Equal(t, "Topic and parameters are required.", failed(OpSave, ErrInvalidRecord).Message())
	assert.Equal(t, "An error occurred while saving the content.", failed(OpSave, ErrStorageWrite).Message())
	assert.Equal(t, "An error occurred while updating the content.", failed(OpUpdate, ErrStorageWrite).Message())
	assert.Equal(t, "An error occurred while accessing the stored content.", Result{Outcome: OutcomeFailed}.Message())
	assert.Equal(t, "No content found for the given topic and parameters.", Result{Op: OpRetrieve, Outcome: OutcomeNotFound}.Message())
	assert.Equal(t, "No matching content found to update.", Result{Op: OpUpdate, Outcome: OutcomeNotFound}.Message())
	assert.Equal(t, "No content found to delete for the given topic and parameters.", Result{Op: OpDelete, Outcome: OutcomeNotFound}.Message())
}
