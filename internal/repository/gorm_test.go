package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/stackfold/pkg/errors"
	"github.com/stackfold/pkg/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&ConversionRunRecord{}))
	return db
}

func testRun(input string, createdAt time.Time) *model.ConversionRun {
	return &model.ConversionRun{
		InputFile:    input,
		Format:       model.FormatHPL,
		Flags:        "--discard-lineno",
		UniqueStacks: 5,
		TotalSamples: 42,
		Skipped:      1,
		DurationMs:   13,
		CreatedAt:    createdAt,
	}
}

func TestGormRunRepository_SaveAndList(t *testing.T) {
	repo := NewGormRunRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := testRun("a.hpl", base)
	second := testRun("b.hpl", base.Add(time.Minute))

	require.NoError(t, repo.SaveRun(ctx, first))
	require.NoError(t, repo.SaveRun(ctx, second))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	runs, err := repo.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b.hpl", runs[0].InputFile, "newest first")
	assert.Equal(t, model.FormatHPL, runs[0].Format)
	assert.Equal(t, int64(42), runs[0].TotalSamples)
}

func TestGormRunRepository_RecentRunsLimit(t *testing.T) {
	repo := NewGormRunRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveRun(ctx, testRun("a.hpl", base.Add(time.Duration(i)*time.Second))))
	}

	runs, err := repo.RecentRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestGormRunRepository_RunsForInput(t *testing.T) {
	repo := NewGormRunRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveRun(ctx, testRun("a.hpl", base)))
	require.NoError(t, repo.SaveRun(ctx, testRun("b.hpl", base)))

	runs, err := repo.RunsForInput(ctx, "a.hpl")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a.hpl", runs[0].InputFile)

	runs, err = repo.RunsForInput(ctx, "missing.hpl")
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestGormRunRepository_SaveRunDatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormRunRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `conversion_runs`").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	err := repo.SaveRun(context.Background(), testRun("a.hpl", time.Now()))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRunRepository_RecentRunsQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormRunRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `conversion_runs`").
		WillReturnError(errors.New("table gone"))

	_, err := repo.RecentRuns(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetErrorCode(err))
}
