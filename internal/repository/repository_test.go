package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/common"
	"github.com/joseph-ayodele/courtdocs/internal/parser"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := common.DatabaseConfig{
		DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString()),
	}
	db, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(nil) })
	require.NoError(t, Migrate(context.Background(), db, nil))
	return db
}

func strPtr(s string) *string { return &s }

func TestOpen_HealthCheck(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.HealthCheck(context.Background(), 0, nil))
	assert.Equal(t, "sqlite3", db.Dialect())
}

func TestParseJobRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewParseJobRepository(openTestDB(t), nil)

	job, err := repo.Start(ctx, "17", "/data/raw/17.txt", "TXT")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusRunning, job.Status)

	got, err := repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, "17", got.DocumentID)
	assert.Equal(t, "/data/raw/17.txt", got.SourcePath)
	assert.Nil(t, got.FinishedAt)
	assert.Nil(t, got.ErrorMessage)

	require.NoError(t, repo.FinishSuccess(ctx, job.ID))
	got, err = repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusParsed, got.Status)
	assert.NotNil(t, got.FinishedAt)

	failed, err := repo.Start(ctx, "18", "/data/raw/18.pdf", "PDF")
	require.NoError(t, err)
	require.NoError(t, repo.FinishFailure(ctx, failed.ID, "tagger unavailable"))
	got, err = repo.Get(ctx, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "tagger unavailable", *got.ErrorMessage)
}

func TestParseJobRepository_UnknownJob(t *testing.T) {
	ctx := context.Background()
	repo := NewParseJobRepository(openTestDB(t), nil)

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, repo.FinishSuccess(ctx, uuid.New()), common.ErrNotFound)
}

func TestParsedDocumentRepository_UpsertGetList(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	jobs := NewParseJobRepository(db, nil)
	docs := NewParsedDocumentRepository(db, nil)

	first, err := jobs.Start(ctx, "2", "/raw/2.txt", "TXT")
	require.NoError(t, err)

	doc := &parser.ParsedDocument{
		DocumentIssueDate:           strPtr("12 березня 2021 року"),
		DocumentRegulatoryFramework: []string{},
		CaseForm:                    strPtr("вирок"),
		CasePartiesInfo:             parser.CasePartiesInfo{Total: 2, Parties: []parser.CaseParty{{Name: "ОСОБА_1"}, {Name: "ОСОБА_2"}}},
	}
	require.NoError(t, docs.Upsert(ctx, "2", first.ID, doc))

	rec, err := docs.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, rec.JobID)
	assert.Equal(t, strPtr("вирок"), rec.CaseForm)
	assert.Nil(t, rec.DecisionStatus)
	assert.Nil(t, rec.CourtLocation)
	assert.Equal(t, 2, rec.PartiesTotal)

	decoded, err := rec.Document()
	require.NoError(t, err)
	assert.Equal(t, doc.CasePartiesInfo, decoded.CasePartiesInfo)

	second, err := jobs.Start(ctx, "2", "/raw/2.txt", "TXT")
	require.NoError(t, err)
	doc.DocumentDecisionStatus = strPtr(constants.DecisionRejected)
	require.NoError(t, docs.Upsert(ctx, "2", second.ID, doc))

	other, err := jobs.Start(ctx, "1", "/raw/1.txt", "TXT")
	require.NoError(t, err)
	require.NoError(t, docs.Upsert(ctx, "1", other.ID, &parser.ParsedDocument{DocumentRegulatoryFramework: []string{}}))

	all, err := docs.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].DocumentID)
	assert.Equal(t, "2", all[1].DocumentID)
	assert.Equal(t, second.ID, all[1].JobID)
	assert.Equal(t, strPtr(constants.DecisionRejected), all[1].DecisionStatus)

	_, err = docs.Get(ctx, "404")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
