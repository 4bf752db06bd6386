package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/common"
)

// ParseJob is one row of parse_job.
type ParseJob struct {
	ID           uuid.UUID
	DocumentID   string
	SourcePath   string
	Format       string
	Status       constants.JobStatus
	ErrorMessage *string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

type ParseJobRepository interface {
	Start(ctx context.Context, documentID, sourcePath, format string) (*ParseJob, error)
	FinishSuccess(ctx context.Context, jobID uuid.UUID) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	Get(ctx context.Context, jobID uuid.UUID) (*ParseJob, error)
}

type parseJobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewParseJobRepository(db *DB, log *slog.Logger) ParseJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &parseJobRepo{db: db, log: log}
}

func (r *parseJobRepo) Start(ctx context.Context, documentID, sourcePath, format string) (*ParseJob, error) {
	job := &ParseJob{
		ID:         uuid.New(),
		DocumentID: documentID,
		SourcePath: sourcePath,
		Format:     format,
		Status:     constants.JobStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	query, args := entsql.Dialect(r.db.Dialect()).
		Insert(ParseJobTable.Name).
		Columns("id", "document_id", "source_path", "format", "status", "started_at").
		Values(job.ID.String(), job.DocumentID, job.SourcePath, job.Format, string(job.Status), job.StartedAt).
		Query()
	if err := r.db.Driver.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("parse_job start failed", "document_id", documentID, "err", err)
		return nil, fmt.Errorf("%w: insert parse_job: %v", common.ErrDatabase, err)
	}
	r.log.Info("parse_job started", "job_id", job.ID, "document_id", documentID, "format", format)
	return job, nil
}

func (r *parseJobRepo) FinishSuccess(ctx context.Context, jobID uuid.UUID) error {
	if err := r.finish(ctx, jobID, constants.JobStatusParsed, nil); err != nil {
		r.log.Error("parse_job finish(OK) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("parse_job finished (PARSED)", "job_id", jobID)
	return nil
}

func (r *parseJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	if err := r.finish(ctx, jobID, constants.JobStatusFailed, &message); err != nil {
		r.log.Error("parse_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("parse_job finished (FAILED)", "job_id", jobID, "error", message)
	return nil
}

func (r *parseJobRepo) finish(ctx context.Context, jobID uuid.UUID, status constants.JobStatus, message *string) error {
	u := entsql.Dialect(r.db.Dialect()).
		Update(ParseJobTable.Name).
		Set("status", string(status)).
		Set("finished_at", time.Now().UTC()).
		Where(entsql.EQ("id", jobID.String()))
	if message != nil {
		u.Set("error_message", *message)
	}
	query, args := u.Query()

	var res sql.Result
	if err := r.db.Driver.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("%w: update parse_job: %v", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("parse_job %s: %w", jobID, common.ErrNotFound)
	}
	return nil
}

func (r *parseJobRepo) Get(ctx context.Context, jobID uuid.UUID) (*ParseJob, error) {
	query, args := entsql.Dialect(r.db.Dialect()).
		Select("id", "document_id", "source_path", "format", "status", "error_message", "started_at", "finished_at").
		From(entsql.Table(ParseJobTable.Name)).
		Where(entsql.EQ("id", jobID.String())).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: select parse_job: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: select parse_job: %v", common.ErrDatabase, err)
		}
		return nil, fmt.Errorf("parse_job %s: %w", jobID, common.ErrNotFound)
	}

	var (
		id, status string
		msg        sql.NullString
		finished   sql.NullTime
		job        ParseJob
	)
	if err := rows.Scan(&id, &job.DocumentID, &job.SourcePath, &job.Format, &status, &msg, &job.StartedAt, &finished); err != nil {
		return nil, fmt.Errorf("%w: scan parse_job: %v", common.ErrDatabase, err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.Join(common.ErrDatabase, err)
	}
	job.ID = parsed
	job.Status = constants.JobStatus(status)
	if msg.Valid {
		job.ErrorMessage = &msg.String
	}
	if finished.Valid {
		job.FinishedAt = &finished.Time
	}
	return &job, nil
}
