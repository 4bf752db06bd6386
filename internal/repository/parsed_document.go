package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/courtdocs/internal/common"
	"github.com/joseph-ayodele/courtdocs/internal/parser"
)

// ParsedDocumentRecord is one row of parsed_document. Payload holds the
// parsed_document.json body; the other columns are projections for querying.
type ParsedDocumentRecord struct {
	DocumentID     string
	JobID          uuid.UUID
	CaseForm       *string
	DecisionStatus *string
	IssueDate      *string
	CourtLocation  *string
	PartiesTotal   int
	Payload        []byte
	UpdatedAt      time.Time
}

// Document decodes the stored payload.
func (r *ParsedDocumentRecord) Document() (*parser.ParsedDocument, error) {
	var doc parser.ParsedDocument
	if err := json.Unmarshal(r.Payload, &doc); err != nil {
		return nil, fmt.Errorf("decode parsed_document %s: %w", r.DocumentID, err)
	}
	return &doc, nil
}

type ParsedDocumentRepository interface {
	Upsert(ctx context.Context, documentID string, jobID uuid.UUID, doc *parser.ParsedDocument) error
	Get(ctx context.Context, documentID string) (*ParsedDocumentRecord, error)
	List(ctx context.Context) ([]*ParsedDocumentRecord, error)
}

type parsedDocumentRepo struct {
	db  *DB
	log *slog.Logger
}

func NewParsedDocumentRepository(db *DB, log *slog.Logger) ParsedDocumentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &parsedDocumentRepo{db: db, log: log}
}

var parsedDocumentSelect = []string{
	"document_id", "job_id", "case_form", "decision_status", "issue_date",
	"court_location", "parties_total", "payload", "updated_at",
}

func (r *parsedDocumentRepo) Upsert(ctx context.Context, documentID string, jobID uuid.UUID, doc *parser.ParsedDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode parsed_document %s: %w", documentID, err)
	}
	query, args := entsql.Dialect(r.db.Dialect()).
		Insert(ParsedDocumentTable.Name).
		Columns(parsedDocumentSelect...).
		Values(
			documentID,
			jobID.String(),
			nullValue(doc.CaseForm),
			nullValue(doc.DocumentDecisionStatus),
			nullValue(doc.DocumentIssueDate),
			nullValue(doc.CourtLocation),
			doc.CasePartiesInfo.Total,
			string(payload),
			time.Now().UTC(),
		).
		OnConflict(entsql.ConflictColumns("document_id"), entsql.ResolveWithNewValues()).
		Query()
	if err := r.db.Driver.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("parsed_document upsert failed", "document_id", documentID, "err", err)
		return fmt.Errorf("%w: upsert parsed_document: %v", common.ErrDatabase, err)
	}
	r.log.Info("parsed_document upserted", "document_id", documentID, "job_id", jobID)
	return nil
}

func (r *parsedDocumentRepo) Get(ctx context.Context, documentID string) (*ParsedDocumentRecord, error) {
	sel := entsql.Dialect(r.db.Dialect()).
		Select(parsedDocumentSelect...).
		From(entsql.Table(ParsedDocumentTable.Name)).
		Where(entsql.EQ("document_id", documentID)).
		Limit(1)
	records, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parsed_document %s: %w", documentID, common.ErrNotFound)
	}
	return records[0], nil
}

func (r *parsedDocumentRepo) List(ctx context.Context) ([]*ParsedDocumentRecord, error) {
	sel := entsql.Dialect(r.db.Dialect()).
		Select(parsedDocumentSelect...).
		From(entsql.Table(ParsedDocumentTable.Name)).
		OrderBy("document_id")
	return r.query(ctx, sel)
}

func (r *parsedDocumentRepo) query(ctx context.Context, sel *entsql.Selector) ([]*ParsedDocumentRecord, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.db.Driver.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("%w: select parsed_document: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*ParsedDocumentRecord
	for rows.Next() {
		var (
			rec                                ParsedDocumentRecord
			jobID, payload                     string
			caseForm, status, issued, location sql.NullString
		)
		if err := rows.Scan(&rec.DocumentID, &jobID, &caseForm, &status, &issued, &location, &rec.PartiesTotal, &payload, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan parsed_document: %v", common.ErrDatabase, err)
		}
		id, err := uuid.Parse(jobID)
		if err != nil {
			return nil, fmt.Errorf("%w: parsed_document %s job id: %v", common.ErrDatabase, rec.DocumentID, err)
		}
		rec.JobID = id
		rec.CaseForm = nullable(caseForm)
		rec.DecisionStatus = nullable(status)
		rec.IssueDate = nullable(issued)
		rec.CourtLocation = nullable(location)
		rec.Payload = []byte(payload)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate parsed_document: %v", common.ErrDatabase, err)
	}
	return out, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
