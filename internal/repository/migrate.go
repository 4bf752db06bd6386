package repository

import (
	"context"
	"log/slog"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	parseJobColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "document_id", Type: field.TypeString},
		{Name: "source_path", Type: field.TypeString},
		{Name: "format", Type: field.TypeEnum, Enums: []string{"PDF", "TXT"}},
		{Name: "status", Type: field.TypeString},
		{Name: "error_message", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "finished_at", Type: field.TypeTime, Nullable: true},
	}
	// ParseJobTable records every attempt to parse a source document.
	ParseJobTable = &schema.Table{
		Name:       "parse_job",
		Columns:    parseJobColumns,
		PrimaryKey: []*schema.Column{parseJobColumns[0]},
		Indexes: []*schema.Index{
			{Name: "parsejob_document_id_started_at", Columns: []*schema.Column{parseJobColumns[1], parseJobColumns[6]}},
			{Name: "parsejob_status", Columns: []*schema.Column{parseJobColumns[4]}},
		},
	}

	parsedDocumentColumns = []*schema.Column{
		{Name: "document_id", Type: field.TypeString},
		{Name: "job_id", Type: field.TypeUUID},
		{Name: "case_form", Type: field.TypeString, Nullable: true},
		{Name: "decision_status", Type: field.TypeString, Nullable: true},
		{Name: "issue_date", Type: field.TypeString, Nullable: true},
		{Name: "court_location", Type: field.TypeString, Nullable: true},
		{Name: "parties_total", Type: field.TypeInt},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ParsedDocumentTable keeps the latest committed parse per document.
	ParsedDocumentTable = &schema.Table{
		Name:       "parsed_document",
		Columns:    parsedDocumentColumns,
		PrimaryKey: []*schema.Column{parsedDocumentColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "parsed_document_parse_job_job",
				Columns:    []*schema.Column{parsedDocumentColumns[1]},
				RefColumns: []*schema.Column{parseJobColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
	}

	// Tables lists every table owned by the repository layer.
	Tables = []*schema.Table{ParseJobTable, ParsedDocumentTable}
)

func init() {
	ParsedDocumentTable.ForeignKeys[0].RefTable = ParseJobTable
}

// Migrate creates or updates the tables on the connected database.
func Migrate(ctx context.Context, db *DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	m, err := schema.NewMigrate(db.Driver)
	if err != nil {
		logger.Error("migration setup failed", "error", err)
		return err
	}
	if err := m.Create(ctx, Tables...); err != nil {
		logger.Error("migration failed", "error", err)
		return err
	}
	logger.Info("database schema up to date", "tables", len(Tables))
	return nil
}
