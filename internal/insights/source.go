package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/parser"
	"github.com/joseph-ayodele/courtdocs/internal/repository"
	"github.com/joseph-ayodele/courtdocs/internal/storage"
)

// RepositorySource reads documents from the parsed_document table.
type RepositorySource struct {
	Repo repository.ParsedDocumentRepository
}

func (s RepositorySource) ParsedDocuments(ctx context.Context) ([]*parser.ParsedDocument, error) {
	recs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]*parser.ParsedDocument, 0, len(recs))
	for _, rec := range recs {
		d, err := rec.Document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// StorageSource reads every parsed_document.json artifact from storage.
type StorageSource struct {
	Store storage.Storage
}

func (s StorageSource) ParsedDocuments(ctx context.Context) ([]*parser.ParsedDocument, error) {
	keys, err := s.Store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var docs []*parser.ParsedDocument
	for _, key := range keys {
		if path.Base(key) != constants.ArtifactParsedDocument {
			continue
		}
		data, err := s.Store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			continue
		}
		var d parser.ParsedDocument
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		docs = append(docs, &d)
	}
	return docs, nil
}
