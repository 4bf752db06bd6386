package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/common"
	"github.com/joseph-ayodele/courtdocs/internal/pipeline"
	"github.com/joseph-ayodele/courtdocs/internal/repository"
)

// FileProcessor parses one source file.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (*pipeline.Result, error)
}

type ParserService struct {
	processor FileProcessor
	docs      repository.ParsedDocumentRepository
	inputRoot string
	logger    *slog.Logger
}

// NewParserService serves documents found under inputRoot. docs may be nil,
// in which case GetParsedDocument is unavailable.
func NewParserService(proc FileProcessor, docs repository.ParsedDocumentRepository, inputRoot string, logger *slog.Logger) *ParserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserService{processor: proc, docs: docs, inputRoot: inputRoot, logger: logger}
}

// ParseDocument implements ParserServiceServer
func (s *ParserService) ParseDocument(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	rel := strings.TrimSpace(req.GetValue())
	if rel == "" {
		s.logger.Error("parse request missing path")
		return nil, status.Error(codes.InvalidArgument, "path is required")
	}
	if _, ok := constants.AllowedExtensions[constants.NormalizeExt(filepath.Ext(rel))]; !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unsupported file type: %s", filepath.Ext(rel))
	}
	// Clean against a virtual root so ".." cannot leave inputRoot.
	path := filepath.Join(s.inputRoot, filepath.Clean(string(filepath.Separator)+rel))

	s.logger.Info("starting document parse", "path", path)
	res, err := s.processor.ProcessFile(ctx, path)
	if err != nil {
		s.logger.Error("document parse failed", "path", path, "error", err)
		return nil, common.ToStatus(err)
	}
	out, err := toStruct(res.Document)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode parsed document")
	}
	s.logger.Info("document parse completed", "path", path, "document_id", res.DocumentID, "job_id", res.JobID)
	return out, nil
}

// GetParsedDocument implements ParserServiceServer
func (s *ParserService) GetParsedDocument(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if s.docs == nil {
		return nil, status.Error(codes.Unimplemented, "parsed document store is not configured")
	}
	id := strings.TrimSpace(req.GetValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "document id is required")
	}
	rec, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	var m map[string]any
	if err := json.Unmarshal(rec.Payload, &m); err != nil {
		return nil, status.Error(codes.DataLoss, "stored document is not valid JSON")
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode parsed document")
	}
	return out, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// NewGRPCServer registers ParserService together with health and reflection.
func NewGRPCServer(svc ParserServiceServer, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(opts...)
	// Health service
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ParserServiceName, healthpb.HealthCheckResponse_SERVING)
	// Reflection for grpcurl
	reflection.Register(grpcServer)

	RegisterParserServiceServer(grpcServer, svc)
	return grpcServer, hs
}
