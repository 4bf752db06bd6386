package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ParserServiceName          = "courtdocs.v1.ParserService"
	ParseDocumentMethod        = "/" + ParserServiceName + "/ParseDocument"
	GetParsedDocumentMethod    = "/" + ParserServiceName + "/GetParsedDocument"
	parserServiceProtoMetadata = "courtdocs/v1/parser.proto"
)

// ParserServiceServer parses court decisions. Requests carry a source path
// (ParseDocument) or a document id (GetParsedDocument) and responses carry
// the parsed_document.json object.
type ParserServiceServer interface {
	ParseDocument(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetParsedDocument(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterParserServiceServer(s grpc.ServiceRegistrar, srv ParserServiceServer) {
	s.RegisterService(&ParserServiceDesc, srv)
}

var ParserServiceDesc = grpc.ServiceDesc{
	ServiceName: ParserServiceName,
	HandlerType: (*ParserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ParseDocument", Handler: parseDocumentHandler},
		{MethodName: "GetParsedDocument", Handler: getParsedDocumentHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: parserServiceProtoMetadata,
}

func parseDocumentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ParserServiceServer).ParseDocument(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ParseDocumentMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ParserServiceServer).ParseDocument(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getParsedDocumentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ParserServiceServer).GetParsedDocument(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetParsedDocumentMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ParserServiceServer).GetParsedDocument(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ParserServiceClient calls ParserService over a client connection.
type ParserServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewParserServiceClient(cc grpc.ClientConnInterface) *ParserServiceClient {
	return &ParserServiceClient{cc: cc}
}

func (c *ParserServiceClient) ParseDocument(ctx context.Context, path string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ParseDocumentMethod, wrapperspb.String(path), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ParserServiceClient) GetParsedDocument(ctx context.Context, documentID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetParsedDocumentMethod, wrapperspb.String(documentID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
