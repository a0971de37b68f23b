package sentry

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/pulse-sentry/internal/domain/alert"
	"github.com/oshokin/pulse-sentry/internal/logger"
	"github.com/oshokin/pulse-sentry/internal/service/peer"
	"github.com/oshokin/pulse-sentry/internal/version"
)

// Request field names.
const (
	FieldSender    = "sender"
	FieldCommand   = "command"
	FieldFeature   = "feature"
	FieldKey       = "key"
	FieldValue     = "value"
	FieldConfirmed = "confirmed"
)

// Service abstracts the peer operations the transport layer depends on.
type Service interface {
	Execute(ctx context.Context, sender, command string) (*peer.Result, error)
	ApplyFeature(ctx context.Context, name string, entry map[string]any) error
	GetKey(ctx context.Context, key string, confirmed bool) ([]byte, error)
}

// Server implements PulseSentryService on top of a Service.
type Server struct {
	// service runs transactions and store reads.
	service Service
}

var _ ServiceServer = (*Server)(nil)

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Execute runs one command and returns its result record.
func (s *Server) Execute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	command := stringField(req, FieldCommand)
	if command == "" {
		return nil, status.Error(codes.InvalidArgument, "command is required")
	}

	result, err := s.service.Execute(ctx, stringField(req, FieldSender), command)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return toStruct(result)
}

// ApplyFeature applies one {key, value} entry to the named feature.
func (s *Server) ApplyFeature(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	name := stringField(req, FieldFeature)
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "feature is required")
	}

	entry := req.AsMap()
	delete(entry, FieldFeature)

	if err := s.service.ApplyFeature(ctx, name, entry); err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(emptypb.Empty), nil
}

// GetKey returns a raw store value, or null when the key is absent.
func (s *Server) GetKey(ctx context.Context, req *structpb.Struct) (*structpb.Value, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	key := stringField(req, FieldKey)
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}

	confirmed := req.GetFields()[FieldConfirmed].GetBoolValue()

	raw, err := s.service.GetKey(ctx, key, confirmed)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	if raw == nil {
		return structpb.NewNullValue(), nil
	}

	value := new(structpb.Value)
	if err = protojson.Unmarshal(raw, value); err != nil {
		logger.ErrorKV(ctx, "Stored value is not JSON", "key", key, "error", err)

		return nil, status.Error(codes.DataLoss, "stored value is not valid JSON")
	}

	return value, nil
}

// AppInfo returns the application descriptor.
func (s *Server) AppInfo(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(version.Info())
}

// stringField returns a string field of the request or "".
func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// toStruct converts any JSON-encodable value to a protobuf Struct.
func toStruct(value any) (*structpb.Struct, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode response")
	}

	out := new(structpb.Struct)
	if err = protojson.Unmarshal(data, out); err != nil {
		return nil, status.Error(codes.Internal, "unable to encode response")
	}

	return out, nil
}

// toStatus maps domain errors onto gRPC status codes.
func toStatus(ctx context.Context, err error) error {
	var code codes.Code

	switch {
	case errors.Is(err, alert.ErrValidation),
		errors.Is(err, alert.ErrMissingSender),
		errors.Is(err, peer.ErrUnknownCommand):
		code = codes.InvalidArgument
	case errors.Is(err, alert.ErrNotFound),
		errors.Is(err, peer.ErrUnknownFeature):
		code = codes.NotFound
	case errors.Is(err, alert.ErrAlreadyExists):
		code = codes.AlreadyExists
	case errors.Is(err, alert.ErrInvalidTransition):
		code = codes.FailedPrecondition
	case errors.Is(err, alert.ErrUnauthorized):
		code = codes.PermissionDenied
	default:
		logger.ErrorKV(ctx, "Transaction failed", "error", err)

		return status.Error(codes.Internal, "unable to apply transaction")
	}

	return status.Error(code, err.Error())
}
