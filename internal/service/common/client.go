//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/pulse-sentry/internal/api/grpc/sentry"
	"github.com/oshokin/pulse-sentry/internal/config"
)

// Client wraps the PulseSentryService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the server.
	conn *grpc.ClientConn
	// api is the PulseSentryService client stub.
	api *api.ServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// dialOptions are appended to the transport defaults.
	dialOptions []grpc.DialOption
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithDialOptions passes extra options to grpc.NewClient.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errCommandRequired is returned when an empty command is submitted.
	errCommandRequired = errors.New("command must be provided")
	// errKeyRequired is returned when a key-based call has no key.
	errKeyRequired = errors.New("key must be provided")
)

// Dial establishes a gRPC connection to the pulse-sentry server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := append(
		[]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
		client.dialOptions...,
	)

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial pulse-sentry server: %w", err)
	}

	client.conn = conn
	client.api = api.NewServiceClient(conn)

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Execute submits one command on behalf of sender and returns the result record.
func (c *Client) Execute(ctx context.Context, sender, command string) (*structpb.Struct, error) {
	if command == "" {
		return nil, errCommandRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			api.FieldSender:  structpb.NewStringValue(sender),
			api.FieldCommand: structpb.NewStringValue(command),
		},
	}

	response, err := c.api.Execute(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}

	return response, nil
}

// ApplyFeature submits a {key, value} entry to the named feature.
func (c *Client) ApplyFeature(ctx context.Context, feature, key string, value any) error {
	if key == "" {
		return errKeyRequired
	}

	encoded, err := structpb.NewValue(value)
	if err != nil {
		return fmt.Errorf("encode feature value: %w", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			api.FieldFeature: structpb.NewStringValue(feature),
			api.FieldKey:     structpb.NewStringValue(key),
			api.FieldValue:   encoded,
		},
	}

	if _, err = c.api.ApplyFeature(callCtx, request); err != nil {
		return fmt.Errorf("apply feature %s: %w", feature, err)
	}

	return nil
}

// GetKey reads a raw store value. Absent keys come back as a null value.
func (c *Client) GetKey(ctx context.Context, key string, confirmed bool) (*structpb.Value, error) {
	if key == "" {
		return nil, errKeyRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	request := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			api.FieldKey:       structpb.NewStringValue(key),
			api.FieldConfirmed: structpb.NewBoolValue(confirmed),
		},
	}

	value, err := c.api.GetKey(callCtx, request)
	if err != nil {
		return nil, fmt.Errorf("get key %s: %w", key, err)
	}

	return value, nil
}

// AppInfo returns the server's application descriptor.
func (c *Client) AppInfo(ctx context.Context) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	info, err := c.api.AppInfo(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("app info: %w", err)
	}

	return info, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
