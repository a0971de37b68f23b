package sentry

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/pulse-sentry/internal/repository/kv"
	"github.com/oshokin/pulse-sentry/internal/service/peer"
	"github.com/oshokin/pulse-sentry/internal/version"
)

const bufSize = 1 << 20

// newStructRequest builds a Struct request or fails the test.
func newStructRequest(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()

	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)

	return req
}

// startBufconn serves a peer-backed Server over an in-memory listener.
func startBufconn(t *testing.T) *ServiceClient {
	t.Helper()

	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer()
	RegisterServiceServer(server, NewServer(peer.New(kv.NewMemoryStore())))

	go func() {
		_ = server.Serve(listener)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()

		server.Stop()
	})

	return NewServiceClient(conn)
}

// execute sends a command over the client.
func execute(t *testing.T, client *ServiceClient, sender, command string) (*structpb.Struct, error) {
	t.Helper()

	return client.Execute(context.Background(), newStructRequest(t, map[string]any{
		FieldSender:  sender,
		FieldCommand: command,
	}))
}

// TestServer_ExecuteValidation ensures malformed requests return InvalidArgument.
func TestServer_ExecuteValidation(t *testing.T) {
	t.Parallel()

	s := NewServer(peer.New(kv.NewMemoryStore()))

	_, err := s.Execute(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.Execute(context.Background(), new(structpb.Struct))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.GetKey(context.Background(), new(structpb.Struct))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.ApplyFeature(context.Background(), new(structpb.Struct))
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestServer_Lifecycle runs raise, ack and resolve over bufconn.
func TestServer_Lifecycle(t *testing.T) {
	t.Parallel()

	client := startBufconn(t)

	resp, err := execute(t, client, "trac1peerx",
		`{"op":"alert_raise","alertId":"a1","title":"Indexer lag","severity":"high","message":"lag","tags":["ops"]}`)
	require.NoError(t, err)
	require.Equal(t, "alert_raise", resp.GetFields()["op"].GetStringValue())
	require.Equal(t, peer.StatusOK, resp.GetFields()["status"].GetStringValue())

	payload := resp.GetFields()["payload"].GetStructValue()
	require.Equal(t, "open", payload.GetFields()["status"].GetStringValue())
	require.Equal(t, "trac1peerx", payload.GetFields()["raisedBy"].GetStringValue())

	_, err = execute(t, client, "trac1peery", `{"op":"alert_ack","alertId":"a1"}`)
	require.NoError(t, err)

	resp, err = execute(t, client, "trac1peery", `{"op":"alert_resolve","alertId":"a1","resolution":"restarted"}`)
	require.NoError(t, err)

	resolved := resp.GetFields()["payload"].GetStructValue().GetFields()["resolved"].GetStructValue()
	require.Equal(t, "restarted", resolved.GetFields()["resolution"].GetStringValue())

	resp, err = execute(t, client, "", "alert_read:nope")
	require.NoError(t, err)

	_, isNull := resp.GetFields()["payload"].GetKind().(*structpb.Value_NullValue)
	require.True(t, isNull)
}

// TestServer_ErrorCodes maps rejected operations onto gRPC codes.
func TestServer_ErrorCodes(t *testing.T) {
	t.Parallel()

	client := startBufconn(t)

	_, err := execute(t, client, "trac1peerx",
		`{"op":"alert_raise","alertId":"a1","title":"Indexer lag","severity":"high","message":"lag"}`)
	require.NoError(t, err)

	tests := []struct {
		name    string
		sender  string
		command string
		want    codes.Code
	}{
		{
			name:    "unknown command",
			sender:  "trac1peerx",
			command: "hello",
			want:    codes.InvalidArgument,
		},
		{
			name:    "validation",
			sender:  "trac1peerx",
			command: `{"op":"alert_raise","alertId":"a2","title":"x","severity":"high","message":"m"}`,
			want:    codes.InvalidArgument,
		},
		{
			name:    "already exists",
			sender:  "trac1peerx",
			command: `{"op":"alert_raise","alertId":"a1","title":"Indexer lag","severity":"high","message":"lag"}`,
			want:    codes.AlreadyExists,
		},
		{
			name:    "not found",
			sender:  "trac1peerx",
			command: `{"op":"alert_ack","alertId":"ghost"}`,
			want:    codes.NotFound,
		},
		{
			name:    "unauthorized",
			sender:  "trac1peerz",
			command: `{"op":"alert_resolve","alertId":"a1"}`,
			want:    codes.PermissionDenied,
		},
	}

	for _, tt := range tests {
		_, err = execute(t, client, tt.sender, tt.command)
		require.Equal(t, tt.want, status.Code(err), tt.name)
	}

	_, err = execute(t, client, "trac1peerx", `{"op":"alert_resolve","alertId":"a1"}`)
	require.NoError(t, err)

	_, err = execute(t, client, "trac1peerx", `{"op":"alert_ack","alertId":"a1"}`)
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

// TestServer_FeatureAndGetKey sets the timer and reads keys back.
func TestServer_FeatureAndGetKey(t *testing.T) {
	t.Parallel()

	client := startBufconn(t)
	ctx := context.Background()

	value, err := client.GetKey(ctx, newStructRequest(t, map[string]any{FieldKey: "currentTime"}))
	require.NoError(t, err)

	_, isNull := value.GetKind().(*structpb.Value_NullValue)
	require.True(t, isNull)

	_, err = client.ApplyFeature(ctx, newStructRequest(t, map[string]any{
		FieldFeature: "nope",
		FieldKey:     "currentTime",
	}))
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.ApplyFeature(ctx, newStructRequest(t, map[string]any{
		FieldFeature: "timer_feature",
		FieldKey:     "currentTime",
		FieldValue:   1700000000000,
	}))
	require.NoError(t, err)

	value, err = client.GetKey(ctx, newStructRequest(t, map[string]any{
		FieldKey:       "currentTime",
		FieldConfirmed: true,
	}))
	require.NoError(t, err)
	require.InDelta(t, 1700000000000, value.GetNumberValue(), 0)

	resp, err := execute(t, client, "", "read_timer")
	require.NoError(t, err)
	require.InDelta(t, 1700000000000, resp.GetFields()["payload"].GetNumberValue(), 0)
}

// TestServer_AppInfo reports the application descriptor.
func TestServer_AppInfo(t *testing.T) {
	t.Parallel()

	client := startBufconn(t)

	info, err := client.AppInfo(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)
	require.Equal(t, version.AppName, info.GetFields()["app"].GetStringValue())
	require.Equal(t, version.AppDescription, info.GetFields()["description"].GetStringValue())
	require.InDelta(t, version.ProtocolVersion, info.GetFields()["version"].GetNumberValue(), 0)
}
