package agent

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	pb "github.com/nacre-sh/nacre/proto/agent"
)

// stubService answers SendMessage from a configurable handler.
type stubService struct {
	pb.UnimplementedAgentServiceServer
	calls   atomic.Int32
	handler func(*pb.ChatRequest) (*pb.ChatResponse, error)
}

func (s *stubService) SendMessage(ctx context.Context, req *pb.ChatRequest) (*pb.ChatResponse, error) {
	s.calls.Add(1)
	return s.handler(req)
}

func startStub(t *testing.T, svc *stubService) DialFunc {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	pb.RegisterAgentServiceServer(srv, svc)
	go srv.Serve(lis)
	t.Cleanup(func() {
		srv.Stop()
		lis.Close()
	})
	return func(ctx context.Context, addr string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}
}

func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		BaseDelay:      10 * time.Millisecond,
		ConnectTimeout: time.Second,
		RequestTimeout: time.Second,
	}
}

func TestSendSuccess(t *testing.T) {
	svc := &stubService{handler: func(req *pb.ChatRequest) (*pb.ChatResponse, error) {
		assert.Equal(t, "how do I list files?", req.GetMessage())
		assert.Equal(t, []string{"cwd: /tmp"}, req.GetContext())
		return &pb.ChatResponse{
			Message:           "use ls",
			AgentTag:          "general",
			ExtractedCommands: []string{"ls -la"},
		}, nil
	}}

	c := NewClient("bufnet", testPolicy(), nil)
	c.dialer = startStub(t, svc)
	defer c.Close()

	resp, err := c.Send(context.Background(), "how do I list files?", []string{"cwd: /tmp"})
	require.NoError(t, err)
	assert.Equal(t, "use ls", resp.Message)
	assert.Equal(t, "general", resp.AgentTag)
	assert.Equal(t, []string{"ls -la"}, resp.Commands)
	assert.True(t, c.Connected())
}

func TestSendRetriesWithBackoffThenExhausts(t *testing.T) {
	svc := &stubService{handler: func(req *pb.ChatRequest) (*pb.ChatResponse, error) {
		return nil, status.Error(codes.Unavailable, "service down")
	}}

	policy := testPolicy()
	c := NewClient("bufnet", policy, nil)
	c.dialer = startStub(t, svc)
	defer c.Close()

	start := time.Now()
	_, err := c.Send(context.Background(), "hello", nil)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	// The last transport failure stays inspectable through the chain.
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Equal(t, int32(4), svc.calls.Load(), "initial attempt plus three retries")
	// Backoff lower bound: base*(1+2+4).
	assert.GreaterOrEqual(t, elapsed, 7*policy.BaseDelay)
	// A failed call never leaves a cached connection behind.
	assert.False(t, c.Connected())
}

func TestSendRecoversMidRetry(t *testing.T) {
	svc := &stubService{}
	svc.handler = func(req *pb.ChatRequest) (*pb.ChatResponse, error) {
		if svc.calls.Load() < 3 {
			return nil, status.Error(codes.Unavailable, "warming up")
		}
		return &pb.ChatResponse{Message: "ready now", AgentTag: "general"}, nil
	}

	c := NewClient("bufnet", testPolicy(), nil)
	c.dialer = startStub(t, svc)
	defer c.Close()

	resp, err := c.Send(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "ready now", resp.Message)
	assert.Equal(t, int32(3), svc.calls.Load())
}

func TestSendConnectFailure(t *testing.T) {
	policy := testPolicy()
	policy.MaxRetries = 1
	policy.ConnectTimeout = 50 * time.Millisecond

	c := NewClient("bufnet", policy, nil)
	c.dialer = func(ctx context.Context, addr string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}
	defer c.Close()

	_, err := c.Send(context.Background(), "hello", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.False(t, c.Connected())
}

func TestSendHonorsContextCancellation(t *testing.T) {
	svc := &stubService{handler: func(req *pb.ChatRequest) (*pb.ChatResponse, error) {
		return nil, status.Error(codes.Unavailable, "down")
	}}

	policy := testPolicy()
	policy.BaseDelay = time.Minute
	c := NewClient("bufnet", policy, nil)
	c.dialer = startStub(t, svc)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := c.Send(ctx, "hello", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
