package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/nacre-sh/nacre/proto/agent"
)

// ErrExhausted marks a call that failed every retry attempt. The wrapped
// error chain carries the last transport failure.
var ErrExhausted = errors.New("agent: retries exhausted")

// Response is the logical reply from the agent service.
type Response struct {
	Message  string
	AgentTag string
	Commands []string
}

// RetryPolicy bounds connection and request attempts.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// BaseDelay is the wait before the first retry; it doubles per retry.
	BaseDelay time.Duration
	// ConnectTimeout bounds the connection handshake.
	ConnectTimeout time.Duration
	// RequestTimeout bounds one request; generous, the upstream model can
	// be slow.
	RequestTimeout time.Duration
}

// DefaultRetryPolicy returns the standard policy: initial attempt plus
// three retries backed off 1s, 2s, 4s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		BaseDelay:      time.Second,
		ConnectTimeout: 5 * time.Second,
		RequestTimeout: 60 * time.Second,
	}
}

// DialFunc overrides how the underlying connection is established; used by
// tests to dial an in-process server.
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// Client talks to the remote agent service at a host:port address.
//
// Client owns no state beyond its connection handle and is meant for
// one-shot usage from a single worker at a time; it is not safe for
// concurrent Send calls.
type Client struct {
	addr   string
	policy RetryPolicy
	logger *zap.Logger
	dialer DialFunc

	conn   *grpc.ClientConn
	client pb.AgentServiceClient
}

// NewClient creates a client; no connection is made until the first Send.
func NewClient(addr string, policy RetryPolicy, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{addr: addr, policy: policy, logger: logger}
}

// Send delivers one chat message with the given context lines and returns
// the agent's reply. It retries the combined connect+send operation with
// exponential backoff and surfaces the last error, wrapped in ErrExhausted,
// once attempts run out.
func (c *Client) Send(ctx context.Context, message string, contextLines []string) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.policy.BaseDelay << (attempt - 1)
			c.logger.Info("retrying agent call",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.trySend(ctx, message, contextLines)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		c.logger.Warn("agent call failed", zap.Error(err))
		// The handle is suspect after any failure; force a fresh handshake
		// on the next attempt.
		c.drop()
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, c.policy.MaxRetries+1, lastErr)
}

// trySend performs one connect-if-needed plus request attempt.
func (c *Client) trySend(ctx context.Context, message string, contextLines []string) (*Response, error) {
	if c.client == nil {
		if err := c.connect(ctx); err != nil {
			return nil, err
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.policy.RequestTimeout)
	defer cancel()

	out, err := c.client.SendMessage(reqCtx, &pb.ChatRequest{
		Message: message,
		Context: contextLines,
	})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &Response{
		Message:  out.GetMessage(),
		AgentTag: out.GetAgentTag(),
		Commands: out.GetExtractedCommands(),
	}, nil
}

func (c *Client) connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.policy.ConnectTimeout)
	defer cancel()

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	}
	if c.dialer != nil {
		opts = append(opts, grpc.WithContextDialer(c.dialer))
	}

	conn, err := grpc.DialContext(dialCtx, c.addr, opts...)
	if err != nil {
		return fmt.Errorf("connect to agent service at %s: %w", c.addr, err)
	}
	c.conn = conn
	c.client = pb.NewAgentServiceClient(conn)
	c.logger.Info("connected to agent service", zap.String("addr", c.addr))
	return nil
}

// drop discards the cached connection.
func (c *Client) drop() {
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = nil
	c.client = nil
}

// Connected reports whether a connection handle is cached.
func (c *Client) Connected() bool {
	return c.client != nil
}

// Close releases the connection, if any.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.client = nil
	return err
}
