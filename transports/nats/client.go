package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/transcodekit/lz4msgpack"
	msgpackencoder "github.com/transcodekit/lz4msgpack/encoders/msgpack"
)

// ErrRemote wraps errors reported by the remote service.
var ErrRemote = errors.New("nats: remote transcode failed")

// DefaultRequestTimeout is used by Transcode when no timeout is given.
const DefaultRequestTimeout = 30 * time.Second

// Client submits transcode requests to a remote service over NATS.
type Client struct {
	conn        *nats.Conn
	serviceName string
	encoder     lz4msgpack.Encoder
}

// NewClient creates a client for the named service using the provided
// connection.
func NewClient(conn *nats.Conn, serviceName string) *Client {
	return &Client{
		conn:        conn,
		serviceName: serviceName,
		encoder:     msgpackencoder.New(),
	}
}

// Transcode submits a JSON document and waits for the envelope with the
// default timeout.
func (c *Client) Transcode(input []byte) ([]byte, error) {
	return c.TranscodeWithTimeout(input, DefaultRequestTimeout)
}

// TranscodeWithTimeout submits a JSON document and waits for the envelope
// with a custom timeout.
func (c *Client) TranscodeWithTimeout(input []byte, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.TranscodeWithCtx(ctx, input)
}

// TranscodeWithCtx submits a JSON document and waits for the envelope until
// the context is canceled.
func (c *Client) TranscodeWithCtx(ctx context.Context, input []byte) ([]byte, error) {
	replyMsg, err := c.conn.RequestWithContext(ctx, namespace(c.serviceName), input)
	if err != nil {
		return nil, err
	}

	var response Response
	if err := c.encoder.Decode(replyMsg.Data, &response); err != nil {
		return nil, err
	}
	if response.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, response.Error)
	}
	return response.Data, nil
}
