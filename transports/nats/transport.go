// Package nats provides a NATS transport for the transcoding service.
// Requests are load-balanced across service instances with a queue
// subscription and answered over the NATS reply subject.
package nats

import (
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/transcodekit/lz4msgpack"
	msgpackencoder "github.com/transcodekit/lz4msgpack/encoders/msgpack"
)

// NatsTransport implements lz4msgpack.Transport using NATS as the message
// broker. Each instance subscribing under the same service name shares one
// queue group, so a request is handled by exactly one instance.
type NatsTransport struct {
	NatsConnection  *nats.Conn
	Subscription    *nats.Subscription
	SubscriptionErr error

	serviceName string
	encoder     lz4msgpack.Encoder
	logger      *zap.Logger
}

var _ lz4msgpack.Transport = &NatsTransport{}

// Option configures a NatsTransport.
type Option func(*NatsTransport)

// WithLogger sets the logger used for request failures. The default logger
// discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(t *NatsTransport) {
		t.logger = logger
	}
}

// NewNatsTransport creates a transport for the given service name using the
// provided connection.
func NewNatsTransport(natsConnection *nats.Conn, serviceName string, opts ...Option) *NatsTransport {
	t := &NatsTransport{
		NatsConnection: natsConnection,
		serviceName:    serviceName,
		encoder:        msgpackencoder.New(),
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Serve subscribes to the service subject and answers each request with a
// Response frame carrying either the envelope or the handler error.
func (t *NatsTransport) Serve(handler lz4msgpack.Handler) {
	natsSubject := namespace(t.serviceName)
	subscription, err := t.NatsConnection.QueueSubscribe(natsSubject, natsSubject, func(natsMsg *nats.Msg) {
		output, err := handler(natsMsg.Data)

		response := Response{Data: output}
		if err != nil {
			response.Error = err.Error()
			t.logger.Warn("transcode request failed",
				zap.String("subject", natsSubject),
				zap.Error(err))
		}

		responseBuf, err := t.encoder.Encode(&response)
		if err != nil {
			t.logger.Error("encode response frame",
				zap.String("subject", natsSubject),
				zap.Error(err))
			return
		}

		if err := natsMsg.Respond(responseBuf); err != nil {
			t.logger.Error("respond to request",
				zap.String("subject", natsSubject),
				zap.Error(err))
		}
	})
	if err != nil {
		t.SubscriptionErr = err
	} else {
		t.Subscription = subscription
	}
}

// Close unsubscribes from the service subject. The NATS connection itself is
// owned by the caller and stays open.
func (t *NatsTransport) Close() error {
	if t.Subscription != nil {
		return t.Subscription.Unsubscribe()
	}
	return nil
}
