// Package feed subscribes to the upstream pub/sub network and delivers
// decompressed message payloads to a handler.
package feed

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/time/rate"

	"github.com/stellar-collector/internal/errors"
	"github.com/stellar-collector/internal/logging"
)

// Handler receives one decompressed message payload. Processing is
// fire-and-forget: there is no acknowledgement or retry protocol on the
// feed, and fresher data for anything dropped will arrive soon.
type Handler func(data []byte)

// reconnectDelay paces redial attempts after the subscription drops
const reconnectDelay = 5 * time.Second

// Listener owns the subscription socket and the receive loop
type Listener struct {
	url     string
	handler Handler
	logger  *logging.Logger

	// warnLimiter caps malformed-payload log volume; a flood of bad frames
	// must not drown the log
	warnLimiter *rate.Limiter
}

// NewListener creates a listener that delivers each message to handler
func NewListener(url string, handler Handler, logger *logging.Logger) *Listener {
	return &Listener{
		url:         url,
		handler:     handler,
		logger:      logger,
		warnLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Run subscribes and receives messages until ctx is cancelled, redialing
// with a delay whenever the subscription drops. One message is decoded and
// handled at a time.
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.subscribe(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			l.logger.WithError(err).Error("Feed subscription lost, reconnecting")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

// subscribe dials the feed and runs the receive loop until an error or
// cancellation
func (l *Listener) subscribe(ctx context.Context) error {
	socket := zmq4.NewSub(ctx)
	defer socket.Close()

	if err := socket.Dial(l.url); err != nil {
		return err
	}
	if err := socket.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		return err
	}

	l.logger.WithField("url", l.url).Info("Subscribed to feed")

	for {
		msg, err := socket.Recv()
		if err != nil {
			return err
		}

		data, err := inflate(msg.Bytes())
		if err != nil {
			if l.warnLimiter.Allow() {
				l.logger.WithError(errors.NewMalformedPayloadError("decompress", err)).
					Warn("Dropping message")
			}
			continue
		}

		l.handler(data)
	}
}

// inflate decompresses one zlib-compressed message frame
func inflate(frame []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(frame))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
