package queue

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

// fakeConn fails to open a channel and records whether it was closed.
type fakeConn struct {
	channelErr error
	closed     int
}

func (f *fakeConn) Channel() (*amqp.Channel, error) {
	return nil, f.channelErr
}

func (f *fakeConn) Close() error {
	f.closed++
	return nil
}

func TestConsumeOnceClosesConnectionOnFailure(t *testing.T) {
	boom := errors.New("channel refused")
	conn := &fakeConn{channelErr: boom}

	err := consumeOnce(conn)

	assert.ErrorIs(t, err, boom)
	// the connection must be released even when the session never starts,
	// otherwise every reconnect iteration leaks one TCP connection
	assert.Equal(t, 1, conn.closed)
}
