package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoemarket/internal/event"
	"shoemarket/internal/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishesEnvelope(t *testing.T) {
	w := &fakeWriter{}
	p := event.NewProducerWithWriter(w, "shoemarket.events", logger.NewLogger("error"))

	e, err := event.NewEvent(event.OrderPlaced, "ORD-1", map[string]float64{"total": 42})
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "shoemarket.events", msg.Topic)
	assert.Equal(t, "ORD-1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, event.OrderPlaced, string(msg.Headers[0].Value))

	var decoded event.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, e.EventID, decoded.EventID)
	assert.JSONEq(t, `{"total":42}`, string(decoded.Data))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_WrapsWriterError(t *testing.T) {
	boom := errors.New("broker fora do ar")
	p := event.NewProducerWithWriter(&fakeWriter{err: boom}, "t", logger.NewLogger("error"))
	e, _ := event.NewEvent(event.CartCleared, "u1", nil)

	err := p.Publish(context.Background(), e)

	assert.ErrorIs(t, err, boom)
}

func TestNewEvent_RejectsUnserializableData(t *testing.T) {
	_, err := event.NewEvent(event.OrderPlaced, "x", make(chan int))
	assert.Error(t, err)
}
