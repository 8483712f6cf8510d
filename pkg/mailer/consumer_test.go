package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu         sync.Mutex
	deliveries chan amqp.Delivery
	consumeTag string
	cancelTag  string
	err        error
}

func (f *fakeChannel) Consume(_ string, consumer string, _, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.consumeTag = consumer
	return f.deliveries, nil
}

func (f *fakeChannel) Cancel(consumer string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.consumeTag != consumer {
		return errors.New("unknown consumer " + consumer)
	}
	f.cancelTag = consumer
	close(f.deliveries)
	return nil
}

type ackRecord struct {
	tag     uint64
	ack     bool
	requeue bool
}

type fakeAcker struct {
	mu   sync.Mutex
	seen []ackRecord
	done chan struct{}
}

func (a *fakeAcker) record(r ackRecord) error {
	a.mu.Lock()
	a.seen = append(a.seen, r)
	a.mu.Unlock()
	a.done <- struct{}{}
	return nil
}

func (a *fakeAcker) Ack(tag uint64, _ bool) error { return a.record(ackRecord{tag: tag, ack: true}) }

func (a *fakeAcker) Nack(tag uint64, _ bool, requeue bool) error {
	return a.record(ackRecord{tag: tag, requeue: requeue})
}

func (a *fakeAcker) Reject(tag uint64, requeue bool) error {
	return a.record(ackRecord{tag: tag, requeue: requeue})
}

func TestConsumer_AcksAndStopsWithSameTag(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 3)}
	acker := &fakeAcker{done: make(chan struct{}, 3)}
	s := &fakeSender{}
	c := &Consumer{Ch: ch, Queue: "emails", Tag: "ipo-api-email-worker", Sender: s}

	ch.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: encode(t, EmailJob{To: "a@x.io", Subject: "hi", Text: "b"})}
	ch.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 2, Body: []byte("{")}

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	for i := 0; i < 2; i++ {
		select {
		case <-acker.done:
		case <-time.After(2 * time.Second):
			t.Fatal("delivery not settled")
		}
	}
	require.NoError(t, c.Stop())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	assert.Equal(t, "ipo-api-email-worker", ch.consumeTag)
	assert.Equal(t, ch.consumeTag, ch.cancelTag)
	assert.Equal(t, []ackRecord{{tag: 1, ack: true}, {tag: 2}}, acker.seen)
	assert.Len(t, s.msgs, 1)
}

func TestConsumer_RequeuesOnSendFailure(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 1)}
	acker := &fakeAcker{done: make(chan struct{}, 1)}
	c := &Consumer{Ch: ch, Queue: "emails", Tag: "w", Sender: &fakeSender{err: errors.New("mailgun 503")}}

	ch.deliveries <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 7, Body: encode(t, EmailJob{To: "a@x.io", Subject: "hi", Text: "b"})}
	close(ch.deliveries)

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, []ackRecord{{tag: 7, requeue: true}}, acker.seen)
}

func TestConsumer_RequiresTag(t *testing.T) {
	c := &Consumer{Ch: &fakeChannel{}, Queue: "emails"}
	assert.Error(t, c.Run(context.Background()))

	c = &Consumer{Ch: &fakeChannel{err: errors.New("channel closed")}, Queue: "emails", Tag: "w"}
	assert.EqualError(t, c.Run(context.Background()), "channel closed")
}
