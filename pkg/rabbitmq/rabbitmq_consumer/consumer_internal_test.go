package rabbitmq_consumer

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"anjia-property-service/pkg/rabbitmq/rabbitmq_common"
)

type fakeAcknowledger struct {
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = append(f.nacked, tag)
	f.requeue = append(f.requeue, requeue)
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func TestProcess_AcksOnSuccess(t *testing.T) {
	ack := &fakeAcknowledger{}
	d := amqp.Delivery{Acknowledger: ack, DeliveryTag: 7}

	process(d, func(amqp.Delivery) error { return nil }, rabbitmq_common.NewNoopLogger())

	assert.Equal(t, []uint64{7}, ack.acked)
	assert.Empty(t, ack.nacked)
}

func TestProcess_NacksWithoutRequeueOnError(t *testing.T) {
	ack := &fakeAcknowledger{}
	d := amqp.Delivery{Acknowledger: ack, DeliveryTag: 9}

	process(d, func(amqp.Delivery) error { return errors.New("bad payload") }, rabbitmq_common.NewNoopLogger())

	assert.Empty(t, ack.acked)
	assert.Equal(t, []uint64{9}, ack.nacked)
	assert.Equal(t, []bool{false}, ack.requeue)
}

func TestConsumerConfig_Validate(t *testing.T) {
	base := rabbitmq_common.Config{URL: "amqp://localhost:5672/"}

	assert.NoError(t, ConsumerConfig{Config: base, QueueName: "q"}.validate())
	assert.Error(t, ConsumerConfig{Config: base}.validate())
	assert.NoError(t, ConsumerConfig{Config: base, DeclareQueue: true}.validate())
	assert.Error(t, ConsumerConfig{
		Config:                 base,
		QueueName:              "q",
		ExchangeNameForBind:    "cms_events",
		DeclareExchangeForBind: true,
	}.validate())
	assert.Error(t, ConsumerConfig{QueueName: "q"}.validate())
}
