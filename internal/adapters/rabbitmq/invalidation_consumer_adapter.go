package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"anjia-property-service/internal/constants"
	"anjia-property-service/internal/contextkeys"
	"anjia-property-service/internal/core/port"
	"anjia-property-service/internal/core/port/usecases_port"
	"anjia-property-service/pkg/rabbitmq/rabbitmq_common"
	"anjia-property-service/pkg/rabbitmq/rabbitmq_consumer"
)

// DefaultConsumerConfig binds a durable queue to the CMS events exchange.
func DefaultConsumerConfig(url string) rabbitmq_consumer.ConsumerConfig {
	return rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: url},
		QueueName:              constants.CacheInvalidationQueue,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.CMSEventsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.CMSEventsExchangeType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.PropertyChangedRoutingKey,
		PrefetchCount:          10,
		ConsumerTag:            constants.CacheInvalidationTag,
	}
}

// CacheInvalidationConsumerAdapter listens for CMS change events and drops the
// affected cache entries.
type CacheInvalidationConsumerAdapter struct {
	consumer *rabbitmq_consumer.DistributingConsumer
	useCase  usecases_port.InvalidateCacheUseCase
	logger   port.LoggerPort
}

func NewCacheInvalidationConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.InvalidateCacheUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*CacheInvalidationConsumerAdapter, error) {
	adapter := newHandlerOnly(useCase, logger)

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_distributing_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for cache invalidation: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

func newHandlerOnly(useCase usecases_port.InvalidateCacheUseCase, logger port.LoggerPort) *CacheInvalidationConsumerAdapter {
	return &CacheInvalidationConsumerAdapter{useCase: useCase, logger: logger}
}

func (a *CacheInvalidationConsumerAdapter) messageHandler(d amqp.Delivery) error {
	traceID, ok := d.Headers[constants.AMQPTraceIDHeader].(string)
	if !ok || traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
		"routing_key":  d.RoutingKey,
	})

	ctx := contextkeys.ContextWithLogger(context.Background(), msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	var event PropertyChangedDTO
	if err := json.Unmarshal(d.Body, &event); err != nil {
		msgLogger.Error("Error unmarshalling property change event", err, nil)
		return fmt.Errorf("unmarshal property change event: %w", err)
	}

	id := strings.TrimSpace(event.PropertyID)
	if id == "" && !event.All {
		err := fmt.Errorf("property change event has neither property_id nor all")
		msgLogger.Warn("Rejecting property change event", port.Fields{"error": err.Error()})
		return err
	}
	if event.All {
		id = ""
	}

	n := a.useCase.Execute(ctx, id)
	msgLogger.Info("Property change event processed", port.Fields{"property_id": id, "invalidated": n})
	return nil
}

func (a *CacheInvalidationConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *CacheInvalidationConsumerAdapter) Close() error {
	return a.consumer.Close()
}
