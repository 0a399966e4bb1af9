// Package bridge consumes committed ledger events from JetStream and fans
// them out to registered webhook clients over HTTP. Every delivery attempt is
// recorded in the webhook_deliveries table, so the journal plus the delivery
// log give a complete picture of what each client has been told.
package bridge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/structfi/bondledger/internal/adapter"
	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/logger"
	"github.com/structfi/bondledger/internal/store"
	"github.com/structfi/bondledger/internal/store/schema"
	"github.com/structfi/bondledger/internal/webhook"
)

// cursorKey is the key_value_store entry recording the last event id the
// bridge finished processing
const cursorKey = "bridge_cursor"

// Config holds the configuration for the event bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	// Workers bounds the number of concurrent event fanouts
	Workers int
	// RetryInitialWait is the first retry delay for a failed HTTP delivery
	RetryInitialWait time.Duration
	// RetryMaxElapsed is the total time spent retrying one client before the
	// delivery is recorded as failed
	RetryMaxElapsed time.Duration
}

// Bridge defines the interface for the event bridge
type Bridge interface {
	// Run starts the event bridge
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	store  store.Store
	http   adapter.HTTPClient
	json   adapter.JSON
	clock  adapter.Clock
	pool   pond.Pool
	config Config
}

// NewBridge creates a new event bridge
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	st store.Store,
	httpClient adapter.HTTPClient,
	jsonAdapter adapter.JSON,
	clock adapter.Clock,
) (Bridge, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 10
	}

	b := &bridge{
		nc:     nc,
		js:     js,
		store:  st,
		http:   httpClient,
		json:   jsonAdapter,
		clock:  clock,
		pool:   pond.NewPool(workers),
		config: cfg,
	}

	return b, nil
}

// Run starts the event bridge
func (b *bridge) Run(ctx context.Context) error {
	logger.Info("Starting event bridge", zap.String("stream", b.config.StreamName), zap.String("consumer", b.config.ConsumerName))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: "events.>",
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming messages")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down event bridge")
			b.pool.StopAndWait()
			return ctx.Err()
		case msg := <-msgChan:
			b.pool.Submit(func() {
				b.handleMessage(ctx, msg)
			})
		}
	}
}

// handleMessage processes a single NATS message
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	metadata, _ := msg.Metadata()

	var event domain.LedgerEvent
	if err := b.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal event"))
		// Terminate message for unparseable data
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	fields := []zap.Field{
		zap.String("eventID", event.EventID),
		zap.String("eventType", string(event.EventType)),
	}
	if metadata != nil {
		fields = append(fields, zap.Uint64("deliveryCount", metadata.NumDelivered))
	}
	logger.Info("Received event", fields...)

	if err := b.dispatch(ctx, &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to dispatch event"))
		// NAK to retry
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	// ACK message after the fanout; per-client failures live in the
	// webhook_deliveries audit log and are not replayed to everyone
	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ACK message"))
	}

	if err := b.store.SetValue(ctx, cursorKey, event.EventID); err != nil {
		logger.Error(err, zap.String("message", "Failed to save bridge cursor"))
	}
}

// dispatch delivers the event to every active client whose filters match
func (b *bridge) dispatch(ctx context.Context, event *domain.LedgerEvent) error {
	clients, err := b.store.ListActiveWebhookClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to list webhook clients: %w", err)
	}

	whEvent := webhook.FromLedgerEvent(event)
	for _, client := range clients {
		matched, err := b.clientMatches(client, whEvent.EventType)
		if err != nil {
			logger.Error(err, zap.String("message", "Failed to parse client event filters"), zap.String("clientID", client.ClientID))
			continue
		}
		if !matched {
			continue
		}

		if err := b.deliverToClient(ctx, client, whEvent); err != nil {
			logger.Error(err,
				zap.String("message", "Webhook delivery failed"),
				zap.String("clientID", client.ClientID),
				zap.String("eventID", whEvent.EventID))
		}
	}

	return nil
}

// clientMatches reports whether the client's event filters cover eventType
func (b *bridge) clientMatches(client *schema.WebhookClient, eventType string) (bool, error) {
	var filters []string
	if err := b.json.Unmarshal(client.EventFilters, &filters); err != nil {
		return false, err
	}

	for _, filter := range filters {
		if filter == webhook.EventTypeWildcard || filter == eventType {
			return true, nil
		}
	}
	return false, nil
}

// deliverToClient posts the signed event to one client, retrying with
// exponential backoff, and records every attempt
func (b *bridge) deliverToClient(ctx context.Context, client *schema.WebhookClient, event webhook.WebhookEvent) error {
	rawPayload, err := b.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	delivery := &schema.WebhookDelivery{
		ClientID:       client.ClientID,
		EventID:        event.EventID,
		EventType:      event.EventType,
		Payload:        datatypes.JSON(rawPayload),
		DeliveryStatus: schema.WebhookDeliveryStatusPending,
	}
	if err := b.store.SaveWebhookDelivery(ctx, delivery); err != nil {
		return fmt.Errorf("failed to create delivery record: %w", err)
	}

	operation := func() error {
		delivery.Attempts++
		result := b.attemptDelivery(ctx, client, event)

		now := b.clock.Now().UTC()
		delivery.LastAttemptAt = &now
		delivery.ResponseBody = result.Body
		delivery.ErrorMessage = result.Error
		if result.StatusCode != 0 {
			statusCode := result.StatusCode
			delivery.ResponseStatus = &statusCode
		}
		if result.Success {
			delivery.DeliveryStatus = schema.WebhookDeliveryStatusSuccess
		} else {
			delivery.DeliveryStatus = schema.WebhookDeliveryStatusFailed
		}
		if err := b.store.SaveWebhookDelivery(ctx, delivery); err != nil {
			logger.Error(err, zap.String("message", "Failed to update delivery record"), zap.String("clientID", client.ClientID))
		}

		if result.Success {
			return nil
		}

		// Client errors other than rate limiting will not improve on retry
		if result.StatusCode >= 400 && result.StatusCode < 500 && result.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(fmt.Errorf("HTTP %d", result.StatusCode))
		}
		if result.Error != "" {
			return fmt.Errorf("%s", result.Error)
		}
		return fmt.Errorf("HTTP %d", result.StatusCode)
	}

	bo := backoff.NewExponentialBackOff()
	if b.config.RetryInitialWait > 0 {
		bo.InitialInterval = b.config.RetryInitialWait
	}
	bo.MaxElapsedTime = b.config.RetryMaxElapsed
	if bo.MaxElapsedTime == 0 {
		bo.MaxElapsedTime = time.Minute
	}

	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}

// attemptDelivery performs one signed HTTP POST to the client endpoint
func (b *bridge) attemptDelivery(ctx context.Context, client *schema.WebhookClient, event webhook.WebhookEvent) webhook.DeliveryResult {
	payload, signature, timestamp, err := webhook.GenerateSignedPayload(client.WebhookSecret, event)
	if err != nil {
		return webhook.DeliveryResult{Error: fmt.Sprintf("failed to generate signed payload: %v", err)}
	}

	headers := map[string]string{
		"Content-Type":         "application/json",
		"X-Webhook-Signature":  signature,
		"X-Webhook-Event-ID":   event.EventID,
		"X-Webhook-Event-Type": event.EventType,
		"X-Webhook-Timestamp":  fmt.Sprintf("%d", timestamp),
		"User-Agent":           "BondLedger-Webhook/1.0",
	}

	resp, err := b.http.PostWithHeaders(ctx, client.WebhookURL, headers, bytes.NewReader(payload))
	if err != nil {
		return webhook.DeliveryResult{Error: err.Error()}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", zap.Error(err), zap.String("url", client.WebhookURL))
		}
	}()

	// Cap the recorded response body at 4KB
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	if err != nil {
		respBody = []byte{}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return webhook.DeliveryResult{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Error:      fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	return webhook.DeliveryResult{
		Success:    true,
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
