package bridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/structfi/bondledger/internal/adapter"
	"github.com/structfi/bondledger/internal/bridge"
	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/logger"
	mockspkg "github.com/structfi/bondledger/internal/mocks"
	"github.com/structfi/bondledger/internal/store"
	"github.com/structfi/bondledger/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// hexSecret is "test-secret-key" hex-encoded
const hexSecret = "746573742d7365637265742d6b6579"

func testConfig() bridge.Config {
	return bridge.Config{
		URL:              "nats://localhost:4222",
		StreamName:       "events",
		ConsumerName:     "bridge-consumer",
		MaxReconnects:    10,
		ReconnectWait:    time.Second,
		ConnectionName:   "test-bridge",
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       3,
		Workers:          2,
		RetryInitialWait: time.Millisecond,
		RetryMaxElapsed:  200 * time.Millisecond,
	}
}

// bridgeHarness wires a bridge with mocked NATS, a memory store and a
// captured consume handler
type bridgeHarness struct {
	ctrl       *gomock.Controller
	bridge     bridge.Bridge
	store      store.Store
	natsConn   *mockspkg.MockNatsConn
	jetStream  *mockspkg.MockJetStream
	consumer   *mockspkg.MockNatsConsumer
	consumeCtx *mockspkg.MockConsumeContext
	handler    chan adapter.MessageHandler
}

func newBridgeHarness(t *testing.T, cfg bridge.Config) *bridgeHarness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &bridgeHarness{
		ctrl:       ctrl,
		store:      store.NewMemoryStore(),
		natsConn:   mockspkg.NewMockNatsConn(ctrl),
		jetStream:  mockspkg.NewMockJetStream(ctrl),
		consumer:   mockspkg.NewMockNatsConsumer(ctrl),
		consumeCtx: mockspkg.NewMockConsumeContext(ctrl),
		handler:    make(chan adapter.MessageHandler, 1),
	}

	natsJS := mockspkg.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().Connect(cfg.URL, gomock.Any()).Return(h.natsConn, h.jetStream, nil)

	b, err := bridge.NewBridge(cfg, natsJS, h.store, adapter.NewHTTPClient(5*time.Second), adapter.NewJSON(), adapter.NewClock())
	require.NoError(t, err)
	h.bridge = b
	return h
}

// start runs the bridge in the background and returns once the consume
// handler has been captured
func (h *bridgeHarness) start(t *testing.T, ctx context.Context) adapter.MessageHandler {
	t.Helper()

	h.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), "events", gomock.Any()).
		Return(h.consumer, nil)
	h.consumer.EXPECT().
		Info(gomock.Any()).
		Return(&jetstream.ConsumerInfo{Name: "bridge-consumer"}, nil)
	h.consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, _ ...jetstream.PullConsumeOpt) (adapter.ConsumeContext, error) {
			h.handler <- handler
			return h.consumeCtx, nil
		})
	h.consumeCtx.EXPECT().Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.bridge.Run(ctx)
	}()
	// wait for Run to return (runs before the gomock controller's cleanup,
	// so the Stop expectation is verified only after shutdown completes)
	t.Cleanup(func() {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("bridge did not shut down")
		}
	})

	select {
	case handler := <-h.handler:
		return handler
	case <-time.After(5 * time.Second):
		t.Fatal("consume handler was not captured")
		return nil
	}
}

func registerClient(t *testing.T, st store.Store, url string, filters ...string) *schema.WebhookClient {
	t.Helper()
	raw, err := json.Marshal(filters)
	require.NoError(t, err)

	client := &schema.WebhookClient{
		ClientID:      "client-" + url[len(url)-4:],
		WebhookURL:    url,
		WebhookSecret: hexSecret,
		EventFilters:  datatypes.JSON(raw),
		IsActive:      true,
	}
	require.NoError(t, st.CreateWebhookClient(context.Background(), client))
	return client
}

func issuedEventJSON(t *testing.T, eventID string) []byte {
	t.Helper()
	classID := uint64(1)
	nonceID := uint64(0)
	holder := "0xAaAa000000000000000000000000000000000001"
	event := domain.LedgerEvent{
		EventID:   eventID,
		EventType: domain.EventTypeIssued,
		ClassID:   &classID,
		NonceID:   &nonceID,
		To:        &holder,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func newMessage(ctrl *gomock.Controller, data []byte) *mockspkg.MockJetStreamMessage {
	msg := mockspkg.NewMockJetStreamMessage(ctrl)
	msg.EXPECT().Data().Return(data).AnyTimes()
	msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{NumDelivered: 1}, nil).AnyTimes()
	return msg
}

func TestBridge_NewBridge_ConnectError(t *testing.T) {
	ctrl := gomock.NewController(t)

	natsJS := mockspkg.NewMockNatsJetStream(ctrl)
	natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, errors.New("connection refused"))

	_, err := bridge.NewBridge(testConfig(), natsJS, store.NewMemoryStore(), adapter.NewHTTPClient(time.Second), adapter.NewJSON(), adapter.NewClock())
	assert.ErrorContains(t, err, "failed to connect to NATS")
}

func TestBridge_DeliversToMatchingClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var matchedHits, otherHits atomic.Int32
	var gotSignature, gotEventID atomic.Value
	matchedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		matchedHits.Add(1)
		gotSignature.Store(r.Header.Get("X-Webhook-Signature"))
		gotEventID.Store(r.Header.Get("X-Webhook-Event-ID"))
		w.WriteHeader(http.StatusOK)
	}))
	defer matchedServer.Close()
	otherServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		otherHits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer otherServer.Close()

	h := newBridgeHarness(t, testConfig())
	matched := registerClient(t, h.store, matchedServer.URL, "*")
	registerClient(t, h.store, otherServer.URL, "dividend.claimed")

	handler := h.start(t, ctx)

	eventID := domain.NewEventID(time.Now().UTC())
	msg := newMessage(h.ctrl, issuedEventJSON(t, eventID))
	acked := make(chan struct{})
	msg.EXPECT().Ack().DoAndReturn(func() error {
		close(acked)
		return nil
	})

	handler(msg)

	select {
	case <-acked:
	case <-time.After(5 * time.Second):
		t.Fatal("message was not acked")
	}

	assert.Equal(t, int32(1), matchedHits.Load())
	assert.Equal(t, int32(0), otherHits.Load())
	assert.Equal(t, eventID, gotEventID.Load())
	assert.Contains(t, gotSignature.Load(), "sha256=")

	delivery, err := h.store.GetWebhookDelivery(ctx, matched.ClientID, eventID)
	require.NoError(t, err)
	require.NotNil(t, delivery)
	assert.Equal(t, schema.WebhookDeliveryStatusSuccess, delivery.DeliveryStatus)
	assert.Equal(t, 1, delivery.Attempts)

	// cursor advances once the fanout completes
	require.Eventually(t, func() bool {
		cursor, err := h.store.GetValue(ctx, "bridge_cursor")
		return err == nil && cursor == eventID
	}, 5*time.Second, 10*time.Millisecond)
}

func TestBridge_RetriesServerErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	h := newBridgeHarness(t, testConfig())
	client := registerClient(t, h.store, server.URL, "bonds.issued")

	handler := h.start(t, ctx)

	eventID := domain.NewEventID(time.Now().UTC())
	msg := newMessage(h.ctrl, issuedEventJSON(t, eventID))
	acked := make(chan struct{})
	msg.EXPECT().Ack().DoAndReturn(func() error {
		close(acked)
		return nil
	})

	handler(msg)

	select {
	case <-acked:
	case <-time.After(5 * time.Second):
		t.Fatal("message was not acked")
	}

	assert.Equal(t, int32(3), hits.Load())

	delivery, err := h.store.GetWebhookDelivery(ctx, client.ClientID, eventID)
	require.NoError(t, err)
	require.NotNil(t, delivery)
	assert.Equal(t, schema.WebhookDeliveryStatusSuccess, delivery.DeliveryStatus)
	assert.Equal(t, 3, delivery.Attempts)
}

func TestBridge_ClientErrorsAreNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	h := newBridgeHarness(t, testConfig())
	client := registerClient(t, h.store, server.URL, "*")

	handler := h.start(t, ctx)

	eventID := domain.NewEventID(time.Now().UTC())
	msg := newMessage(h.ctrl, issuedEventJSON(t, eventID))
	acked := make(chan struct{})
	msg.EXPECT().Ack().DoAndReturn(func() error {
		close(acked)
		return nil
	})

	handler(msg)

	select {
	case <-acked:
	case <-time.After(5 * time.Second):
		t.Fatal("message was not acked")
	}

	assert.Equal(t, int32(1), hits.Load())

	delivery, err := h.store.GetWebhookDelivery(ctx, client.ClientID, eventID)
	require.NoError(t, err)
	require.NotNil(t, delivery)
	assert.Equal(t, schema.WebhookDeliveryStatusFailed, delivery.DeliveryStatus)
	assert.Equal(t, 1, delivery.Attempts)
	require.NotNil(t, delivery.ResponseStatus)
	assert.Equal(t, http.StatusBadRequest, *delivery.ResponseStatus)
}

func TestBridge_TerminatesUnparseableMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newBridgeHarness(t, testConfig())
	handler := h.start(t, ctx)

	msg := mockspkg.NewMockJetStreamMessage(h.ctrl)
	msg.EXPECT().Data().Return([]byte("not json")).AnyTimes()
	msg.EXPECT().Metadata().Return(&jetstream.MsgMetadata{}, nil).AnyTimes()
	termed := make(chan struct{})
	msg.EXPECT().Term().DoAndReturn(func() error {
		close(termed)
		return nil
	})

	handler(msg)

	select {
	case <-termed:
	case <-time.After(5 * time.Second):
		t.Fatal("message was not terminated")
	}
}
