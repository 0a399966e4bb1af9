package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/store/schema"
	"github.com/structfi/bondledger/internal/types"
)

type seriesKey struct {
	ClassID uint64
	NonceID uint64
}

type balanceKey struct {
	Holder  string
	ClassID uint64
	NonceID uint64
}

type approvalKey struct {
	Owner    string
	Operator string
}

type seriesAssetKey struct {
	ClassID uint64
	NonceID uint64
	Asset   string
}

type positionKey struct {
	Holder  string
	ClassID uint64
	NonceID uint64
	Asset   string
}

type deliveryKey struct {
	ClientID string
	EventID  string
}

type memState struct {
	nextClassID uint64
	classes     map[uint64]*schema.BondClass
	nonces      map[seriesKey]*schema.BondNonce
	balances    map[balanceKey]types.BigInt
	approvals   map[approvalKey]bool
	accs        map[seriesAssetKey]*schema.DividendAccumulator
	positions   map[positionKey]*schema.HolderPosition
	deposited   map[seriesKey][]string
	events      []*schema.LedgerEvent
	nextCursor  int64
	settings    *schema.LedgerSettings
	clients     []*schema.WebhookClient
	deliveries  map[deliveryKey]*schema.WebhookDelivery
	kv          map[string]string
}

func newMemState() *memState {
	return &memState{
		nextClassID: 1,
		classes:     map[uint64]*schema.BondClass{},
		nonces:      map[seriesKey]*schema.BondNonce{},
		balances:    map[balanceKey]types.BigInt{},
		approvals:   map[approvalKey]bool{},
		accs:        map[seriesAssetKey]*schema.DividendAccumulator{},
		positions:   map[positionKey]*schema.HolderPosition{},
		deposited:   map[seriesKey][]string{},
		nextCursor:  1,
		deliveries:  map[deliveryKey]*schema.WebhookDelivery{},
		kv:          map[string]string{},
	}
}

func (st *memState) clone() *memState {
	c := newMemState()
	c.nextClassID = st.nextClassID
	c.nextCursor = st.nextCursor
	for k, v := range st.classes {
		cp := *v
		c.classes[k] = &cp
	}
	for k, v := range st.nonces {
		cp := *v
		c.nonces[k] = &cp
	}
	for k, v := range st.balances {
		c.balances[k] = v
	}
	for k, v := range st.approvals {
		c.approvals[k] = v
	}
	for k, v := range st.accs {
		cp := *v
		c.accs[k] = &cp
	}
	for k, v := range st.positions {
		cp := *v
		c.positions[k] = &cp
	}
	for k, v := range st.deposited {
		c.deposited[k] = append([]string{}, v...)
	}
	c.events = append([]*schema.LedgerEvent{}, st.events...)
	if st.settings != nil {
		cp := *st.settings
		c.settings = &cp
	}
	c.clients = append([]*schema.WebhookClient{}, st.clients...)
	for k, v := range st.deliveries {
		cp := *v
		c.deliveries[k] = &cp
	}
	for k, v := range st.kv {
		c.kv[k] = v
	}
	return c
}

// memStore is an in-memory Store used by tests and local development. It
// mirrors the transactional semantics of the PostgreSQL store: WithinTx
// serializes callers and rolls the whole state back when fn fails.
type memStore struct {
	mu    sync.Mutex
	inTx  bool
	state *memState
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() Store {
	return &memStore{state: newMemState()}
}

func (s *memStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) WithinTx(_ context.Context, fn func(tx Store) error) error {
	if s.inTx {
		// nested calls join the enclosing transaction
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&memStore{state: s.state, inTx: true}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *memStore) CreateBondClass(_ context.Context, class *schema.BondClass) error {
	defer s.lock()()
	class.ID = s.state.nextClassID
	s.state.nextClassID++
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}
	cp := *class
	s.state.classes[class.ID] = &cp
	return nil
}

func (s *memStore) GetBondClass(_ context.Context, classID uint64) (*schema.BondClass, error) {
	defer s.lock()()
	class, ok := s.state.classes[classID]
	if !ok {
		return nil, nil
	}
	cp := *class
	return &cp, nil
}

func (s *memStore) ListClassIDsByAgent(_ context.Context, agentID string) ([]uint64, error) {
	defer s.lock()()
	var ids []uint64
	for id, class := range s.state.classes {
		if class.AgentID == agentID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memStore) ListClassesByAgentTranche(_ context.Context, agentID string, tranche domain.Tranche) ([]*schema.BondClass, error) {
	defer s.lock()()
	var classes []*schema.BondClass
	for _, class := range s.state.classes {
		if class.AgentID == agentID && class.Tranche == tranche {
			cp := *class
			classes = append(classes, &cp)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes, nil
}

func (s *memStore) NextNonceID(_ context.Context, classID uint64) (uint64, error) {
	defer s.lock()()
	var count uint64
	for key := range s.state.nonces {
		if key.ClassID == classID {
			count++
		}
	}
	return count, nil
}

func (s *memStore) CreateBondNonce(_ context.Context, nonce *schema.BondNonce) error {
	defer s.lock()()
	key := seriesKey{ClassID: nonce.ClassID, NonceID: nonce.NonceID}
	if _, exists := s.state.nonces[key]; exists {
		return fmt.Errorf("nonce %d already exists for class %d", nonce.NonceID, nonce.ClassID)
	}
	cp := *nonce
	s.state.nonces[key] = &cp
	return nil
}

func (s *memStore) GetBondNonce(_ context.Context, classID, nonceID uint64) (*schema.BondNonce, error) {
	defer s.lock()()
	nonce, ok := s.state.nonces[seriesKey{ClassID: classID, NonceID: nonceID}]
	if !ok {
		return nil, nil
	}
	cp := *nonce
	return &cp, nil
}

func (s *memStore) SaveBondNonce(_ context.Context, nonce *schema.BondNonce) error {
	defer s.lock()()
	key := seriesKey{ClassID: nonce.ClassID, NonceID: nonce.NonceID}
	if _, ok := s.state.nonces[key]; !ok {
		return fmt.Errorf("nonce %d not found for class %d", nonce.NonceID, nonce.ClassID)
	}
	cp := *nonce
	cp.UpdatedAt = time.Now().UTC()
	s.state.nonces[key] = &cp
	return nil
}

func (s *memStore) SumIssuedByClass(_ context.Context, classID uint64) (types.BigInt, error) {
	defer s.lock()()
	total := types.NewBigInt(0)
	for key, nonce := range s.state.nonces {
		if key.ClassID == classID {
			total = total.Add(nonce.TotalIssued)
		}
	}
	return total, nil
}

func (s *memStore) GetBalance(_ context.Context, holder string, classID, nonceID uint64) (types.BigInt, error) {
	defer s.lock()()
	balance, ok := s.state.balances[balanceKey{Holder: holder, ClassID: classID, NonceID: nonceID}]
	if !ok {
		return types.NewBigInt(0), nil
	}
	return balance, nil
}

func (s *memStore) AddToBalance(_ context.Context, holder string, classID, nonceID uint64, delta types.BigInt) error {
	defer s.lock()()
	key := balanceKey{Holder: holder, ClassID: classID, NonceID: nonceID}
	current, ok := s.state.balances[key]
	if !ok {
		current = types.NewBigInt(0)
	}
	next := current.Add(delta)
	if next.Sign() < 0 {
		return fmt.Errorf("balance of %s for series %d/%d would go negative", holder, classID, nonceID)
	}
	s.state.balances[key] = next
	return nil
}

func (s *memStore) SetOperatorApproval(_ context.Context, owner, operator string, approved bool) error {
	defer s.lock()()
	s.state.approvals[approvalKey{Owner: owner, Operator: operator}] = approved
	return nil
}

func (s *memStore) IsOperatorApproved(_ context.Context, owner, operator string) (bool, error) {
	defer s.lock()()
	return s.state.approvals[approvalKey{Owner: owner, Operator: operator}], nil
}

func (s *memStore) GetAccumulator(_ context.Context, classID, nonceID uint64, asset string) (*schema.DividendAccumulator, error) {
	defer s.lock()()
	acc, ok := s.state.accs[seriesAssetKey{ClassID: classID, NonceID: nonceID, Asset: asset}]
	if !ok {
		return nil, nil
	}
	cp := *acc
	return &cp, nil
}

func (s *memStore) SaveAccumulator(_ context.Context, acc *schema.DividendAccumulator) error {
	defer s.lock()()
	cp := *acc
	cp.UpdatedAt = time.Now().UTC()
	s.state.accs[seriesAssetKey{ClassID: acc.ClassID, NonceID: acc.NonceID, Asset: acc.Asset}] = &cp
	return nil
}

func (s *memStore) GetPosition(_ context.Context, holder string, classID, nonceID uint64, asset string) (*schema.HolderPosition, error) {
	defer s.lock()()
	pos, ok := s.state.positions[positionKey{Holder: holder, ClassID: classID, NonceID: nonceID, Asset: asset}]
	if !ok {
		return nil, nil
	}
	cp := *pos
	return &cp, nil
}

func (s *memStore) SavePosition(_ context.Context, pos *schema.HolderPosition) error {
	defer s.lock()()
	cp := *pos
	cp.UpdatedAt = time.Now().UTC()
	s.state.positions[positionKey{Holder: pos.Holder, ClassID: pos.ClassID, NonceID: pos.NonceID, Asset: pos.Asset}] = &cp
	return nil
}

func (s *memStore) AddDepositedAsset(_ context.Context, classID, nonceID uint64, asset string) error {
	defer s.lock()()
	key := seriesKey{ClassID: classID, NonceID: nonceID}
	for _, existing := range s.state.deposited[key] {
		if existing == asset {
			return nil
		}
	}
	s.state.deposited[key] = append(s.state.deposited[key], asset)
	return nil
}

func (s *memStore) ListDepositedAssets(_ context.Context, classID, nonceID uint64) ([]string, error) {
	defer s.lock()()
	return append([]string{}, s.state.deposited[seriesKey{ClassID: classID, NonceID: nonceID}]...), nil
}

func (s *memStore) AppendLedgerEvent(_ context.Context, event *schema.LedgerEvent) error {
	defer s.lock()()
	event.Cursor = s.state.nextCursor
	s.state.nextCursor++
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	cp := *event
	s.state.events = append(s.state.events, &cp)
	return nil
}

func (s *memStore) ListLedgerEvents(_ context.Context, filter LedgerEventFilter) ([]*schema.LedgerEvent, error) {
	defer s.lock()()
	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var events []*schema.LedgerEvent
	for _, event := range s.state.events {
		if filter.EventType != nil && event.EventType != *filter.EventType {
			continue
		}
		if filter.ClassID != nil && (event.ClassID == nil || *event.ClassID != *filter.ClassID) {
			continue
		}
		if filter.NonceID != nil && (event.NonceID == nil || *event.NonceID != *filter.NonceID) {
			continue
		}
		if event.Cursor <= filter.AfterCursor {
			continue
		}
		cp := *event
		events = append(events, &cp)
		if len(events) == limit {
			break
		}
	}
	return events, nil
}

func (s *memStore) GetSettings(_ context.Context) (*schema.LedgerSettings, error) {
	defer s.lock()()
	if s.state.settings == nil {
		return nil, nil
	}
	cp := *s.state.settings
	return &cp, nil
}

func (s *memStore) SaveSettings(_ context.Context, settings *schema.LedgerSettings) error {
	defer s.lock()()
	cp := *settings
	cp.ID = 1
	cp.UpdatedAt = time.Now().UTC()
	s.state.settings = &cp
	return nil
}

func (s *memStore) CreateWebhookClient(_ context.Context, client *schema.WebhookClient) error {
	defer s.lock()()
	client.ID = uint64(len(s.state.clients) + 1)
	cp := *client
	s.state.clients = append(s.state.clients, &cp)
	return nil
}

func (s *memStore) ListActiveWebhookClients(_ context.Context) ([]*schema.WebhookClient, error) {
	defer s.lock()()
	var clients []*schema.WebhookClient
	for _, client := range s.state.clients {
		if client.IsActive {
			cp := *client
			clients = append(clients, &cp)
		}
	}
	return clients, nil
}

func (s *memStore) SaveWebhookDelivery(_ context.Context, delivery *schema.WebhookDelivery) error {
	defer s.lock()()
	cp := *delivery
	cp.UpdatedAt = time.Now().UTC()
	s.state.deliveries[deliveryKey{ClientID: delivery.ClientID, EventID: delivery.EventID}] = &cp
	return nil
}

func (s *memStore) GetWebhookDelivery(_ context.Context, clientID, eventID string) (*schema.WebhookDelivery, error) {
	defer s.lock()()
	delivery, ok := s.state.deliveries[deliveryKey{ClientID: clientID, EventID: eventID}]
	if !ok {
		return nil, nil
	}
	cp := *delivery
	return &cp, nil
}

func (s *memStore) GetValue(_ context.Context, key string) (string, error) {
	defer s.lock()()
	return s.state.kv[key], nil
}

func (s *memStore) SetValue(_ context.Context, key, value string) error {
	defer s.lock()()
	s.state.kv[key] = value
	return nil
}
