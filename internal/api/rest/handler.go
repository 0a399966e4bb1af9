package rest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/structfi/bondledger/internal/api/middleware"
	"github.com/structfi/bondledger/internal/api/shared/dto"
	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/ledger"
	"github.com/structfi/bondledger/internal/store"
	"github.com/structfi/bondledger/internal/store/schema"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// CreateClass registers a new bond class (requires API key authentication)
	// POST /api/v1/classes
	CreateClass(c *gin.Context)

	// GetClass retrieves a bond class by id
	// GET /api/v1/classes/:class_id
	GetClass(c *gin.Context)

	// CreateNonce opens a new issuance batch within a class (requires API key authentication)
	// POST /api/v1/classes/:class_id/nonces
	CreateNonce(c *gin.Context)

	// GetNonce retrieves an issuance batch
	// GET /api/v1/classes/:class_id/nonces/:nonce_id
	GetNonce(c *gin.Context)

	// MarkRedeemable flips a batch's redeemable flag (requires API key authentication)
	// POST /api/v1/classes/:class_id/nonces/:nonce_id/redeemable
	MarkRedeemable(c *gin.Context)

	// Issue mints bond units to a holder (requires API key authentication)
	// POST /api/v1/bonds/issue
	Issue(c *gin.Context)

	// Transfer moves bond units between holders (requires holder authentication;
	// the JWT subject is the caller)
	// POST /api/v1/bonds/transfer
	Transfer(c *gin.Context)

	// Redeem retires matured bond units (requires API key authentication)
	// POST /api/v1/bonds/redeem
	Redeem(c *gin.Context)

	// Burn unconditionally retires bond units (requires API key authentication)
	// POST /api/v1/bonds/burn
	Burn(c *gin.Context)

	// SetApproval grants or revokes an operator for the authenticated holder
	// PUT /api/v1/approvals
	SetApproval(c *gin.Context)

	// GetApproval reads an operator approval state
	// GET /api/v1/approvals/:owner/:operator
	GetApproval(c *gin.Context)

	// GetBalance reads a holder's balance in one series
	// GET /api/v1/balances/:holder/:class_id/:nonce_id
	GetBalance(c *gin.Context)

	// ListAgentClasses lists the classes issued by an agent
	// GET /api/v1/agents/:agent_id/classes?tranche=<tranche>
	ListAgentClasses(c *gin.Context)

	// Deposit distributes a dividend across a series (requires API key authentication)
	// POST /api/v1/dividends/deposit
	Deposit(c *gin.Context)

	// DepositWaterfall splits a deposit across a senior and a junior series
	// (requires API key authentication)
	// POST /api/v1/dividends/waterfall
	DepositWaterfall(c *gin.Context)

	// GetClaimable reads the claimable amount for one holder and asset
	// GET /api/v1/dividends/claimable/:holder/:class_id/:nonce_id?asset=<asset>
	GetClaimable(c *gin.Context)

	// Claim pays out one asset's accrued dividends to the authenticated holder
	// POST /api/v1/dividends/claim
	Claim(c *gin.Context)

	// ClaimAll pays out every deposited asset to the authenticated holder
	// POST /api/v1/dividends/claim-all
	ClaimAll(c *gin.Context)

	// Settle freezes accrual for two parties at their pre-delta balances
	// (requires API key authentication)
	// POST /api/v1/dividends/settle
	Settle(c *gin.Context)

	// ListDepositedAssets lists the assets ever deposited into a series
	// GET /api/v1/dividends/assets/:class_id/:nonce_id
	ListDepositedAssets(c *gin.Context)

	// GetEvents retrieves journaled events with optional filters
	// GET /api/v1/events?event_type=<type>&class_id=<id>&nonce_id=<id>&after_cursor=<cursor>&limit=<limit>
	GetEvents(c *gin.Context)

	// GetSettings reads the ledger admin addresses (requires API key authentication)
	// GET /api/v1/settings
	GetSettings(c *gin.Context)

	// SetController updates the controller address (requires API key authentication)
	// PUT /api/v1/settings/controller
	SetController(c *gin.Context)

	// SetAccountingEngine updates the accounting engine address (requires API key authentication)
	// PUT /api/v1/settings/accounting-engine
	SetAccountingEngine(c *gin.Context)

	// SetTranchingHelper updates the tranching helper address (requires API key authentication)
	// PUT /api/v1/settings/tranching-helper
	SetTranchingHelper(c *gin.Context)

	// CreateWebhookClient creates a new webhook client (requires API key authentication)
	// POST /api/v1/webhooks/clients
	CreateWebhookClient(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug   bool
	service *ledger.Service
	store   store.Store
}

// NewHandler creates a new REST API handler over the ledger service
func NewHandler(debug bool, service *ledger.Service, st store.Store) Handler {
	return &handler{
		debug:   debug,
		service: service,
		store:   st,
	}
}

// paramUint64 parses a numeric path parameter
func paramUint64(c *gin.Context, name string) (uint64, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return value, true
}

// CreateClass registers a new bond class
func (h *handler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	asset, err := domain.ParseAsset(req.PaymentAsset)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	classID, err := h.service.CreateClass(c.Request.Context(), ledger.CreateClassInput{
		AgentID:            req.AgentID,
		CouponRateBps:      req.CouponRateBps,
		MaturityPeriod:     time.Duration(req.MaturityPeriodSecs) * time.Second,
		SharpeRatioAtIssue: req.SharpeRatioAtIssue,
		MaxSupply:          req.MaxSupply,
		Tranche:            domain.Tranche(req.Tranche),
		PaymentAsset:       asset,
	})
	if err != nil {
		respondDomainError(c, err, "Failed to create bond class")
		return
	}

	c.JSON(http.StatusCreated, dto.CreateClassResponse{ClassID: classID})
}

// GetClass retrieves a bond class by id
func (h *handler) GetClass(c *gin.Context) {
	classID, ok := paramUint64(c, "class_id")
	if !ok {
		return
	}

	class, err := h.service.BondClass(c.Request.Context(), classID)
	if err != nil {
		respondDomainError(c, err, "Failed to get bond class")
		return
	}

	c.JSON(http.StatusOK, dto.ClassResponseFromSchema(class))
}

// CreateNonce opens a new issuance batch within a class
func (h *handler) CreateNonce(c *gin.Context) {
	classID, ok := paramUint64(c, "class_id")
	if !ok {
		return
	}

	var req dto.CreateNonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	nonceID, err := h.service.CreateNonce(c.Request.Context(), classID, req.PricePerBond)
	if err != nil {
		respondDomainError(c, err, "Failed to create bond nonce")
		return
	}

	c.JSON(http.StatusCreated, dto.CreateNonceResponse{ClassID: classID, NonceID: nonceID})
}

// GetNonce retrieves an issuance batch
func (h *handler) GetNonce(c *gin.Context) {
	classID, ok := paramUint64(c, "class_id")
	if !ok {
		return
	}
	nonceID, ok := paramUint64(c, "nonce_id")
	if !ok {
		return
	}

	nonce, err := h.service.BondNonce(c.Request.Context(), classID, nonceID)
	if err != nil {
		respondDomainError(c, err, "Failed to get bond nonce")
		return
	}

	c.JSON(http.StatusOK, dto.NonceResponseFromSchema(nonce))
}

// MarkRedeemable flips a batch's redeemable flag
func (h *handler) MarkRedeemable(c *gin.Context) {
	classID, ok := paramUint64(c, "class_id")
	if !ok {
		return
	}
	nonceID, ok := paramUint64(c, "nonce_id")
	if !ok {
		return
	}

	if err := h.service.MarkRedeemable(c.Request.Context(), classID, nonceID); err != nil {
		respondDomainError(c, err, "Failed to mark nonce redeemable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Issue mints bond units to a holder
func (h *handler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.service.Issue(c.Request.Context(), req.Holder, dto.DomainLegs(req.Legs)); err != nil {
		respondDomainError(c, err, "Failed to issue bonds")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Transfer moves bond units between holders. The authenticated JWT subject is
// the caller; authorization against from is the service's concern.
func (h *handler) Transfer(c *gin.Context) {
	caller := middleware.AuthSubject(c)

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	err := h.service.Transfer(c.Request.Context(), caller, req.From, req.To, dto.DomainLegs(req.Legs))
	if err != nil {
		respondDomainError(c, err, "Failed to transfer bonds")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Redeem retires matured bond units
func (h *handler) Redeem(c *gin.Context) {
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.service.Redeem(c.Request.Context(), req.Holder, dto.DomainLegs(req.Legs)); err != nil {
		respondDomainError(c, err, "Failed to redeem bonds")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Burn unconditionally retires bond units
func (h *handler) Burn(c *gin.Context) {
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.service.Burn(c.Request.Context(), req.Holder, dto.DomainLegs(req.Legs)); err != nil {
		respondDomainError(c, err, "Failed to burn bonds")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetApproval grants or revokes an operator for the authenticated holder
func (h *handler) SetApproval(c *gin.Context) {
	owner := middleware.AuthSubject(c)

	var req dto.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.service.SetApproval(c.Request.Context(), owner, req.Operator, req.Approved); err != nil {
		respondDomainError(c, err, "Failed to set approval")
		return
	}

	c.JSON(http.StatusOK, dto.ApprovalResponse{
		Owner:    owner,
		Operator: req.Operator,
		Approved: req.Approved,
	})
}

// GetApproval reads an operator approval state
func (h *handler) GetApproval(c *gin.Context) {
	owner := c.Param("owner")
	operator := c.Param("operator")

	approved, err := h.service.IsOperatorApproved(c.Request.Context(), owner, operator)
	if err != nil {
		respondDomainError(c, err, "Failed to get approval")
		return
	}

	c.JSON(http.StatusOK, dto.ApprovalResponse{
		Owner:    owner,
		Operator: operator,
		Approved: approved,
	})
}

// GetBalance reads a holder's balance in one series
func (h *handler) GetBalance(c *gin.Context) {
	holder := c.Param("holder")
	classID, ok := paramUint64(c, "class_id")
	if !ok {
		return
	}
	nonceID, ok := paramUint64(c, "nonce_id")
	if !ok {
		return
	}

	balance, err := h.service.BalanceOf(c.Request.Context(), holder, classID, nonceID)
	if err != nil {
		respondDomainError(c, err, "Failed to get balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		Holder:  holder,
		ClassID: classID,
		NonceID: nonceID,
		Balance: balance,
	})
}

// ListAgentClasses lists the classes issued by an agent, optionally filtered
// by tranche
func (h *handler) ListAgentClasses(c *gin.Context) {
	agentID := c.Param("agent_id")

	if tranche := c.Query("tranche"); tranche != "" {
		if !domain.IsValidTranche(domain.Tranche(tranche)) {
			respondValidationError(c, fmt.Sprintf("unknown tranche: %s", tranche))
			return
		}

		classes, err := h.service.ClassesByTranche(c.Request.Context(), agentID, domain.Tranche(tranche))
		if err != nil {
			respondInternalError(c, err, "Failed to list agent classes")
			return
		}

		response := dto.AgentClassesResponse{AgentID: agentID}
		for _, class := range classes {
			response.Classes = append(response.Classes, dto.ClassResponseFromSchema(class))
		}
		c.JSON(http.StatusOK, response)
		return
	}

	classIDs, err := h.service.AgentClassIDs(c.Request.Context(), agentID)
	if err != nil {
		respondInternalError(c, err, "Failed to list agent classes")
		return
	}

	c.JSON(http.StatusOK, dto.AgentClassesResponse{AgentID: agentID, ClassIDs: classIDs})
}

// Deposit distributes a dividend across a series
func (h *handler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	asset, err := domain.ParseAsset(req.Asset)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	err = h.service.Deposit(c.Request.Context(), req.Depositor, req.ClassID, req.NonceID, asset, req.Amount)
	if err != nil {
		respondDomainError(c, err, "Failed to deposit dividend")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DepositWaterfall splits a deposit across a senior and a junior series
func (h *handler) DepositWaterfall(c *gin.Context) {
	var req dto.WaterfallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	asset, err := domain.ParseAsset(req.Asset)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	seniorAmount, juniorAmount, err := h.service.DepositWaterfall(
		c.Request.Context(),
		req.Depositor,
		req.SeniorClassID,
		req.SeniorNonceID,
		req.JuniorClassID,
		req.JuniorNonceID,
		asset,
		req.TotalAmount,
		req.SeniorEntitlement,
	)
	if err != nil {
		respondDomainError(c, err, "Failed to deposit waterfall")
		return
	}

	c.JSON(http.StatusOK, dto.WaterfallResponse{
		SeniorAmount: seniorAmount,
		JuniorAmount: juniorAmount,
	})
}

// GetClaimable reads the claimable amount for one holder and asset
func (h *handler) GetClaimable(c *gin.Context) {
	holder := c.Param("holder")
	classID, ok := paramUint64(c, "class_id")
	if !ok {
		return
	}
	nonceID, ok := paramUint64(c, "nonce_id")
	if !ok {
		return
	}

	asset, err := domain.ParseAsset(c.Query("asset"))
	if err != nil {
		respondValidationError(c, fmt.Sprintf("invalid asset: %s", c.Query("asset")))
		return
	}

	claimable, err := h.service.Claimable(c.Request.Context(), holder, classID, nonceID, asset)
	if err != nil {
		respondDomainError(c, err, "Failed to get claimable amount")
		return
	}

	c.JSON(http.StatusOK, dto.ClaimableResponse{
		Holder:    holder,
		ClassID:   classID,
		NonceID:   nonceID,
		Asset:     asset.String(),
		Claimable: claimable,
	})
}

// Claim pays out one asset's accrued dividends to the authenticated holder
func (h *handler) Claim(c *gin.Context) {
	holder := middleware.AuthSubject(c)

	var req dto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	asset, err := domain.ParseAsset(req.Asset)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	amount, err := h.service.Claim(c.Request.Context(), holder, req.ClassID, req.NonceID, asset)
	if err != nil {
		respondDomainError(c, err, "Failed to claim dividend")
		return
	}

	c.JSON(http.StatusOK, dto.ClaimResponse{Asset: asset.String(), Amount: amount})
}

// ClaimAll pays out every deposited asset to the authenticated holder
func (h *handler) ClaimAll(c *gin.Context) {
	holder := middleware.AuthSubject(c)

	var req dto.ClaimAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	results, err := h.service.ClaimAll(c.Request.Context(), holder, req.ClassID, req.NonceID)
	if err != nil {
		respondDomainError(c, err, "Failed to claim dividends")
		return
	}

	c.JSON(http.StatusOK, dto.ClaimAllResponseFromResults(holder, req.ClassID, req.NonceID, results))
}

// Settle freezes accrual for two parties at their pre-delta balances
func (h *handler) Settle(c *gin.Context) {
	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	err := h.service.SettleOnTransfer(c.Request.Context(), req.From, req.To, req.ClassID, req.NonceID, req.Amount)
	if err != nil {
		respondDomainError(c, err, "Failed to settle")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListDepositedAssets lists the assets ever deposited into a series
func (h *handler) ListDepositedAssets(c *gin.Context) {
	classID, ok := paramUint64(c, "class_id")
	if !ok {
		return
	}
	nonceID, ok := paramUint64(c, "nonce_id")
	if !ok {
		return
	}

	assets, err := h.service.DepositedAssets(c.Request.Context(), classID, nonceID)
	if err != nil {
		respondInternalError(c, err, "Failed to list deposited assets")
		return
	}

	c.JSON(http.StatusOK, dto.DepositedAssetsResponse{
		ClassID: classID,
		NonceID: nonceID,
		Assets:  assets,
	})
}

// GetEvents retrieves journaled events with optional filters
func (h *handler) GetEvents(c *gin.Context) {
	filter, err := parseEventFilter(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	events, err := h.service.Events(c.Request.Context(), filter)
	if err != nil {
		respondInternalError(c, err, "Failed to get events")
		return
	}

	response := dto.ListEventsResponse{
		Events:     make([]dto.EventResponse, 0, len(events)),
		NextCursor: filter.AfterCursor,
	}
	for _, event := range events {
		response.Events = append(response.Events, dto.EventResponseFromSchema(event))
		response.NextCursor = event.Cursor
	}

	c.JSON(http.StatusOK, response)
}

// GetSettings reads the ledger admin addresses
func (h *handler) GetSettings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to get settings")
		return
	}

	c.JSON(http.StatusOK, dto.SettingsResponse{
		Controller:       settings.Controller,
		AccountingEngine: settings.AccountingEngine,
		TranchingHelper:  settings.TranchingHelper,
		UpdatedAt:        settings.UpdatedAt,
	})
}

// SetController updates the controller address
func (h *handler) SetController(c *gin.Context) {
	h.setSetting(c, h.service.SetController, "Failed to set controller")
}

// SetAccountingEngine updates the accounting engine address
func (h *handler) SetAccountingEngine(c *gin.Context) {
	h.setSetting(c, h.service.SetAccountingEngine, "Failed to set accounting engine")
}

// SetTranchingHelper updates the tranching helper address
func (h *handler) SetTranchingHelper(c *gin.Context) {
	h.setSetting(c, h.service.SetTranchingHelper, "Failed to set tranching helper")
}

func (h *handler) setSetting(c *gin.Context, apply func(ctx context.Context, value string) error, message string) {
	var req dto.SetAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := apply(c.Request.Context(), req.Address); err != nil {
		respondDomainError(c, err, message)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateWebhookClient creates a new webhook client
func (h *handler) CreateWebhookClient(c *gin.Context) {
	var req dto.CreateWebhookClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(h.debug); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	secret, err := generateWebhookSecret()
	if err != nil {
		respondInternalError(c, err, "Failed to create webhook client")
		return
	}

	filters, err := json.Marshal(req.EventFilters)
	if err != nil {
		respondInternalError(c, err, "Failed to create webhook client")
		return
	}

	client := &schema.WebhookClient{
		ClientID:      uuid.NewString(),
		WebhookURL:    req.WebhookURL,
		WebhookSecret: secret,
		EventFilters:  datatypes.JSON(filters),
		IsActive:      true,
	}

	if err := h.store.CreateWebhookClient(c.Request.Context(), client); err != nil {
		respondInternalError(c, err, "Failed to create webhook client")
		return
	}

	// The secret is returned exactly once, at registration.
	c.JSON(http.StatusCreated, dto.CreateWebhookClientResponse{
		ClientID:      client.ClientID,
		WebhookURL:    client.WebhookURL,
		WebhookSecret: client.WebhookSecret,
		EventFilters:  req.EventFilters,
		IsActive:      client.IsActive,
		CreatedAt:     client.CreatedAt,
		UpdatedAt:     client.UpdatedAt,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "bondledger-api",
	})
}

// generateWebhookSecret returns a fresh hex-encoded 256-bit HMAC secret
func generateWebhookSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// parseEventFilter parses the query parameters of the events endpoint
func parseEventFilter(c *gin.Context) (store.LedgerEventFilter, error) {
	filter := store.LedgerEventFilter{Limit: 50}

	if eventType := c.Query("event_type"); eventType != "" {
		et := domain.EventType(eventType)
		filter.EventType = &et
	}
	if raw := c.Query("class_id"); raw != "" {
		classID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid class_id: %s", raw)
		}
		filter.ClassID = &classID
	}
	if raw := c.Query("nonce_id"); raw != "" {
		nonceID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid nonce_id: %s", raw)
		}
		filter.NonceID = &nonceID
	}
	if raw := c.Query("after_cursor"); raw != "" {
		cursor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid after_cursor: %s", raw)
		}
		filter.AfterCursor = cursor
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 500 {
			return filter, fmt.Errorf("limit must be between 1 and 500")
		}
		filter.Limit = limit
	}

	return filter, nil
}
