package rest_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structfi/bondledger/internal/adapter"
	"github.com/structfi/bondledger/internal/api/middleware"
	"github.com/structfi/bondledger/internal/api/rest"
	"github.com/structfi/bondledger/internal/dividend"
	"github.com/structfi/bondledger/internal/ledger"
	"github.com/structfi/bondledger/internal/logger"
	"github.com/structfi/bondledger/internal/payments"
	"github.com/structfi/bondledger/internal/store"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const (
	testAPIKey = "test-api-key"

	holderA = "0xAaAa000000000000000000000000000000000001"
	holderB = "0xbBbB000000000000000000000000000000000002"
)

// testAPI wires a router over the in-memory store
type testAPI struct {
	router     *gin.Engine
	transferor *payments.Recorder
	store      store.Store
	privateKey *rsa.PrivateKey
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	publicKeyDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	publicKeyPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicKeyDER})

	st := store.NewMemoryStore()
	transferor := payments.NewRecorder()
	service := ledger.NewService(st, dividend.NewEngine(), transferor, nil, adapter.NewClock(), ledger.Config{})

	authCfg := middleware.AuthConfig{
		JWTPublicKey: string(publicKeyPEM),
		APIKeys:      []string{testAPIKey},
	}

	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(true, service, st), authCfg)

	return &testAPI{
		router:     router,
		transferor: transferor,
		store:      st,
		privateKey: privateKey,
	}
}

// holderToken signs a bearer token whose subject is the given holder
func (a *testAPI) holderToken(t *testing.T, holder string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   holder,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.privateKey)
	require.NoError(t, err)
	return token
}

// do performs a request with the given Authorization header value
func (a *testAPI) do(t *testing.T, method, path, authorization string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, req)
	return recorder
}

func (a *testAPI) asController(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	return a.do(t, method, path, "ApiKey "+testAPIKey, body)
}

func (a *testAPI) asHolder(t *testing.T, holder, method, path string, body any) *httptest.ResponseRecorder {
	return a.do(t, method, path, "Bearer "+a.holderToken(t, holder), body)
}

// createSeries creates a class and one nonce and returns the class id
func (a *testAPI) createSeries(t *testing.T) uint64 {
	t.Helper()

	resp := a.asController(t, http.MethodPost, "/api/v1/classes", gin.H{
		"agent_id":                "agent-1",
		"coupon_rate_bps":         500,
		"maturity_period_seconds": 3600,
		"sharpe_ratio_at_issue":   120,
		"max_supply":              "1000",
		"tranche":                 "standard",
		"payment_asset":           "native",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		ClassID uint64 `json:"class_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = a.asController(t, http.MethodPost, fmt.Sprintf("/api/v1/classes/%d/nonces", created.ClassID), gin.H{
		"price_per_bond": "100",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	return created.ClassID
}

func (a *testAPI) issue(t *testing.T, holder string, classID uint64, amount string) {
	t.Helper()
	resp := a.asController(t, http.MethodPost, "/api/v1/bonds/issue", gin.H{
		"holder": holder,
		"legs":   []gin.H{{"class_id": classID, "nonce_id": 0, "amount": amount}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "bondledger-api")
}

func TestAuthBoundaries(t *testing.T) {
	api := newTestAPI(t)

	t.Run("controller route rejects missing credentials", func(t *testing.T) {
		resp := api.do(t, http.MethodPost, "/api/v1/classes", "", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("controller route rejects invalid API key", func(t *testing.T) {
		resp := api.do(t, http.MethodPost, "/api/v1/classes", "ApiKey wrong-key", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("controller route rejects holder token", func(t *testing.T) {
		resp := api.asHolder(t, holderA, http.MethodPost, "/api/v1/classes", gin.H{})
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("holder route rejects API key", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/bonds/transfer", gin.H{})
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("read views are public", func(t *testing.T) {
		classID := api.createSeries(t)
		resp := api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/classes/%d", classID), "", nil)
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestCreateClassValidation(t *testing.T) {
	api := newTestAPI(t)

	t.Run("rejects zero max supply", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/classes", gin.H{
			"agent_id":                "agent-1",
			"maturity_period_seconds": 3600,
			"max_supply":              "0",
			"tranche":                 "standard",
			"payment_asset":           "native",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("rejects unknown tranche", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/classes", gin.H{
			"agent_id":                "agent-1",
			"maturity_period_seconds": 3600,
			"max_supply":              "1000",
			"tranche":                 "mezzanine",
			"payment_asset":           "native",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("rejects malformed asset", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/classes", gin.H{
			"agent_id":                "agent-1",
			"maturity_period_seconds": 3600,
			"max_supply":              "1000",
			"tranche":                 "standard",
			"payment_asset":           "erc20:not-an-address",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestIssueAndBalances(t *testing.T) {
	api := newTestAPI(t)
	classID := api.createSeries(t)
	api.issue(t, holderA, classID, "100")

	resp := api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/balances/%s/%d/0", holderA, classID), "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var balance struct {
		Balance string `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &balance))
	assert.Equal(t, "100", balance.Balance)

	t.Run("unknown series is a 404", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/bonds/issue", gin.H{
			"holder": holderA,
			"legs":   []gin.H{{"class_id": 999, "nonce_id": 0, "amount": "1"}},
		})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("cap overflow is a 422", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/bonds/issue", gin.H{
			"holder": holderA,
			"legs":   []gin.H{{"class_id": classID, "nonce_id": 0, "amount": "10000"}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestSeriesLookups(t *testing.T) {
	api := newTestAPI(t)
	classID := api.createSeries(t)

	resp := api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/classes/%d", classID), "", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/classes/%d/nonces/0", classID), "", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	t.Run("missing class is a 404", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, "/api/v1/classes/999", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())

		resp = api.do(t, http.MethodGet, "/api/v1/classes/999/nonces/0", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
	})

	t.Run("missing nonce is a 404", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/classes/%d/nonces/7", classID), "", nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("malformed holder address is a 400", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/balances/not-an-address/%d/0", classID), "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

		resp = api.do(t, http.MethodGet, "/api/v1/approvals/not-an-address/"+holderB, "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestTransfer(t *testing.T) {
	api := newTestAPI(t)
	classID := api.createSeries(t)
	api.issue(t, holderA, classID, "100")

	t.Run("holder moves own units", func(t *testing.T) {
		resp := api.asHolder(t, holderA, http.MethodPost, "/api/v1/bonds/transfer", gin.H{
			"from": holderA,
			"to":   holderB,
			"legs": []gin.H{{"class_id": classID, "nonce_id": 0, "amount": "40"}},
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		resp = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/balances/%s/%d/0", holderB, classID), "", nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"balance":"40"`)
	})

	t.Run("stranger cannot move someone else's units", func(t *testing.T) {
		resp := api.asHolder(t, holderB, http.MethodPost, "/api/v1/bonds/transfer", gin.H{
			"from": holderA,
			"to":   holderB,
			"legs": []gin.H{{"class_id": classID, "nonce_id": 0, "amount": "10"}},
		})
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("approved operator may move them", func(t *testing.T) {
		resp := api.asHolder(t, holderA, http.MethodPut, "/api/v1/approvals", gin.H{
			"operator": holderB,
			"approved": true,
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		resp = api.asHolder(t, holderB, http.MethodPost, "/api/v1/bonds/transfer", gin.H{
			"from": holderA,
			"to":   holderB,
			"legs": []gin.H{{"class_id": classID, "nonce_id": 0, "amount": "10"}},
		})
		assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	})

	t.Run("overdraw is a 422", func(t *testing.T) {
		resp := api.asHolder(t, holderA, http.MethodPost, "/api/v1/bonds/transfer", gin.H{
			"from": holderA,
			"to":   holderB,
			"legs": []gin.H{{"class_id": classID, "nonce_id": 0, "amount": "10000"}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestDividendFlow(t *testing.T) {
	api := newTestAPI(t)
	classID := api.createSeries(t)
	api.issue(t, holderA, classID, "100")

	depositBody := gin.H{
		"depositor": "0xDddD000000000000000000000000000000000009",
		"class_id":  classID,
		"nonce_id":  0,
		"asset":     "native",
		"amount":    "1000000000000000000000",
	}
	resp := api.asController(t, http.MethodPost, "/api/v1/dividends/deposit", depositBody)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.Len(t, api.transferor.Calls(), 1)

	t.Run("claimable view", func(t *testing.T) {
		resp := api.do(t, http.MethodGet,
			fmt.Sprintf("/api/v1/dividends/claimable/%s/%d/0?asset=native", holderA, classID), "", nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"claimable":"1000000000000000000000"`)
	})

	t.Run("deposited assets view", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/dividends/assets/%d/0", classID), "", nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"native"`)
	})

	t.Run("claim pays out once", func(t *testing.T) {
		resp := api.asHolder(t, holderA, http.MethodPost, "/api/v1/dividends/claim", gin.H{
			"class_id": classID,
			"nonce_id": 0,
			"asset":    "native",
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		assert.Contains(t, resp.Body.String(), `"amount":"1000000000000000000000"`)

		resp = api.asHolder(t, holderA, http.MethodPost, "/api/v1/dividends/claim", gin.H{
			"class_id": classID,
			"nonce_id": 0,
			"asset":    "native",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("zero deposit is a 400", func(t *testing.T) {
		body := gin.H{
			"depositor": "0xDddD000000000000000000000000000000000009",
			"class_id":  classID,
			"nonce_id":  0,
			"asset":     "native",
			"amount":    "0",
		}
		resp := api.asController(t, http.MethodPost, "/api/v1/dividends/deposit", body)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("wrong asset kind is a 422", func(t *testing.T) {
		body := gin.H{
			"depositor": "0xDddD000000000000000000000000000000000009",
			"class_id":  classID,
			"nonce_id":  0,
			"asset":     "erc20:0x5FbDB2315678afecb367f032d93F642f64180aa3",
			"amount":    "100",
		}
		resp := api.asController(t, http.MethodPost, "/api/v1/dividends/deposit", body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
	})
}

func TestSettle(t *testing.T) {
	api := newTestAPI(t)
	classID := api.createSeries(t)
	api.issue(t, holderA, classID, "100")

	t.Run("controller settles ahead of an external balance change", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/dividends/settle", gin.H{
			"from":     holderA,
			"to":       holderB,
			"class_id": classID,
			"nonce_id": 0,
			"amount":   "40",
		})
		assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	})

	t.Run("both parties empty is a 400", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/dividends/settle", gin.H{
			"from":     "",
			"to":       "",
			"class_id": classID,
			"nonce_id": 0,
			"amount":   "40",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	})

	t.Run("amount above the sender balance is a 422", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/dividends/settle", gin.H{
			"from":     holderA,
			"to":       holderB,
			"class_id": classID,
			"nonce_id": 0,
			"amount":   "10000",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
	})
}

func TestWaterfall(t *testing.T) {
	api := newTestAPI(t)

	newTrancheSeries := func(tranche string) uint64 {
		resp := api.asController(t, http.MethodPost, "/api/v1/classes", gin.H{
			"agent_id":                "agent-1",
			"coupon_rate_bps":         500,
			"maturity_period_seconds": 3600,
			"max_supply":              "1000",
			"tranche":                 tranche,
			"payment_asset":           "native",
		})
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
		var created struct {
			ClassID uint64 `json:"class_id"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

		resp = api.asController(t, http.MethodPost, fmt.Sprintf("/api/v1/classes/%d/nonces", created.ClassID), gin.H{
			"price_per_bond": "100",
		})
		require.Equal(t, http.StatusCreated, resp.Code)
		return created.ClassID
	}

	seniorClass := newTrancheSeries("senior")
	juniorClass := newTrancheSeries("junior")
	api.issue(t, holderA, seniorClass, "10")
	api.issue(t, holderB, juniorClass, "10")

	resp := api.asController(t, http.MethodPost, "/api/v1/dividends/waterfall", gin.H{
		"depositor":          "0xDddD000000000000000000000000000000000009",
		"senior_class_id":    seniorClass,
		"senior_nonce_id":    0,
		"junior_class_id":    juniorClass,
		"junior_nonce_id":    0,
		"asset":              "native",
		"total_amount":       "100",
		"senior_entitlement": "25",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"senior_amount":"25"`)
	assert.Contains(t, resp.Body.String(), `"junior_amount":"75"`)
}

func TestAgentClasses(t *testing.T) {
	api := newTestAPI(t)
	classID := api.createSeries(t)

	resp := api.do(t, http.MethodGet, "/api/v1/agents/agent-1/classes", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), fmt.Sprintf("%d", classID))

	t.Run("filtered by tranche", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, "/api/v1/agents/agent-1/classes?tranche=standard", "", nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"tranche":"standard"`)
	})

	t.Run("unknown tranche is a 400", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, "/api/v1/agents/agent-1/classes?tranche=bogus", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestEvents(t *testing.T) {
	api := newTestAPI(t)
	classID := api.createSeries(t)
	api.issue(t, holderA, classID, "100")

	resp := api.do(t, http.MethodGet, "/api/v1/events?event_type=bonds.issued", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var page struct {
		Events []struct {
			EventType string `json:"event_type"`
			Cursor    int64  `json:"cursor"`
		} `json:"events"`
		NextCursor int64 `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Len(t, page.Events, 1)
	assert.Equal(t, "bonds.issued", page.Events[0].EventType)
	assert.Equal(t, page.Events[0].Cursor, page.NextCursor)

	t.Run("bad cursor is a 400", func(t *testing.T) {
		resp := api.do(t, http.MethodGet, "/api/v1/events?after_cursor=abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestAdminSettings(t *testing.T) {
	api := newTestAPI(t)

	resp := api.asController(t, http.MethodPut, "/api/v1/settings/controller", gin.H{
		"address": "0xC0A7000000000000000000000000000000000001",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	t.Run("empty address is a 400", func(t *testing.T) {
		resp := api.asController(t, http.MethodPut, "/api/v1/settings/controller", gin.H{
			"address": "",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	resp = api.asController(t, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "0xC0A7000000000000000000000000000000000001")
}

func TestCreateWebhookClient(t *testing.T) {
	api := newTestAPI(t)

	t.Run("registers a client and returns the secret once", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/webhooks/clients", gin.H{
			"webhook_url":   "http://example.com/hook",
			"event_filters": []string{"*"},
		})
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

		var created struct {
			ClientID      string `json:"client_id"`
			WebhookSecret string `json:"webhook_secret"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ClientID)
		assert.Len(t, created.WebhookSecret, 64)

		clients, err := api.store.ListActiveWebhookClients(context.Background())
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, created.ClientID, clients[0].ClientID)
	})

	t.Run("rejects unsupported event filter", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/webhooks/clients", gin.H{
			"webhook_url":   "http://example.com/hook",
			"event_filters": []string{"bonds.exploded"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("rejects missing URL", func(t *testing.T) {
		resp := api.asController(t, http.MethodPost, "/api/v1/webhooks/clients", gin.H{
			"event_filters": []string{"*"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}
