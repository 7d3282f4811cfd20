// Package integration provides end-to-end tests for the stamp card API.
// Tests the full present, scan and credit flow against both PostgreSQL and MySQL databases.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nailbliss/stampcard/internal/app"
	"github.com/nailbliss/stampcard/internal/config"
	loyaltyDTO "github.com/nailbliss/stampcard/internal/loyalty/http/dto"
	qrtokenDTO "github.com/nailbliss/stampcard/internal/qrtoken/http/dto"
	redemptionDTO "github.com/nailbliss/stampcard/internal/redemption/http/dto"
	"github.com/nailbliss/stampcard/internal/testutil"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container     *app.Container
	db            *sql.DB
	server        *httptest.Server
	cancel        context.CancelFunc
	dbDriver      string
	customerID    uuid.UUID
	customerToken string
	staffToken    string
}

// makeRequest performs an HTTP request with the given session token and returns the
// response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
	sessionToken string,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+sessionToken)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		testutil.SkipIfNoPostgres(t)
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		testutil.SkipIfNoMySQL(t)
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	cfg := &config.Config{
		DBDriver:               dbDriver,
		DBConnectionString:     dsn,
		DBMaxOpenConnections:   10,
		DBMaxIdleConnections:   5,
		DBConnMaxLifetime:      time.Hour,
		ServerHost:             "localhost",
		ServerPort:             8080,
		LogLevel:               "error",
		AuthJWTSecret:          "integration-secret",
		AuthJWTIssuer:          "stampcard",
		AuthJWTAudience:        "stampcard",
		AuthSessionTTL:         time.Hour,
		QRTokenFormat:          "legacy",
		QRTokenObfuscationKey:  "nailbliss-2024",
		QRTokenFreshnessWindow: 60 * time.Second,
		QRTokenMaxClockSkew:    5 * time.Second,
		QRRenderer:             "local",
		QRRenderSize:           200,
		RedemptionIdleTimeout:  time.Minute,
	}

	container := app.NewContainer(cfg)

	customerID := testutil.CreateTestProfile(t, db, dbDriver, testutil.Profile{FirstName: "Ana", LastName: "Souza"})
	staffID := testutil.CreateTestProfile(t, db, dbDriver, testutil.Profile{Role: "staff"})
	testutil.SetTestPoints(t, db, dbDriver, customerID, 4)

	identityUseCase, err := container.IdentityUseCase()
	require.NoError(t, err, "failed to get identity use case")
	customerToken, err := identityUseCase.MintSession(context.Background(), customerID, time.Hour)
	require.NoError(t, err, "failed to mint customer session")
	staffToken, err := identityUseCase.MintSession(context.Background(), staffID, time.Hour)
	require.NoError(t, err, "failed to mint staff session")

	ctx, cancel := context.WithCancel(context.Background())
	httpSrv, err := container.HTTPServer(ctx)
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	testServer := httptest.NewServer(handler)

	t.Logf("Integration test setup complete for %s", dbDriver)

	return &integrationTestContext{
		container:     container,
		db:            db,
		server:        testServer,
		cancel:        cancel,
		dbDriver:      dbDriver,
		customerID:    customerID,
		customerToken: customerToken,
		staffToken:    staffToken,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}
	if ctx.cancel != nil {
		ctx.cancel()
	}
	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}
	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}

	t.Logf("Integration test teardown complete for %s", ctx.dbDriver)
}

var databases = []struct {
	name     string
	dbDriver string
}{
	{"PostgreSQL", "postgres"},
	{"MySQL", "mysql"},
}

// TestIntegration_Health_BasicChecks validates the health and readiness endpoints.
func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range databases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			t.Run("01_HealthCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "healthy", response["status"])
			})

			t.Run("02_ReadinessCheck", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil, "")
				assert.Equal(t, http.StatusOK, resp.StatusCode)

				var response map[string]any
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "ready", response["status"])
			})
		})
	}
}

// TestIntegration_Redemption_CompleteFlow walks a customer code from issue through scan,
// confirmation and the updated card.
func TestIntegration_Redemption_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range databases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var qrToken string

			t.Run("01_Unauthenticated", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/card", nil, "")
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})

			t.Run("02_CustomerViewsCard", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/card", nil, ctx.customerToken)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var card loyaltyDTO.SnapshotResponse
				require.NoError(t, json.Unmarshal(body, &card))
				assert.Equal(t, "Ana Souza", card.Profile.DisplayName)
				assert.Equal(t, 4, card.Card.Points)
				assert.Equal(t, 1, card.Card.StampsRemaining)
			})

			t.Run("03_CustomerIssuesCode", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/card/qr", nil, ctx.customerToken)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var frame qrtokenDTO.FrameResponse
				require.NoError(t, json.Unmarshal(body, &frame))
				require.NotEmpty(t, frame.Token)
				assert.True(t, strings.HasPrefix(frame.Image.Source, "data:image/png;base64,"))
				assert.Equal(t, time.Minute, frame.ExpiresAt.Sub(frame.IssuedAt))
				qrToken = frame.Token
			})

			t.Run("04_CustomerCannotScan", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/redemptions/scan",
					redemptionDTO.ScanRequest{Token: qrToken}, ctx.customerToken)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			})

			t.Run("05_StaffScans", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/redemptions/scan",
					redemptionDTO.ScanRequest{Token: qrToken}, ctx.staffToken)
				require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

				var attempt redemptionDTO.AttemptResponse
				require.NoError(t, json.Unmarshal(body, &attempt))
				assert.Equal(t, ctx.customerID.String(), attempt.CustomerID)
				assert.Equal(t, "pending_confirmation", attempt.Status)
				require.NotNil(t, attempt.Customer)
				assert.Equal(t, 4, attempt.Customer.Card.Points)
			})

			t.Run("06_SecondScanWhilePending", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/redemptions/scan",
					redemptionDTO.ScanRequest{Token: qrToken}, ctx.staffToken)
				assert.Equal(t, http.StatusConflict, resp.StatusCode)
			})

			t.Run("07_StaffConfirms", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/redemptions/current/confirm", nil, ctx.staffToken)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var result redemptionDTO.ResultResponse
				require.NoError(t, json.Unmarshal(body, &result))
				assert.Equal(t, "confirmed", result.Attempt.Status)
				require.NotNil(t, result.Customer)
				assert.Equal(t, 5, result.Customer.Card.Points)
				assert.True(t, result.Customer.Card.RewardReady)
			})

			t.Run("08_NothingLeftToConfirm", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/redemptions/current/confirm", nil, ctx.staffToken)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})

			t.Run("09_ScanAndCancel", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/redemptions/scan",
					redemptionDTO.ScanRequest{Token: qrToken}, ctx.staffToken)
				require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

				resp, body = ctx.makeRequest(t, http.MethodPost, "/v1/redemptions/current/cancel", nil, ctx.staffToken)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var attempt redemptionDTO.AttemptResponse
				require.NoError(t, json.Unmarshal(body, &attempt))
				assert.Equal(t, "cancelled", attempt.Status)
			})

			t.Run("10_MalformedCode", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/redemptions/scan",
					redemptionDTO.ScanRequest{Token: "not-a-code"}, ctx.staffToken)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
				assert.Contains(t, string(body), "Invalid or expired code")
			})

			t.Run("11_CardReflectsCredit", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/card", nil, ctx.customerToken)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var card loyaltyDTO.SnapshotResponse
				require.NoError(t, json.Unmarshal(body, &card))
				assert.Equal(t, 5, card.Card.Points)
				assert.Equal(t, 5, card.Card.TotalVisits)
				assert.NotNil(t, card.Card.LastVisitAt)
				assert.Equal(t, 1, testutil.CountVisits(t, ctx.db, ctx.dbDriver, ctx.customerID))
			})
		})
	}
}

// TestIntegration_PresenterStream checks that the websocket pushes a code and a countdown
// as soon as it opens.
func TestIntegration_PresenterStream(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t, "postgres")
	defer teardownIntegrationTest(t, ctx)

	dialCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ctx.server.URL, "http") + "/v1/card/qr/stream?access_token=" + ctx.customerToken
	conn, _, err := websocket.Dial(dialCtx, url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	var first qrtokenDTO.StreamMessage
	require.NoError(t, wsjson.Read(dialCtx, conn, &first))
	assert.Equal(t, qrtokenDTO.StreamMessageToken, first.Type)
	require.NotNil(t, first.Frame)
	assert.NotEmpty(t, first.Frame.Token)

	var second qrtokenDTO.StreamMessage
	require.NoError(t, wsjson.Read(dialCtx, conn, &second))
	assert.Equal(t, qrtokenDTO.StreamMessageCountdown, second.Type)
	require.NotNil(t, second.RemainingSeconds)
	assert.Equal(t, 60, *second.RemainingSeconds)
}
