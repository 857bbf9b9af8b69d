package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/storynest-vn/storynest/config"
	"github.com/storynest-vn/storynest/models"
	"github.com/storynest-vn/storynest/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T, method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func setAppConfig(env string) {
	appCfg = &config.Config{
		Env: env,
		Momo: config.MomoConfig{
			ConversionRate: 10,
			MinTopupAmount: 1000,
		},
	}
}

func TestGetWalletBalance_Handler(t *testing.T) {
	c, w := newTestContext(t, http.MethodGet, "/v1/wallet/balance", "")
	c.Set("user", models.User{ID: 1, Username: "reader", WalletCoins: 740})

	GetWalletBalance(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(740), data["balance"])
	assert.Equal(t, float64(1), data["user_id"])
}

func TestGetWalletBalance_NoUser(t *testing.T) {
	c, w := newTestContext(t, http.MethodGet, "/v1/wallet/balance", "")

	GetWalletBalance(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBuyCoins_RefusedInProduction(t *testing.T) {
	setAppConfig("production")

	c, w := newTestContext(t, http.MethodPost, "/v1/wallet/buy-coins", `{"amount": 100}`)
	c.Set("user", models.User{ID: 1, WalletCoins: 0})

	BuyCoins(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBuyCoins_InvalidAmount(t *testing.T) {
	setAppConfig("development")

	c, w := newTestContext(t, http.MethodPost, "/v1/wallet/buy-coins", `{"amount": -5}`)
	c.Set("user", models.User{ID: 1})

	BuyCoins(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, utils.KindInvalidAmount, resp["kind"])
}

func TestBuyCoins_Success(t *testing.T) {
	setAppConfig("development")

	db, mock := setupMockDB(t)
	config.DB = db

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows(1, 0))
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "wallet_transactions"`).WillReturnRows(idRow(1))
	mock.ExpectCommit()

	c, w := newTestContext(t, http.MethodPost, "/v1/wallet/buy-coins", `{"amount": 1000, "payment_method": "test"}`)
	c.Set("user", models.User{ID: 1, WalletCoins: 0})

	BuyCoins(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1000), data["new_balance"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckPurchase_Handler(t *testing.T) {
	db, mock := setupMockDB(t)
	config.DB = db

	mock.ExpectQuery(`SELECT count\(\*\) FROM "purchases"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	c, w := newTestContext(t, http.MethodGet, "/v1/wallet/purchases/5", "")
	c.Set("user", models.User{ID: 1})
	c.Params = gin.Params{{Key: "chapterId", Value: "5"}}

	CheckPurchase(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["purchased"])
}

func TestUnlockChapter_InvalidChapterID(t *testing.T) {
	c, w := newTestContext(t, http.MethodPost, "/v1/wallet/unlock-chapter/abc", "")
	c.Set("user", models.User{ID: 1})
	c.Params = gin.Params{{Key: "chapterId", Value: "abc"}}

	UnlockChapter(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMomoIPN_MalformedPayload(t *testing.T) {
	setAppConfig("development")
	momoClient = testGatewayClient("")

	c, w := newTestContext(t, http.MethodPost, "/v1/payment/momo-ipn", `{"orderId": `)

	MomoIPN(c)

	// The gateway always gets a 200 ack; failures are signalled in the body.
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(-1), resp["resultCode"])
}

func TestMomoIPN_ForgedSignature(t *testing.T) {
	setAppConfig("development")
	momoClient = testGatewayClient("")

	body := `{"orderId": "ORDER_1_x", "amount": 50000, "resultCode": 0, "signature": "forged"}`
	c, w := newTestContext(t, http.MethodPost, "/v1/payment/momo-ipn", body)

	MomoIPN(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(-1), resp["resultCode"])
}

func TestSimulateMomoSuccess_OtherUsersOrder(t *testing.T) {
	setAppConfig("development")
	momoClient = testGatewayClient("")

	db, mock := setupMockDB(t)
	config.DB = db

	// The order belongs to user 7; user 1 asking for it sees not-found
	// and nothing is credited.
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, w := newTestContext(t, http.MethodPost, "/v1/payment/test/simulate-success", `{"order_id": "ORDER_1_x"}`)
	c.Set("user", models.User{ID: 1})

	SimulateMomoSuccess(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustUserWallet_RequiresAdmin(t *testing.T) {
	c, w := newTestContext(t, http.MethodPost, "/v1/admin/wallet/2/adjust", `{"amount": 100, "note": "promo"}`)
	c.Set("user", models.User{ID: 1, IsAdmin: false})
	c.Params = gin.Params{{Key: "userId", Value: "2"}}

	AdjustUserWallet(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdjustUserWallet_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	config.DB = db

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows(2, 500))
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "wallet_transactions"`).WillReturnRows(idRow(9))
	mock.ExpectCommit()

	c, w := newTestContext(t, http.MethodPost, "/v1/admin/wallet/2/adjust", `{"amount": -200, "note": "chargeback"}`)
	c.Set("user", models.User{ID: 1, Username: "ops", IsAdmin: true})
	c.Params = gin.Params{{Key: "userId", Value: "2"}}

	AdjustUserWallet(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(300), data["new_balance"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
