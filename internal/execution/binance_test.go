// File: internal/execution/binance_test.go
// ============================================
package execution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatiella/alpha-core/pkg/types"
)

func newTestBroker(t *testing.T, handler http.HandlerFunc) (*BinanceBroker, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	b := NewBinanceBroker("test-key", "test-secret", true)
	b.baseURL = server.URL
	return b, server
}

func TestSubmit_ParsesFillReport(t *testing.T) {
	b, server := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-MBX-APIKEY"))
		assert.NotEmpty(t, r.URL.Query().Get("signature"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orderId":            12345,
			"status":             "FILLED",
			"executedQty":        "0.5",
			"cummulativeQuoteQty": "10000",
		})
	})
	defer server.Close()

	report, err := b.Submit(context.Background(), OrderRequest{
		Symbol: "BTCUSDT", Side: types.SideBuy, Quantity: 0.5, Type: OrderMarket,
	})
	require.NoError(t, err)
	assert.Equal(t, "12345", report.Ticket)
	assert.Equal(t, types.FillFilled, report.Status)
	assert.InDelta(t, 20000.0, report.Price, 1e-9)
}

func TestSubmit_RejectedStatusIsReported(t *testing.T) {
	b, server := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"orderId":            1,
			"status":             "REJECTED",
			"executedQty":        "0",
			"cummulativeQuoteQty": "0",
		})
	})
	defer server.Close()

	report, err := b.Submit(context.Background(), OrderRequest{
		Symbol: "BTCUSDT", Side: types.SideSell, Quantity: 1, Type: OrderMarket,
	})
	require.NoError(t, err)
	assert.Equal(t, types.FillRejected, report.Status)
}

func TestSubmit_NonOKStatusIsError(t *testing.T) {
	b, server := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1013,"msg":"bad quantity"}`))
	})
	defer server.Close()

	_, err := b.Submit(context.Background(), OrderRequest{Symbol: "BTCUSDT", Side: types.SideBuy, Quantity: 0, Type: OrderMarket})
	require.Error(t, err)
}

func TestAccountStatus_ReadsUSDTBalance(t *testing.T) {
	b, server := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"balances": []map[string]string{
				{"asset": "BTC", "free": "0.1", "locked": "0"},
				{"asset": "USDT", "free": "5000", "locked": "500"},
			},
		})
	})
	defer server.Close()

	status, err := b.AccountStatus(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 5500.0, status.Equity, 1e-9)
}

func TestPositions_SkipsZeroBalances(t *testing.T) {
	b, server := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"balances": []map[string]string{
				{"asset": "BTC", "free": "0.1", "locked": "0"},
				{"asset": "ETH", "free": "0", "locked": "0"},
			},
		})
	})
	defer server.Close()

	positions, err := b.Positions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "BTC", positions[0].Symbol)
}

func TestModify_ReturnsErrorForSpotOrders(t *testing.T) {
	b := NewBinanceBroker("k", "s", true)
	err := b.Modify(context.Background(), "1", ModifyRequest{})
	require.Error(t, err)
}

func TestCancel_SendsSignedDelete(t *testing.T) {
	b, server := newTestBroker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "CANCELED"})
	})
	defer server.Close()

	err := b.Cancel(context.Background(), "999")
	require.NoError(t, err)
}
