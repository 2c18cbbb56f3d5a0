// File: internal/execution/binance.go
// ============================================
package execution

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gatiella/alpha-core/internal/risk"
	"github.com/gatiella/alpha-core/pkg/types"
)

// BinanceBroker is the Broker implementation adapted from the teacher's
// internal/binance client: signed REST calls over net/http, no SDK.
type BinanceBroker struct {
	apiKey     string
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewBinanceBroker builds a broker bound to the mainnet or testnet REST
// host depending on testnet.
func NewBinanceBroker(apiKey, secretKey string, testnet bool) *BinanceBroker {
	baseURL := "https://api.binance.com"
	if testnet {
		baseURL = "https://testnet.binance.vision"
	}
	return &BinanceBroker{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (b *BinanceBroker) sign(params string) string {
	mac := hmac.New(sha256.New, []byte(b.secretKey))
	mac.Write([]byte(params))
	return hex.EncodeToString(mac.Sum(nil))
}

func (b *BinanceBroker) signedDo(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query := params.Encode()
	query += "&signature=" + b.sign(query)

	reqURL := b.baseURL + path
	var req *http.Request
	var err error
	if method == http.MethodGet || method == http.MethodDelete {
		req, err = http.NewRequestWithContext(ctx, method, reqURL+"?"+query, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL, nil)
		req.URL.RawQuery = query
	}
	if err != nil {
		return nil, fmt.Errorf("execution: build request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execution: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("execution: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("execution: %s %s returned %d: %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

// Submit places a market or limit order and reports back the fill.
func (b *BinanceBroker) Submit(ctx context.Context, order OrderRequest) (types.FillReport, error) {
	side := "BUY"
	if order.Side == types.SideSell {
		side = "SELL"
	}

	params := url.Values{}
	params.Set("symbol", order.Symbol)
	params.Set("side", side)
	params.Set("quantity", strconv.FormatFloat(order.Quantity, 'f', -1, 64))
	switch order.Type {
	case OrderLimit:
		params.Set("type", "LIMIT")
		params.Set("timeInForce", "GTC")
		params.Set("price", strconv.FormatFloat(order.LimitPrice, 'f', -1, 64))
	default:
		params.Set("type", "MARKET")
	}

	body, err := b.signedDo(ctx, http.MethodPost, "/api/v3/order", params)
	if err != nil {
		return types.FillReport{Symbol: order.Symbol, Side: order.Side, Status: types.FillRejected}, err
	}

	var raw struct {
		OrderID       int64  `json:"orderId"`
		Status        string `json:"status"`
		ExecutedQty   string `json:"executedQty"`
		CummulativeQQ string `json:"cummulativeQuoteQty"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return types.FillReport{Symbol: order.Symbol, Side: order.Side, Status: types.FillRejected}, fmt.Errorf("execution: decode order response: %w", err)
	}

	executedQty, _ := strconv.ParseFloat(raw.ExecutedQty, 64)
	quoteQty, _ := strconv.ParseFloat(raw.CummulativeQQ, 64)
	fillPrice := 0.0
	if executedQty > 0 {
		fillPrice = quoteQty / executedQty
	}

	status := types.FillPartial
	switch raw.Status {
	case "FILLED":
		status = types.FillFilled
	case "REJECTED", "EXPIRED":
		status = types.FillRejected
	}

	return types.FillReport{
		Ticket: strconv.FormatInt(raw.OrderID, 10),
		Symbol: order.Symbol,
		Side:   order.Side,
		Volume: executedQty,
		Price:  fillPrice,
		Status: status,
	}, nil
}

// Modify always returns an error: Binance spot has no native
// order-amend endpoint, and this method neither cancels nor changes the
// resting order. It exists so BinanceBroker satisfies the Broker
// contract shared across execution backends.
func (b *BinanceBroker) Modify(ctx context.Context, ticket string, req ModifyRequest) error {
	return fmt.Errorf("execution: binance spot orders cannot be modified in place, cancel and resubmit ticket %s", ticket)
}

// Cancel cancels a resting order by its exchange ticket (order ID).
func (b *BinanceBroker) Cancel(ctx context.Context, ticket string) error {
	params := url.Values{}
	params.Set("orderId", ticket)
	_, err := b.signedDo(ctx, http.MethodDelete, "/api/v3/order", params)
	return err
}

// Positions reports non-zero spot balances as open positions. Spot
// trading carries no leverage/position concept, so quantity held is
// the position.
func (b *BinanceBroker) Positions(ctx context.Context) ([]types.Position, error) {
	body, err := b.signedDo(ctx, http.MethodGet, "/api/v3/account", url.Values{})
	if err != nil {
		return nil, err
	}

	var raw struct {
		Balances []struct {
			Asset  string `json:"asset"`
			Free   string `json:"free"`
			Locked string `json:"locked"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("execution: decode account response: %w", err)
	}

	var positions []types.Position
	for _, bal := range raw.Balances {
		free, _ := strconv.ParseFloat(bal.Free, 64)
		locked, _ := strconv.ParseFloat(bal.Locked, 64)
		qty := free + locked
		if qty <= 0 {
			continue
		}
		positions = append(positions, types.Position{
			Symbol:   bal.Asset,
			Quantity: qty,
			Side:     types.SideBuy,
		})
	}
	return positions, nil
}

// AccountStatus reports the USDT-denominated free+locked balance as
// both equity and balance; daily volatility and exposure are left to
// the caller to layer on from C1/C6's own state.
func (b *BinanceBroker) AccountStatus(ctx context.Context) (risk.AccountStatus, error) {
	body, err := b.signedDo(ctx, http.MethodGet, "/api/v3/account", url.Values{})
	if err != nil {
		return risk.AccountStatus{}, err
	}

	var raw struct {
		Balances []struct {
			Asset  string `json:"asset"`
			Free   string `json:"free"`
			Locked string `json:"locked"`
		} `json:"balances"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return risk.AccountStatus{}, fmt.Errorf("execution: decode account response: %w", err)
	}

	for _, bal := range raw.Balances {
		if bal.Asset != "USDT" {
			continue
		}
		free, _ := strconv.ParseFloat(bal.Free, 64)
		locked, _ := strconv.ParseFloat(bal.Locked, 64)
		total := free + locked
		return risk.AccountStatus{Equity: total, Balance: total}, nil
	}
	return risk.AccountStatus{}, nil
}

// GetCurrentPrice reads the exchange's last-trade price for symbol;
// cmd/engine's poll loop builds its bars from it. Kept from the
// teacher's client in near-original form.
func (b *BinanceBroker) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/api/v3/ticker/price?symbol="+url.QueryEscape(symbol), nil)
	if err != nil {
		return 0, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execution: get current price: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	var raw struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, fmt.Errorf("execution: decode price response: %w", err)
	}
	price, err := strconv.ParseFloat(raw.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("execution: parse price: %w", err)
	}
	return price, nil
}

var _ Broker = (*BinanceBroker)(nil)
