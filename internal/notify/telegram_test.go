// File: internal/notify/telegram_test.go
// ============================================
package notify

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/gatiella/alpha-core/pkg/types"
)

func TestNotifyTrade_DisabledSkipsNetworkCall(t *testing.T) {
	n := New("tok", "chat", false, zerolog.Nop())

	trade := types.Trade{
		Symbol: "BTCUSDT", Timeframe: types.TF1Hour, Action: types.SideBuy,
		Entry: 100, StopLoss: 98, TakeProfit: 106, Quantity: 1, Score: 8,
		ConfidenceModifier: 1.1,
		Metadata:           types.TradeMetadata{MSDirection: "uptrend", OFDirection: "up", DecisionMode: "rule"},
	}
	assert.NotPanics(t, func() { n.NotifyTrade(trade) })
}

func TestNotifySuppression_DisabledSkipsNetworkCall(t *testing.T) {
	n := New("tok", "chat", false, zerolog.Nop())
	assert.NotPanics(t, func() {
		n.NotifySuppression("BTCUSDT", types.TF1Hour, "Score < 7.0", types.KindNone)
	})
}

func TestNotifyDailyReport_DisabledSkipsNetworkCall(t *testing.T) {
	n := New("tok", "chat", false, zerolog.Nop())
	assert.NotPanics(t, func() { n.NotifyDailyReport(2, 150.5, -20.0) })
}
