// File: internal/notify/telegram.go
// ============================================
package notify

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatiella/alpha-core/pkg/types"
)

// Notifier pushes accepted trades and C6 suppression reasons to a
// Telegram chat, adapted from the teacher's own notifier in near-
// identical HTTP-call shape.
type Notifier struct {
	botToken string
	chatID   string
	enabled  bool
	client   *http.Client
	log      zerolog.Logger
}

func New(botToken, chatID string, enabled bool, log zerolog.Logger) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		enabled:  enabled,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// NotifyTrade announces an accepted, sized trade.
func (n *Notifier) NotifyTrade(trade types.Trade) {
	emoji := "🚨"
	msg := fmt.Sprintf("%s <b>SIGNAL ACCEPTED</b> %s\n", emoji, emoji)
	msg += strings.Repeat("━", 28) + "\n\n"
	msg += fmt.Sprintf("💎 <b>%s</b> (%s)\n", trade.Symbol, trade.Timeframe)
	msg += fmt.Sprintf("📊 Score: <b>%.1f/10</b>\n", trade.Score)
	msg += fmt.Sprintf("🎚️ Confidence modifier: <b>%.2f</b>\n\n", trade.ConfidenceModifier)

	msg += "<b>📋 TRADE SETUP:</b>\n"
	msg += fmt.Sprintf("Action: <b>%s</b>\n", strings.ToUpper(string(trade.Action)))
	msg += fmt.Sprintf("💰 Entry: <code>%.5f</code>\n", trade.Entry)
	msg += fmt.Sprintf("📦 Quantity: <code>%.4f</code>\n", trade.Quantity)
	msg += fmt.Sprintf("🛑 Stop Loss: <code>%.5f</code> (%s)\n", trade.StopLoss, trade.Metadata.SLReason)
	msg += fmt.Sprintf("🎯 Take Profit: <code>%.5f</code> (%s)\n\n", trade.TakeProfit, trade.Metadata.TPReason)

	msg += "<b>💡 ANALYSIS:</b>\n"
	msg += fmt.Sprintf("Structure: %s (%.1f) · phase %s\n", trade.Metadata.MSDirection, trade.Metadata.MSScore, trade.Metadata.WyckoffPhase)
	msg += fmt.Sprintf("Flow: %s (%.1f) · VSA %s\n", trade.Metadata.OFDirection, trade.Metadata.OFScore, trade.Metadata.VSASignal)
	msg += fmt.Sprintf("Decision mode: %s", trade.Metadata.DecisionMode)

	n.sendMessage(msg)
}

// NotifySuppression announces a would-be signal that C5 or C6 rejected,
// generalized from the teacher's trade-only alerting to also surface
// why nothing was emitted.
func (n *Notifier) NotifySuppression(symbol string, tf types.Timeframe, reason string, kind types.ErrorKind) {
	msg := "🔕 <b>SIGNAL SUPPRESSED</b>\n\n"
	msg += fmt.Sprintf("Symbol: <b>%s</b> (%s)\n", symbol, tf)
	msg += fmt.Sprintf("Kind: %s\n", kind)
	msg += fmt.Sprintf("Reason: <code>%s</code>", reason)
	n.sendMessage(msg)
}

func (n *Notifier) NotifyStart() {
	msg := "🤖 <b>Engine Started</b>\n\n"
	msg += "✅ Monitoring configured symbols\n"
	msg += "📊 Alerts fire on accepted signals and on errors"
	n.sendMessage(msg)
}

func (n *Notifier) NotifyDailyReport(openPositions int, dailyPnL, openPnL float64) {
	emoji := "📊"
	if dailyPnL > 0 {
		emoji = "💰"
	} else if dailyPnL < 0 {
		emoji = "📉"
	}
	msg := fmt.Sprintf("%s <b>Daily Report</b>\n\n", emoji)
	msg += fmt.Sprintf("Open Positions: %d\n", openPositions)
	msg += fmt.Sprintf("Daily PnL: <b>%.2f</b>\n", dailyPnL)
	msg += fmt.Sprintf("Unrealized PnL: %.2f", openPnL)
	n.sendMessage(msg)
}

func (n *Notifier) NotifyError(errMsg string) {
	msg := fmt.Sprintf("⚠️ <b>Error</b>\n\n%s", errMsg)
	n.sendMessage(msg)
}

func (n *Notifier) sendMessage(message string) error {
	if !n.enabled {
		n.log.Debug().Msg("telegram notifications disabled")
		return nil
	}

	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)
	data := url.Values{}
	data.Set("chat_id", n.chatID)
	data.Set("text", message)
	data.Set("parse_mode", "HTML")
	data.Set("disable_web_page_preview", "true")

	resp, err := n.client.PostForm(apiURL, data)
	if err != nil {
		n.log.Error().Err(err).Msg("telegram send failed")
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		n.log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("telegram API error")
		return fmt.Errorf("notify: telegram API error: %s", string(body))
	}
	return nil
}
