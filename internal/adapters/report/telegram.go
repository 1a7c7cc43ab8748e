package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/alejandrodnm/polybias/internal/domain"
)

// Telegram implementa ports.ReportSink enviando el resumen del run como
// mensaje MarkdownV2 a un chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram crea el sink de Telegram con el token del bot y el chat destino.
func NewTelegram(botToken, chatID string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("report.NewTelegram: create bot: %w", err)
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("report.NewTelegram: invalid chat ID: %w", err)
	}
	return &Telegram{bot: bot, chatID: id}, nil
}

// Append envía el resumen del run.
func (t *Telegram) Append(_ context.Context, report domain.RunReport) error {
	msg := tgbotapi.NewMessage(t.chatID, formatTelegram(report))
	msg.ParseMode = "MarkdownV2"
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("report.Telegram: send: %w", err)
	}
	return nil
}

// formatTelegram construye el mensaje MarkdownV2 del resumen.
func formatTelegram(report domain.RunReport) string {
	var sb strings.Builder

	sb.WriteString("📊 *Resolution Bias*\n")
	fmt.Fprintf(&sb, "📅 %s\n\n", escapeMarkdownV2(report.RanAt.Format("2006-01-02 15:04 UTC")))

	for _, s := range []struct {
		name string
		r    domain.StrategyReport
	}{
		{"Blind Yes", report.BlindYes},
		{"Blind No", report.BlindNo},
	} {
		line := fmt.Sprintf("%s: %d-%d (%.1f%%)  pnl %+.2f  avg %.3f",
			s.name, s.r.Wins, s.r.Losses, s.r.WinRate*100, s.r.TotalPnL, s.r.AvgEntryPrice)
		sb.WriteString(escapeMarkdownV2(line))
		sb.WriteByte('\n')
	}

	counters := fmt.Sprintf("markets: %d, fallbacks: %d",
		report.MarketsAnalyzed, report.FallbackPricesUsed)
	fmt.Fprintf(&sb, "\n%s", escapeMarkdownV2(counters))

	return sb.String()
}

// escapeMarkdownV2 escapa los caracteres especiales de Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
