// Package notify delivers briefings over out-of-band channels. Stored
// notifications are the source of truth; delivery here is best-effort.
package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskplanner/internal/model"
	"taskplanner/internal/service"
)

// Telegram pushes briefing summaries to users who linked a chat ID.
type Telegram struct {
	api *tgbotapi.BotAPI
	log *slog.Logger
}

func New(token string, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Info("telegram push enabled", "account", api.Self.UserName)
	return &Telegram{api: api, log: log}, nil
}

// PushBriefing sends a short HTML rendering of the briefing. Users without a
// chat ID are skipped silently.
func (t *Telegram) PushBriefing(ctx context.Context, user *model.User, briefing *service.DailyBriefing) error {
	if user.TelegramChatID == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(*user.TelegramChatID, formatBriefing(briefing))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send briefing to chat %d: %w", *user.TelegramChatID, err)
	}
	return nil
}

func formatBriefing(b *service.DailyBriefing) string {
	var sb strings.Builder
	sb.WriteString("🌅 <b>Daily Report</b>\n")
	sb.WriteString(fmt.Sprintf("🗓 %s (%s)\n\n", b.Date, b.DayOfWeek))

	if len(b.MissedTasks) == 0 {
		sb.WriteString("No missed tasks yesterday. Keep it up!\n")
	} else {
		sb.WriteString(fmt.Sprintf("⚠️ <b>%d missed</b>\n", len(b.MissedTasks)))
		for _, task := range b.MissedTasks {
			sb.WriteString(fmt.Sprintf("• %s", html.EscapeString(strings.TrimSpace(task.Title))))
			if task.NextRunDate != nil {
				sb.WriteString(fmt.Sprintf(" → next %s", *task.NextRunDate))
			}
			sb.WriteByte('\n')
		}
	}

	if b.Stats != nil {
		sb.WriteString(fmt.Sprintf("\n📊 today: %d active · %d done · %d canceled",
			b.Stats.Active, b.Stats.Completed, b.Stats.Canceled))
	}
	return strings.TrimSpace(sb.String())
}
