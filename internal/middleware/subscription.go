package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/swkombat/ucbot/internal/service"
	"github.com/swkombat/ucbot/internal/telegram"
)

// SubscriptionGate enforces the membership requirement for every gated
// update in one place. /start and the join/confirmation callbacks are
// exempt: the first so a new user can reach the subscription prompt at
// all, the latter because the join flow runs its own eligibility check
// with a deferred-confirmation path.
func SubscriptionGate(checker service.MembershipChecker, channelID, groupID, youtubeLink, botUsername string) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message != nil {
				msg := update.Message
				if msg.From == nil || msg.Chat.Type != "private" {
					next(ctx, b, update)
					return
				}
				if strings.HasPrefix(msg.Text, "/start") {
					next(ctx, b, update)
					return
				}
				if checker.IsEligible(ctx, msg.From.ID) {
					next(ctx, b, update)
					return
				}
				promptOrInstruct(ctx, b, msg.From.ID, channelID, groupID, youtubeLink, botUsername)
				return
			}

			if update.CallbackQuery != nil {
				cb := update.CallbackQuery
				if exemptCallback(cb.Data) {
					next(ctx, b, update)
					return
				}
				if checker.IsEligible(ctx, cb.From.ID) {
					next(ctx, b, update)
					return
				}
				text, kb := telegram.SubscriptionPrompt(channelID, groupID, youtubeLink, 0)
				_, err := b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID:      cb.From.ID,
					Text:        text,
					ReplyMarkup: kb,
				})
				alert := "❗ Obuna topilmadi. Sizga shaxsiy xabar yubordim, obuna bo'ling."
				if err != nil {
					alert = fmt.Sprintf("❗ Iltimos, botga yozing: https://t.me/%s va /start bosing.", botUsername)
				}
				b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
					CallbackQueryID: cb.ID,
					Text:            alert,
					ShowAlert:       true,
				})
				return
			}

			next(ctx, b, update)
		}
	}
}

func exemptCallback(data string) bool {
	return strings.HasPrefix(data, "join_") ||
		strings.HasPrefix(data, "confirm_sub_") ||
		data == "check_sub"
}

func promptOrInstruct(ctx context.Context, b *bot.Bot, userID int64, channelID, groupID, youtubeLink, botUsername string) {
	text, kb := telegram.SubscriptionPrompt(channelID, groupID, youtubeLink, 0)
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      userID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		slog.Warn("subscription prompt delivery failed", "user_id", userID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: userID,
			Text:   fmt.Sprintf("Iltimos, botga yozing: https://t.me/%s va /start ni bosing.", botUsername),
		})
	}
}
