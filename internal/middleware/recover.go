package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Recover keeps one misbehaving update from taking the poller down. The
// panic is logged with whichever ids the update carries so the offending
// user or callback can be traced.
func Recover() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					attrs := []any{
						"panic", r,
						"update_id", update.ID,
					}
					switch {
					case update.Message != nil && update.Message.From != nil:
						attrs = append(attrs, "user_id", update.Message.From.ID)
					case update.CallbackQuery != nil:
						attrs = append(attrs, "user_id", update.CallbackQuery.From.ID, "callback_data", update.CallbackQuery.Data)
					}
					attrs = append(attrs, "stack", string(debug.Stack()))
					slog.Error("panic recovered in handler", attrs...)
				}
			}()
			next(ctx, b, update)
		}
	}
}
