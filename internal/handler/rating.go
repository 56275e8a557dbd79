package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/swkombat/ucbot/internal/config"
	"github.com/swkombat/ucbot/internal/telegram"
)

func (h *Handler) handleRatingMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	h.inputs.clear(userID)
	h.sendText(ctx, userID, "📊 Referal reyting davri:", telegram.ReplyKeyboard(
		[]string{btnRatingWeek, btnRatingCustom},
		[]string{btnBack},
	))
}

func (h *Handler) handleRatingWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	end := time.Now()
	start := end.AddDate(0, 0, -config.RatingDefaultDays)
	h.showRating(ctx, userID, start, end, end)
}

// handleRatingCustom starts the two-step date range input.
func (h *Handler) handleRatingCustom(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	h.inputs.set(userID, pendingInput{kind: inputRatingStart})
	h.sendText(ctx, userID, "📅 Boshlanish sanasini yuboring (YYYY-MM-DD):", telegram.ReplyKeyboard([]string{btnBack}))
}

func (h *Handler) processRatingStart(ctx context.Context, userID int64, text string) {
	text = strings.TrimSpace(text)
	if _, err := time.Parse(config.DateLayout, text); err != nil {
		h.sendText(ctx, userID, "❌ Sana formati noto'g'ri. YYYY-MM-DD ko'rinishida yuboring, masalan: 2026-08-01", nil)
		return
	}
	h.inputs.set(userID, pendingInput{kind: inputRatingEnd, start: text})
	h.sendText(ctx, userID, "📅 Tugash sanasini yuboring (YYYY-MM-DD):", nil)
}

func (h *Handler) processRatingEnd(ctx context.Context, userID int64, startText, text string) {
	end, err := time.Parse(config.DateLayout, strings.TrimSpace(text))
	if err != nil {
		h.sendText(ctx, userID, "❌ Sana formati noto'g'ri. YYYY-MM-DD ko'rinishida yuboring, masalan: 2026-08-30", nil)
		return
	}
	start, err := time.Parse(config.DateLayout, startText)
	if err != nil || end.Before(start) {
		h.inputs.clear(userID)
		h.sendText(ctx, userID, "❌ Tugash sanasi boshlanish sanasidan oldin bo'lishi mumkin emas.", nil)
		return
	}
	h.inputs.clear(userID)
	// the end day is inclusive
	h.showRating(ctx, userID, start, end.AddDate(0, 0, 1), end)
}

func (h *Handler) showRating(ctx context.Context, userID int64, start, end, displayEnd time.Time) {
	entries, err := h.referrals.Rating(ctx, start, end)
	if err != nil {
		slog.Error("load rating", "error", err)
		h.sendText(ctx, userID, "❌ Reytingni yuklashda xatolik yuz berdi. Keyinroq urinib ko'ring.", nil)
		return
	}

	if len(entries) == 0 {
		h.sendMainMenu(ctx, userID, "📊 Bu davrda hali hech kim do'st taklif qilmagan.")
		return
	}
	if len(entries) > config.RatingMaxRows {
		entries = entries[:config.RatingMaxRows]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Referal reyting (%s / %s):\n\n",
		start.Format(config.DateLayout), displayEnd.Format(config.DateLayout))
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. %s: %d ta do'st\n", i+1, h.displayName(ctx, e.UserID), e.Referrals)
	}

	h.sendMainMenu(ctx, userID, sb.String())
}

// displayName resolves a user for leaderboard display, falling back to the
// bare id when the profile is not reachable.
func (h *Handler) displayName(ctx context.Context, userID int64) string {
	username, firstName, err := h.notifier.GetProfile(ctx, userID)
	if err == nil {
		if username != "" {
			return "@" + username
		}
		if firstName != "" {
			return firstName
		}
	}
	return fmt.Sprintf("ID:%d", userID)
}
