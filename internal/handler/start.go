package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/swkombat/ucbot/internal/telegram"
)

const welcomeText = "🎮 Botga xush kelibsiz!\n\n" +
	"Bu bot orqali siz do'stlaringizni taklif qilib UC ishlashingiz va konkurslarda qatnashishingiz mumkin.\n\n" +
	"Quyidagi menyudan bo'limni tanlang:"

// handleStart registers the user (crediting the inviter when a referral
// payload is present) and shows the main menu, or the subscription prompt
// if the user is not yet a member of both surfaces.
func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil || msg.Chat.Type != "private" {
		return
	}
	userID := msg.From.ID

	payload := ""
	if fields := strings.Fields(msg.Text); len(fields) > 1 {
		payload = fields[1]
	}

	created, err := h.referrals.Register(ctx, userID, payload)
	if err != nil {
		slog.Error("register user", "user_id", userID, "error", err)
	}
	if created {
		slog.Info("new user registered", "user_id", userID, "referral", payload != "")
	}

	if !h.checker.IsEligible(ctx, userID) {
		text, kb := telegram.SubscriptionPrompt(h.cfg.ChannelID, h.cfg.GroupID, h.cfg.YoutubeLink, 0)
		h.sendText(ctx, userID, text, kb)
		return
	}

	h.sendMainMenu(ctx, userID, welcomeText)
}
