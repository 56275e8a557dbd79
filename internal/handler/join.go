package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/swkombat/ucbot/internal/domain"
	"github.com/swkombat/ucbot/internal/service"
	"github.com/swkombat/ucbot/internal/telegram"
)

// handleJoin processes the participation button on a published post.
func (h *Handler) handleJoin(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	userID := cb.From.ID

	compID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "join_"), 10, 64)
	if err != nil {
		h.answerCallback(ctx, cb.ID, "❌ Noto'g'ri so'rov.", true)
		return
	}

	outcome, err := h.comps.Join(ctx, compID, userID)
	if err != nil {
		slog.Error("join competition", "competition_id", compID, "user_id", userID, "error", err)
		h.answerCallback(ctx, cb.ID, "❌ Xatolik yuz berdi. Keyinroq urinib ko'ring.", true)
		return
	}
	h.resolveJoinOutcome(ctx, cb.ID, userID, compID, outcome)
}

// handleConfirmSub resumes a join after the user claims to have subscribed.
// The callback usually carries the competition id; a legacy bare button
// falls back to the pending context.
func (h *Handler) handleConfirmSub(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	userID := cb.From.ID

	compID, _ := strconv.ParseInt(strings.TrimPrefix(cb.Data, "confirm_sub_"), 10, 64)

	outcome, resolvedID, err := h.comps.ConfirmJoin(ctx, userID, compID)
	if err != nil {
		if errors.Is(err, domain.ErrNoPendingJoin) {
			h.answerCallback(ctx, cb.ID, "❗ Qaysi konkursga qo'shilmoqchi bo'lganingiz aniqlanmadi. Konkurs postidagi tugmani qayta bosing.", true)
			return
		}
		slog.Error("confirm join", "competition_id", compID, "user_id", userID, "error", err)
		h.answerCallback(ctx, cb.ID, "❌ Xatolik yuz berdi. Keyinroq urinib ko'ring.", true)
		return
	}
	h.resolveJoinOutcome(ctx, cb.ID, userID, resolvedID, outcome)
}

// handleCheckSub is the generic subscription recheck outside any
// competition context.
func (h *Handler) handleCheckSub(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	userID := cb.From.ID

	if !h.checker.IsEligible(ctx, userID) {
		h.answerCallback(ctx, cb.ID, "❌ Obuna hali aniqlanmadi. Avval barcha kanallarga obuna bo'ling.", true)
		return
	}

	h.answerCallback(ctx, cb.ID, "✅ Obuna tasdiqlandi!", false)
	h.sendMainMenu(ctx, userID, "✅ Obunangiz tasdiqlandi! Endi botdan to'liq foydalanishingiz mumkin.")
}

func (h *Handler) resolveJoinOutcome(ctx context.Context, callbackID string, userID, compID int64, outcome service.JoinOutcome) {
	switch outcome {
	case service.JoinAdded:
		h.answerCallback(ctx, callbackID, "✅ Siz konkursga qo'shildingiz! Omad tilaymiz 🍀", true)
		h.notifyJoined(ctx, userID, compID)
	case service.JoinAlreadyIn:
		h.answerCallback(ctx, callbackID, "ℹ️ Siz bu konkursda allaqachon qatnashyapsiz.", true)
	case service.JoinNotFound:
		h.answerCallback(ctx, callbackID, "❌ Konkurs topilmadi.", true)
	case service.JoinClosed:
		h.answerCallback(ctx, callbackID, "⌛ Bu konkurs allaqachon yakunlangan.", true)
	case service.JoinPending:
		text, kb := telegram.SubscriptionPrompt(h.cfg.ChannelID, h.cfg.GroupID, h.cfg.YoutubeLink, compID)
		_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      userID,
			Text:        text,
			ReplyMarkup: kb,
		})
		if err != nil {
			h.answerCallback(ctx, callbackID,
				fmt.Sprintf("❗ Avval botga yozing: https://t.me/%s va /start bosing, keyin qayta urinib ko'ring.", h.botUsername), true)
			return
		}
		h.answerCallback(ctx, callbackID, "❗ Sizga shaxsiy xabar yubordim. Obuna bo'lib, tasdiqlang.", true)
	}
}

// notifyJoined sends the post-join DM with a pointer at the referral
// feature. Delivery is best effort: the join itself already succeeded.
func (h *Handler) notifyJoined(ctx context.Context, userID, compID int64) {
	text := fmt.Sprintf(
		"🎉 Siz Konkurs #%d ga muvaffaqiyatli qo'shildingiz!\n\n"+
			"G'olib bo'lish imkoniyatingizni oshirish uchun do'stlaringizni taklif qilib UC ishlang: '%s' bo'limiga kiring.",
		compID, btnEarn)
	if err := h.notifier.NotifyUser(ctx, userID, text); err != nil {
		slog.Debug("post-join notification failed", "user_id", userID, "error", err)
	}
}
