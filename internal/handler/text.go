package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/swkombat/ucbot/internal/domain"
)

// handleText is the free-text router. An active wizard draft takes
// precedence, then whatever input the user was last asked for; anything
// else just gets the menu back.
//
// Handler lookup order in the bot library is undefined, so this catch-all
// can receive updates that also match an exact or command handler, and its
// empty prefix even matches photo messages, whose Text is empty. Reserved
// inputs are therefore forwarded to their own handlers here instead of
// being treated as free text.
func (h *Handler) handleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil || msg.Chat.Type != "private" {
		return
	}
	if len(msg.Photo) > 0 {
		h.handlePhoto(ctx, b, update)
		return
	}
	if route, ok := h.reservedRoute(msg.Text); ok {
		route(ctx, b, update)
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		return
	}
	userID := msg.From.ID

	if h.cfg.IsAdmin(userID) {
		if d, err := h.drafts.Get(userID); err == nil {
			h.routeDraftText(ctx, userID, d.Step, msg.Text)
			return
		}
	}

	if p, ok := h.inputs.get(userID); ok {
		switch p.kind {
		case inputUCImage:
			h.sendText(ctx, userID, "❌ Rasm yuboring, matn emas.", nil)
		case inputWithdrawPubgID:
			h.processWithdrawPubgID(ctx, userID, p.amount, msg.Text)
		case inputRatingStart:
			h.processRatingStart(ctx, userID, msg.Text)
		case inputRatingEnd:
			h.processRatingEnd(ctx, userID, p.start, msg.Text)
		case inputCompCaption, inputCompDeadline, inputCompWinners:
			h.processCompEdit(ctx, userID, p, msg.Text)
		}
		return
	}

	h.sendMainMenu(ctx, userID, "🏠 Quyidagi menyudan bo'limni tanlang:")
}

// reservedRoute resolves inputs owned by a dedicated handler: commands and
// the menu button labels. The wizard and the pending-input flows never see
// these, which keeps "🔙 Ortga" a reserved token at every step.
func (h *Handler) reservedRoute(text string) (bot.HandlerFunc, bool) {
	if strings.HasPrefix(text, "/start") {
		return h.handleStart, true
	}
	if text == "/set_uc_image" {
		return h.handleSetUCImage, true
	}
	switch text {
	case btnEarn:
		return h.handleEarn, true
	case btnRating:
		return h.handleRatingMenu, true
	case btnRatingWeek:
		return h.handleRatingWeek, true
	case btnRatingCustom:
		return h.handleRatingCustom, true
	case btnBalance:
		return h.handleBalance, true
	case btnWithdraw:
		return h.handleWithdrawMenu, true
	case btnCompetitions:
		return h.handleCompetitionsMenu, true
	case btnNewComp:
		return h.handleNewCompetition, true
	case btnManageComps:
		return h.handleManageList, true
	case btnBack:
		return h.handleBack, true
	}
	return nil, false
}

// routeDraftText feeds one text message into the wizard. Invalid input
// re-prompts the same step; the last accepted step commits the draft.
func (h *Handler) routeDraftText(ctx context.Context, userID int64, step domain.DraftStep, text string) {
	switch step {
	case domain.StepImage:
		h.sendText(ctx, userID, "❌ Bu bosqichda rasm yuborish kerak.", nil)

	case domain.StepCaption:
		if err := h.drafts.SetCaption(userID, text); err != nil {
			h.promptDraftStep(ctx, userID, step)
			return
		}
		h.promptDraftStep(ctx, userID, domain.StepDeadline)

	case domain.StepDeadline:
		if err := h.drafts.SetDeadline(userID, text); err != nil {
			h.sendText(ctx, userID, "❌ Vaqt formati noto'g'ri. YYYY-MM-DD HH:MM ko'rinishida yuboring, masalan: 2026-09-15 20:00", nil)
			return
		}
		h.promptDraftStep(ctx, userID, domain.StepWinnerCount)

	case domain.StepWinnerCount:
		if err := h.drafts.SetWinnerCount(userID, text); err != nil {
			h.sendText(ctx, userID, "❌ Musbat butun son yuboring, masalan: 3", nil)
			return
		}
		h.commitDraft(ctx, userID)
	}
}

// handlePhoto routes photo messages: the wizard's image step first, then
// the promo image update.
func (h *Handler) handlePhoto(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil || msg.Chat.Type != "private" {
		return
	}
	userID := msg.From.ID
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	if h.cfg.IsAdmin(userID) {
		if d, err := h.drafts.Get(userID); err == nil {
			if d.Step != domain.StepImage {
				h.sendText(ctx, userID, "❌ Bu bosqichda matn kutilmoqda, rasm emas.", nil)
				return
			}
			if err := h.drafts.SetImage(userID, fileID); err != nil {
				if !errors.Is(err, domain.ErrInvalidInput) {
					slog.Error("set draft image", "admin_id", userID, "error", err)
				}
				h.promptDraftStep(ctx, userID, domain.StepImage)
				return
			}
			h.promptDraftStep(ctx, userID, domain.StepCaption)
			return
		}

		if p, ok := h.inputs.get(userID); ok && p.kind == inputUCImage {
			h.inputs.clear(userID)
			if err := h.settings.Set(ctx, settingUCImage, fileID); err != nil {
				slog.Error("save promo image", "error", err)
				h.sendMainMenu(ctx, userID, "❌ Rasmni saqlashda xatolik yuz berdi.")
				return
			}
			h.sendMainMenu(ctx, userID, "✅ UC islash rasmi yangilandi.")
			return
		}
	}
}
