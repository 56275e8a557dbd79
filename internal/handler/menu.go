package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/swkombat/ucbot/internal/telegram"
)

// Main menu button labels. The reply keyboard routes by exact text, so
// these double as handler patterns in register.go.
const (
	btnEarn         = "🪙 UC islash"
	btnRating       = "📊 Referal reyting"
	btnBalance      = "💰 UC balans"
	btnWithdraw     = "💸 UC yechish"
	btnCompetitions = "🎁 Konkurslar"
	btnBack         = "🔙 Ortga"

	btnNewComp     = "🆕 Yangi konkurs"
	btnManageComps = "📋 Konkurslar ro'yxati"

	btnRatingWeek   = "🔄 Oxirgi 7 kun"
	btnRatingCustom = "📅 Boshqa davr"
)

func (h *Handler) mainMenuKeyboard(userID int64) *models.ReplyKeyboardMarkup {
	rows := [][]string{
		{btnEarn, btnRating},
		{btnBalance, btnWithdraw},
	}
	if h.cfg.IsAdmin(userID) {
		rows = append(rows, []string{btnCompetitions})
	}
	return telegram.ReplyKeyboard(rows...)
}

func (h *Handler) sendMainMenu(ctx context.Context, userID int64, text string) {
	h.sendText(ctx, userID, text, h.mainMenuKeyboard(userID))
}

// handleBack is the uniform escape hatch. Inside the creation wizard it
// steps one screen back (cancelling at the first step); everywhere else
// it drops pending input state and returns to the main menu.
func (h *Handler) handleBack(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID

	if h.cfg.IsAdmin(userID) {
		if _, err := h.drafts.Get(userID); err == nil {
			step, canceled, err := h.drafts.Back(userID)
			if err == nil {
				if canceled {
					h.sendCompetitionsMenu(ctx, userID, "❌ Konkurs yaratish bekor qilindi.")
					return
				}
				h.promptDraftStep(ctx, userID, step)
				return
			}
		}
	}

	h.inputs.clear(userID)
	h.sendMainMenu(ctx, userID, "🏠 Asosiy menyu:")
}

func (h *Handler) sendText(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	h.bot.SendMessage(ctx, params)
}
