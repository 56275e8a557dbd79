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

	"github.com/swkombat/ucbot/internal/config"
	"github.com/swkombat/ucbot/internal/domain"
	"github.com/swkombat/ucbot/internal/telegram"
)

func (h *Handler) handleBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID

	balance, err := h.referrals.Balance(ctx, userID)
	if err != nil {
		slog.Error("load balance", "user_id", userID, "error", err)
		h.sendText(ctx, userID, "❌ Balansni yuklashda xatolik yuz berdi. Keyinroq urinib ko'ring.", nil)
		return
	}

	h.sendMainMenu(ctx, userID, fmt.Sprintf(
		"💰 Sizning balansingiz: %d UC\n\nDo'st taklif qilib yana UC ishlang: har bir do'st uchun %d UC!",
		balance, config.ReferralReward))
}

// handleWithdrawMenu offers the fixed payout amounts the balance covers.
func (h *Handler) handleWithdrawMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID

	balance, err := h.referrals.Balance(ctx, userID)
	if err != nil {
		slog.Error("load balance", "user_id", userID, "error", err)
		h.sendText(ctx, userID, "❌ Balansni yuklashda xatolik yuz berdi. Keyinroq urinib ko'ring.", nil)
		return
	}

	if balance < config.WithdrawMinimum {
		h.sendMainMenu(ctx, userID, fmt.Sprintf(
			"💸 UC yechish uchun kamida %d UC kerak.\nSizda hozir %d UC bor.",
			config.WithdrawMinimum, balance))
		return
	}

	var row []models.InlineKeyboardButton
	for _, amount := range config.WithdrawAmounts {
		if amount <= balance {
			row = append(row, telegram.InlineButton(
				fmt.Sprintf("%d UC", amount),
				fmt.Sprintf("withdraw_%d", amount)))
		}
	}

	h.sendText(ctx, userID,
		fmt.Sprintf("💸 Balansingiz: %d UC\n\nQancha UC yechmoqchisiz?", balance),
		telegram.InlineKeyboard(row))
}

// handleWithdrawAmount arms the PUBG id prompt for the chosen amount.
func (h *Handler) handleWithdrawAmount(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	userID := cb.From.ID

	amount, err := strconv.Atoi(strings.TrimPrefix(cb.Data, "withdraw_"))
	if err != nil || amount <= 0 {
		h.answerCallback(ctx, cb.ID, "❌ Noto'g'ri miqdor.", true)
		return
	}

	h.inputs.set(userID, pendingInput{kind: inputWithdrawPubgID, amount: amount})
	h.answerCallback(ctx, cb.ID, "", false)
	h.sendText(ctx, userID,
		fmt.Sprintf("💸 %d UC yechish uchun PUBG ID raqamingizni yuboring:", amount),
		telegram.ReplyKeyboard([]string{btnBack}))
}

// processWithdrawPubgID finishes the withdrawal with the submitted PUBG id
// and notifies the admins about the manual payout.
func (h *Handler) processWithdrawPubgID(ctx context.Context, userID int64, amount int, pubgID string) {
	pubgID = strings.TrimSpace(pubgID)
	if pubgID == "" {
		h.sendText(ctx, userID, "❌ PUBG ID bo'sh bo'lishi mumkin emas. Qaytadan yuboring:", nil)
		return
	}

	h.inputs.clear(userID)

	w, err := h.referrals.Withdraw(ctx, userID, amount, pubgID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			h.sendMainMenu(ctx, userID, "❌ Balansingizda yetarli UC yo'q.")
			return
		}
		slog.Error("withdraw", "user_id", userID, "amount", amount, "error", err)
		h.sendMainMenu(ctx, userID, "❌ So'rovni qayta ishlashda xatolik yuz berdi. Keyinroq urinib ko'ring.")
		return
	}

	h.sendMainMenu(ctx, userID, fmt.Sprintf(
		"✅ So'rovingiz qabul qilindi!\n\n%d UC tez orada PUBG ID %s hisobiga o'tkaziladi.",
		w.Amount, w.PubgID))

	adminText := fmt.Sprintf("📥 Yangi UC yechish so'rovi\n\nFoydalanuvchi: %s\nMiqdor: %d UC\nPUBG ID: %s",
		h.displayName(ctx, userID), w.Amount, w.PubgID)
	for _, adminID := range h.cfg.AdminIDs {
		if err := h.notifier.NotifyUser(ctx, adminID, adminText); err != nil {
			slog.Warn("notify admin about withdrawal", "admin_id", adminID, "error", err)
		}
	}
}

func (h *Handler) answerCallback(ctx context.Context, callbackID, text string, alert bool) {
	h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
}
