package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/swkombat/ucbot/internal/config"
	"github.com/swkombat/ucbot/internal/telegram"
)

const settingUCImage = "uc_image"

// handleEarn sends the user their personal referral link, with the promo
// image attached when an admin has set one.
func (h *Handler) handleEarn(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID

	link := fmt.Sprintf("https://t.me/%s?start=%d", h.botUsername, userID)
	shareText := fmt.Sprintf("🎮 PUBG UC ishlashni xohlaysizmi? Shu bot orqali do'stlaringizni taklif qiling va UC yutib oling!\n%s", link)
	shareURL := fmt.Sprintf("https://t.me/share/url?url=%s&text=%s",
		url.QueryEscape(link), url.QueryEscape(shareText))

	text := fmt.Sprintf(
		"🪙 UC islash\n\n"+
			"Har bir taklif qilingan do'stingiz uchun %d UC olasiz!\n\n"+
			"Sizning shaxsiy havolangiz:\n%s\n\n"+
			"Havolani do'stlaringizga yuboring. Do'stingiz havola orqali botga kirsa, hisobingizga UC qo'shiladi.",
		config.ReferralReward, link)

	kb := telegram.InlineKeyboard(
		telegram.ButtonRow(telegram.URLButton("📤 Do'stlarga ulashish", shareURL)),
	)

	fileID, err := h.settings.Get(ctx, settingUCImage)
	if err != nil {
		slog.Error("load promo image setting", "error", err)
	}
	if fileID != "" {
		_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      userID,
			Photo:       &models.InputFileString{Data: fileID},
			Caption:     text,
			ReplyMarkup: kb,
		})
		if err == nil {
			return
		}
		slog.Warn("send promo image", "user_id", userID, "error", err)
	}

	h.sendText(ctx, userID, text, kb)
}

// handleSetUCImage arms the next photo from an admin as the promo image.
func (h *Handler) handleSetUCImage(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	if !h.cfg.IsAdmin(userID) {
		return
	}
	h.inputs.set(userID, pendingInput{kind: inputUCImage})
	h.sendText(ctx, userID, "🖼 Yangi UC islash rasmini yuboring:", telegram.ReplyKeyboard([]string{btnBack}))
}
