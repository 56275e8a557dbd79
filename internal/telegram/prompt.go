package telegram

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
)

// SubscriptionPrompt builds the DM asking the user to subscribe to both
// surfaces. A non-zero compID binds the confirmation button to that
// competition so the join flow resumes after confirmation.
func SubscriptionPrompt(channelID, groupID, youtubeLink string, compID int64) (string, *models.InlineKeyboardMarkup) {
	rows := [][]models.InlineKeyboardButton{
		ButtonRow(URLButton("📢 Kanalga obuna bo'lish", ChatLink(channelID))),
		ButtonRow(URLButton("👥 Guruhga obuna bo'lish", ChatLink(groupID))),
	}
	if youtubeLink != "" {
		rows = append(rows, ButtonRow(URLButton("📺 YouTube kanalga obuna bo'lish", youtubeLink)))
	}

	var text string
	if compID != 0 {
		rows = append(rows, ButtonRow(InlineButton("✅ Obuna bo'ldim", fmt.Sprintf("confirm_sub_%d", compID))))
		text = fmt.Sprintf(
			"🔒 Konkursga qo'shilish uchun quyidagi kanallarga obuna bo'ling:\n\n%s\n%s\n\n"+
				"Obuna bo'lgach, '✅ Obuna bo'ldim' tugmasini bosing. Bot obunangizni tekshiradi va sizni avtomatik qo'shadi.",
			channelID, groupID)
	} else {
		rows = append(rows, ButtonRow(InlineButton("✅ Obuna bo'ldim", "check_sub")))
		text = fmt.Sprintf(
			"🔒 Botdan foydalanish uchun quyidagi kanallarga obuna bo'ling:\n\n%s\n%s\n\n"+
				"Obuna bo'lgach, '✅ Obuna bo'ldim' tugmasini bosing.",
			channelID, groupID)
	}
	return text, InlineKeyboard(rows...)
}

// ChatLink turns an @username chat reference into a t.me link.
func ChatLink(chatID string) string {
	return "https://t.me/" + strings.TrimPrefix(chatID, "@")
}
