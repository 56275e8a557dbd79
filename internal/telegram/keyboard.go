package telegram

import "github.com/go-telegram/bot/models"

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// URLButton creates a URL inline keyboard button.
func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text: text,
		URL:  url,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// ReplyKeyboard creates a persistent reply keyboard from rows of labels.
func ReplyKeyboard(rows ...[]string) *models.ReplyKeyboardMarkup {
	kb := &models.ReplyKeyboardMarkup{ResizeKeyboard: true}
	for _, row := range rows {
		buttons := make([]models.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, models.KeyboardButton{Text: label})
		}
		kb.Keyboard = append(kb.Keyboard, buttons)
	}
	return kb
}

// OneTimeReplyKeyboard is a ReplyKeyboard that hides after one use.
func OneTimeReplyKeyboard(rows ...[]string) *models.ReplyKeyboardMarkup {
	kb := ReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	return kb
}
