package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ChatAPI is the slice of *bot.Bot the notifier needs.
type ChatAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetChat(ctx context.Context, params *bot.GetChatParams) (*models.ChatFullInfo, error)
}

// Notifier delivers direct messages and resolves public profiles.
type Notifier struct {
	api ChatAPI
}

func NewNotifier(api ChatAPI) *Notifier {
	return &Notifier{api: api}
}

func (n *Notifier) NotifyUser(ctx context.Context, userID int64, text string) error {
	_, err := n.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("notify user %d: %w", userID, err)
	}
	return nil
}

func (n *Notifier) GetProfile(ctx context.Context, userID int64) (username, firstName string, err error) {
	chat, err := n.api.GetChat(ctx, &bot.GetChatParams{ChatID: userID})
	if err != nil {
		return "", "", fmt.Errorf("get profile %d: %w", userID, err)
	}
	return chat.Username, chat.FirstName, nil
}
