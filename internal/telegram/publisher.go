package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/swkombat/ucbot/internal/domain"
)

// BotAPI is the slice of *bot.Bot the publisher needs.
type BotAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	EditMessageCaption(ctx context.Context, params *bot.EditMessageCaptionParams) (*models.Message, error)
	EditMessageReplyMarkup(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error)
}

// Publisher renders competition records onto the channel and the group.
type Publisher struct {
	api       BotAPI
	channelID string
	groupID   string
}

func NewPublisher(api BotAPI, channelID, groupID string) *Publisher {
	return &Publisher{api: api, channelID: channelID, groupID: groupID}
}

// BuildCaption renders the competition post text.
func BuildCaption(c *domain.Competition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎉 *Konkurs #%d!* 🎉\n\n", c.ID)
	if c.Caption != "" {
		sb.WriteString(c.Caption + "\n\n")
	}
	fmt.Fprintf(&sb, "⏳ Tugash vaqti: %s\n", c.Deadline.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "🏆 G'oliblar soni: %d\n\n", c.RequestedWinnerCount)
	sb.WriteString("Ishtirok etish uchun pastdagi tugmani bosing!")
	return sb.String()
}

// BuildJoinKeyboard renders the join button with the live participant count.
func BuildJoinKeyboard(compID int64, participantCount int) *models.InlineKeyboardMarkup {
	return InlineKeyboard(
		ButtonRow(InlineButton(
			fmt.Sprintf("✅ Qatnashish (%d)", participantCount),
			fmt.Sprintf("join_%d", compID),
		)),
	)
}

// Publish posts the competition photo to both surfaces and returns the
// message handles of the posts that succeeded.
func (p *Publisher) Publish(ctx context.Context, c *domain.Competition) (map[string]domain.PostRef, error) {
	caption := BuildCaption(c)
	kb := BuildJoinKeyboard(c.ID, len(c.Participants))

	posts := make(map[string]domain.PostRef)
	var firstErr error
	for surface, chatID := range map[string]string{
		domain.SurfaceChannel: p.channelID,
		domain.SurfaceGroup:   p.groupID,
	} {
		msg, err := p.api.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &models.InputFileString{Data: c.PhotoFileID},
			Caption:     caption,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: kb,
		})
		if err != nil {
			slog.Error("publish competition post", "surface", surface, "competition_id", c.ID, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("post to %s: %w", surface, err)
			}
			continue
		}
		posts[surface] = domain.PostRef{ChatID: chatID, MessageID: msg.ID}
	}
	if len(posts) == 0 && firstErr != nil {
		return posts, firstErr
	}
	return posts, nil
}

// Refresh re-renders the stored posts in place. It falls back to editing
// only the button row when the caption edit is rejected, and logs when
// both edits fail. Repeated calls with unchanged data are a no-op.
func (p *Publisher) Refresh(ctx context.Context, c *domain.Competition) error {
	caption := BuildCaption(c)
	kb := BuildJoinKeyboard(c.ID, len(c.Participants))

	for surface, ref := range c.Posts {
		if ref.MessageID == 0 {
			continue
		}
		_, err := p.api.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
			ChatID:      ref.ChatID,
			MessageID:   ref.MessageID,
			Caption:     caption,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: kb,
		})
		if err == nil || isNotModified(err) {
			continue
		}
		_, err2 := p.api.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
			ChatID:      ref.ChatID,
			MessageID:   ref.MessageID,
			ReplyMarkup: kb,
		})
		if err2 != nil && !isNotModified(err2) {
			slog.Error("refresh competition post",
				"surface", surface, "competition_id", c.ID,
				"caption_error", err, "markup_error", err2)
		}
	}
	return nil
}

// Broadcast sends a plain text message to both surfaces, tolerating
// per-surface delivery failure.
func (p *Publisher) Broadcast(ctx context.Context, text string) {
	for surface, chatID := range map[string]string{
		domain.SurfaceChannel: p.channelID,
		domain.SurfaceGroup:   p.groupID,
	} {
		_, err := p.api.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		})
		if err != nil {
			slog.Warn("broadcast failed", "surface", surface, "error", err)
		}
	}
}

// isNotModified recognizes the platform's "nothing changed" rejection,
// which makes Refresh idempotent rather than failing.
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
