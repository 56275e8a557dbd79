package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swkombat/ucbot/internal/domain"
)

type fakeBotAPI struct {
	nextMessageID int

	sentPhotos   []*bot.SendPhotoParams
	sentMessages []*bot.SendMessageParams
	captionEdits []*bot.EditMessageCaptionParams
	markupEdits  []*bot.EditMessageReplyMarkupParams

	photoErr       error
	photoErrChatID string
	captionErr     error
	markupErr      error
}

func (f *fakeBotAPI) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.sentMessages = append(f.sentMessages, params)
	f.nextMessageID++
	return &models.Message{ID: f.nextMessageID}, nil
}

func (f *fakeBotAPI) SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	if f.photoErr != nil && (f.photoErrChatID == "" || f.photoErrChatID == params.ChatID) {
		return nil, f.photoErr
	}
	f.sentPhotos = append(f.sentPhotos, params)
	f.nextMessageID++
	return &models.Message{ID: f.nextMessageID}, nil
}

func (f *fakeBotAPI) EditMessageCaption(ctx context.Context, params *bot.EditMessageCaptionParams) (*models.Message, error) {
	if f.captionErr != nil {
		return nil, f.captionErr
	}
	f.captionEdits = append(f.captionEdits, params)
	return &models.Message{}, nil
}

func (f *fakeBotAPI) EditMessageReplyMarkup(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error) {
	if f.markupErr != nil {
		return nil, f.markupErr
	}
	f.markupEdits = append(f.markupEdits, params)
	return &models.Message{}, nil
}

func testCompetition() *domain.Competition {
	return &domain.Competition{
		ID:                   7,
		PhotoFileID:          "file-7",
		Caption:              "Katta sovg'a!",
		Deadline:             time.Date(2026, 9, 15, 20, 0, 0, 0, time.UTC),
		RequestedWinnerCount: 3,
		Participants:         []domain.Participant{{UserID: 1}},
		Posts: map[string]domain.PostRef{
			domain.SurfaceChannel: {ChatID: "@channel", MessageID: 11},
			domain.SurfaceGroup:   {ChatID: "@group", MessageID: 22},
		},
	}
}

func TestBuildCaption(t *testing.T) {
	c := testCompetition()
	caption := BuildCaption(c)

	assert.Contains(t, caption, "🎉 *Konkurs #7!*")
	assert.Contains(t, caption, "Katta sovg'a!")
	assert.Contains(t, caption, "2026-09-15 20:00")
	assert.Contains(t, caption, "G'oliblar soni: 3")

	c.Caption = ""
	caption = BuildCaption(c)
	assert.NotContains(t, caption, "\n\n\n")
}

func TestBuildJoinKeyboard(t *testing.T) {
	kb := BuildJoinKeyboard(7, 1)
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 1)
	assert.Equal(t, "✅ Qatnashish (1)", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "join_7", kb.InlineKeyboard[0][0].CallbackData)
}

func TestPublisher_Publish(t *testing.T) {
	api := &fakeBotAPI{}
	p := NewPublisher(api, "@channel", "@group")

	posts, err := p.Publish(context.Background(), testCompetition())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "@channel", posts[domain.SurfaceChannel].ChatID)
	assert.Equal(t, "@group", posts[domain.SurfaceGroup].ChatID)
	assert.NotZero(t, posts[domain.SurfaceChannel].MessageID)
	assert.Len(t, api.sentPhotos, 2)
}

func TestPublisher_Publish_PartialFailure(t *testing.T) {
	api := &fakeBotAPI{photoErr: errors.New("chat not found"), photoErrChatID: "@group"}
	p := NewPublisher(api, "@channel", "@group")

	posts, err := p.Publish(context.Background(), testCompetition())
	require.NoError(t, err, "one surviving surface is a success")
	require.Len(t, posts, 1)
	assert.Contains(t, posts, domain.SurfaceChannel)
}

func TestPublisher_Publish_TotalFailure(t *testing.T) {
	api := &fakeBotAPI{photoErr: errors.New("unauthorized")}
	p := NewPublisher(api, "@channel", "@group")

	posts, err := p.Publish(context.Background(), testCompetition())
	assert.Error(t, err)
	assert.Empty(t, posts)
}

func TestPublisher_Refresh(t *testing.T) {
	api := &fakeBotAPI{}
	p := NewPublisher(api, "@channel", "@group")

	require.NoError(t, p.Refresh(context.Background(), testCompetition()))
	assert.Len(t, api.captionEdits, 2)
	assert.Empty(t, api.markupEdits)
}

func TestPublisher_Refresh_FallsBackToMarkup(t *testing.T) {
	api := &fakeBotAPI{captionErr: errors.New("there is no caption in the message to edit")}
	p := NewPublisher(api, "@channel", "@group")

	require.NoError(t, p.Refresh(context.Background(), testCompetition()))
	assert.Len(t, api.markupEdits, 2)
}

func TestPublisher_Refresh_NotModifiedIsSuccess(t *testing.T) {
	api := &fakeBotAPI{captionErr: errors.New("Bad Request: message is not modified")}
	p := NewPublisher(api, "@channel", "@group")

	require.NoError(t, p.Refresh(context.Background(), testCompetition()))
	assert.Empty(t, api.markupEdits, "no fallback on a no-op edit")
}

func TestPublisher_Refresh_SkipsMissingPosts(t *testing.T) {
	api := &fakeBotAPI{}
	p := NewPublisher(api, "@channel", "@group")

	c := testCompetition()
	c.Posts = map[string]domain.PostRef{domain.SurfaceChannel: {ChatID: "@channel", MessageID: 11}}
	require.NoError(t, p.Refresh(context.Background(), c))
	assert.Len(t, api.captionEdits, 1)
}

func TestPublisher_Broadcast(t *testing.T) {
	api := &fakeBotAPI{}
	p := NewPublisher(api, "@channel", "@group")

	p.Broadcast(context.Background(), "hello")
	require.Len(t, api.sentMessages, 2)
	assert.Equal(t, "hello", api.sentMessages[0].Text)
}
