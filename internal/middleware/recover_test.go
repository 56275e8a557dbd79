package middleware

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestRecover_SwallowsPanic(t *testing.T) {
	panicking := func(ctx context.Context, b *bot.Bot, update *models.Update) {
		panic("handler blew up")
	}
	wrapped := Recover()(panicking)

	updates := map[string]*models.Update{
		"message": {
			ID: 1,
			Message: &models.Message{
				From: &models.User{ID: 42},
				Chat: models.Chat{ID: 42, Type: "private"},
			},
		},
		"callback": {
			ID: 2,
			CallbackQuery: &models.CallbackQuery{
				From: models.User{ID: 42},
				Data: "join_7",
			},
		},
		"bare": {ID: 3},
	}

	for name, upd := range updates {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				wrapped(context.Background(), nil, upd)
			})
		})
	}
}

func TestRecover_PassesThrough(t *testing.T) {
	called := false
	next := func(ctx context.Context, b *bot.Bot, update *models.Update) {
		called = true
	}

	Recover()(next)(context.Background(), nil, &models.Update{ID: 4})

	assert.True(t, called)
}
