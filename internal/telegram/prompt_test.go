package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionPrompt_WithCompetitionContext(t *testing.T) {
	text, kb := SubscriptionPrompt("@channel", "@group", "https://youtube.com/@x", 7)

	assert.Contains(t, text, "Konkursga qo'shilish")
	require.Len(t, kb.InlineKeyboard, 4)

	last := kb.InlineKeyboard[3][0]
	assert.Equal(t, "confirm_sub_7", last.CallbackData)
}

func TestSubscriptionPrompt_WithoutContext(t *testing.T) {
	text, kb := SubscriptionPrompt("@channel", "@group", "", 0)

	assert.Contains(t, text, "Botdan foydalanish")
	require.Len(t, kb.InlineKeyboard, 3)

	last := kb.InlineKeyboard[2][0]
	assert.Equal(t, "check_sub", last.CallbackData)
}

func TestChatLink(t *testing.T) {
	assert.Equal(t, "https://t.me/swkombat", ChatLink("@swkombat"))
	assert.Equal(t, "https://t.me/swkombat", ChatLink("swkombat"))
}
