package service

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

// MembershipChecker answers whether a user may use gated features.
type MembershipChecker interface {
	IsEligible(ctx context.Context, userID int64) bool
}

// ChatMemberAPI is the slice of the bot API the checker needs.
// *bot.Bot satisfies it.
type ChatMemberAPI interface {
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
}

// Checker queries the user's standing in the channel and the group.
// Any transport error counts as not eligible; the gate never fails open.
//
// This is the hottest external call in the system: it runs on every gated
// action and once per participant per maintenance sweep, so all calls go
// through a shared rate limiter.
type Checker struct {
	api       ChatMemberAPI
	channelID string
	groupID   string
	limiter   *rate.Limiter
}

func NewChecker(api ChatMemberAPI, channelID, groupID string, callsPerSecond float64) *Checker {
	return &Checker{
		api:       api,
		channelID: channelID,
		groupID:   groupID,
		limiter:   rate.NewLimiter(rate.Limit(callsPerSecond), int(callsPerSecond)),
	}
}

func (c *Checker) IsEligible(ctx context.Context, userID int64) bool {
	return c.isMember(ctx, c.channelID, userID) && c.isMember(ctx, c.groupID, userID)
}

func (c *Checker) isMember(ctx context.Context, chatID string, userID int64) bool {
	if err := c.limiter.Wait(ctx); err != nil {
		return false
	}

	member, err := c.api.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		slog.Debug("membership check failed", "chat_id", chatID, "user_id", userID, "error", err)
		return false
	}

	switch member.Type {
	case models.ChatMemberTypeOwner,
		models.ChatMemberTypeAdministrator,
		models.ChatMemberTypeMember:
		return true
	}
	return false
}
