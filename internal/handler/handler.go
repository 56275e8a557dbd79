package handler

import (
	"context"

	"github.com/go-telegram/bot"

	"github.com/swkombat/ucbot/internal/config"
	"github.com/swkombat/ucbot/internal/service"
	"github.com/swkombat/ucbot/internal/telegram"
)

// SettingsStore is the small key/value store behind odd bot state such as
// the promo image.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot         *bot.Bot
	cfg         *config.Config
	referrals   *service.ReferralService
	comps       *service.CompetitionService
	drafts      *service.DraftService
	checker     service.MembershipChecker
	notifier    *telegram.Notifier
	settings    SettingsStore
	botUsername string
	inputs      *inputStore
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot         *bot.Bot
	Cfg         *config.Config
	Referrals   *service.ReferralService
	Comps       *service.CompetitionService
	Drafts      *service.DraftService
	Checker     service.MembershipChecker
	Notifier    *telegram.Notifier
	Settings    SettingsStore
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:         deps.Bot,
		cfg:         deps.Cfg,
		referrals:   deps.Referrals,
		comps:       deps.Comps,
		drafts:      deps.Drafts,
		checker:     deps.Checker,
		notifier:    deps.Notifier,
		settings:    deps.Settings,
		botUsername: deps.BotUsername,
		inputs:      newInputStore(),
	}
}
