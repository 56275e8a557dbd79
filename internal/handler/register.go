package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register wires all command, button and callback handlers. The empty
// prefix text handler is the free-text router for wizard and pending
// input; dispatch order between it and the exact matches is undefined, so
// the router forwards reserved inputs to their handlers itself.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/set_uc_image", bot.MatchTypeExact, h.handleSetUCImage)

	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnEarn, bot.MatchTypeExact, h.handleEarn)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnRating, bot.MatchTypeExact, h.handleRatingMenu)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnRatingWeek, bot.MatchTypeExact, h.handleRatingWeek)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnRatingCustom, bot.MatchTypeExact, h.handleRatingCustom)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnBalance, bot.MatchTypeExact, h.handleBalance)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnWithdraw, bot.MatchTypeExact, h.handleWithdrawMenu)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnCompetitions, bot.MatchTypeExact, h.handleCompetitionsMenu)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnNewComp, bot.MatchTypeExact, h.handleNewCompetition)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnManageComps, bot.MatchTypeExact, h.handleManageList)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, btnBack, bot.MatchTypeExact, h.handleBack)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "join_", bot.MatchTypePrefix, h.handleJoin)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "confirm_sub_", bot.MatchTypePrefix, h.handleConfirmSub)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "check_sub", bot.MatchTypeExact, h.handleCheckSub)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "withdraw_", bot.MatchTypePrefix, h.handleWithdrawAmount)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "comp_view_", bot.MatchTypePrefix, h.handleCompView)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "comp_cap_", bot.MatchTypePrefix, h.handleCompEditPrompt)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "comp_dl_", bot.MatchTypePrefix, h.handleCompEditPrompt)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "comp_win_", bot.MatchTypePrefix, h.handleCompEditPrompt)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "comp_del_", bot.MatchTypePrefix, h.handleCompDelete)

	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, h.handleText)
}

// HandleDefault receives updates no registered handler claimed; in
// practice that is photo messages, which the text-based router never sees.
func (h *Handler) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message != nil && len(update.Message.Photo) > 0 {
		h.handlePhoto(ctx, b, update)
	}
}
