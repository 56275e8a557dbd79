package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/swkombat/ucbot/internal/config"
	"github.com/swkombat/ucbot/internal/domain"
	"github.com/swkombat/ucbot/internal/telegram"
)

func (h *Handler) handleCompetitionsMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	if !h.cfg.IsAdmin(userID) {
		return
	}
	h.sendCompetitionsMenu(ctx, userID, "🎁 Konkurslar bo'limi:")
}

func (h *Handler) sendCompetitionsMenu(ctx context.Context, userID int64, text string) {
	h.sendText(ctx, userID, text, telegram.ReplyKeyboard(
		[]string{btnNewComp, btnManageComps},
		[]string{btnBack},
	))
}

// handleNewCompetition opens the creation wizard at its first step.
func (h *Handler) handleNewCompetition(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	if !h.cfg.IsAdmin(userID) {
		return
	}
	h.inputs.clear(userID)
	h.drafts.Start(userID)
	h.promptDraftStep(ctx, userID, domain.StepImage)
}

// promptDraftStep re-issues the prompt for whatever step the wizard
// cursor sits at, used both on entry and after "back".
func (h *Handler) promptDraftStep(ctx context.Context, userID int64, step domain.DraftStep) {
	var text string
	switch step {
	case domain.StepImage:
		text = "🖼 1/4. Konkurs uchun rasm yuboring:"
	case domain.StepCaption:
		text = "✏️ 2/4. Konkurs matnini yuboring (matn kerak bo'lmasa \"-\" yuboring):"
	case domain.StepDeadline:
		text = "⏰ 3/4. Tugash vaqtini yuboring (YYYY-MM-DD HH:MM), masalan: 2026-09-15 20:00"
	case domain.StepWinnerCount:
		text = "🏆 4/4. G'oliblar sonini yuboring (butun son):"
	}
	h.sendText(ctx, userID, text, telegram.ReplyKeyboard([]string{btnBack}))
}

// commitDraft finishes the wizard: it persists the competition, publishes
// the posts and confirms to the admin.
func (h *Handler) commitDraft(ctx context.Context, userID int64) {
	c, err := h.drafts.Commit(userID)
	if err != nil {
		slog.Error("commit draft", "admin_id", userID, "error", err)
		h.sendCompetitionsMenu(ctx, userID, "❌ Konkursni yakunlab bo'lmadi. Qaytadan urinib ko'ring.")
		return
	}

	id, err := h.comps.Create(ctx, c)
	if err != nil {
		slog.Error("create competition", "admin_id", userID, "error", err)
		h.sendCompetitionsMenu(ctx, userID, "❌ Konkursni saqlashda xatolik yuz berdi.")
		return
	}

	h.sendCompetitionsMenu(ctx, userID, fmt.Sprintf(
		"✅ Konkurs #%d yaratildi va kanal hamda guruhga joylandi!\n\nTugash vaqti: %s\nG'oliblar soni: %d",
		id, c.Deadline.Format(config.DeadlineLayout), c.RequestedWinnerCount))
}

// handleManageList shows every competition with a button to drill into it.
func (h *Handler) handleManageList(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID
	if !h.cfg.IsAdmin(userID) {
		return
	}

	comps, err := h.comps.List(ctx)
	if err != nil {
		slog.Error("list competitions", "error", err)
		h.sendText(ctx, userID, "❌ Konkurslarni yuklashda xatolik yuz berdi.", nil)
		return
	}
	if len(comps) == 0 {
		h.sendCompetitionsMenu(ctx, userID, "📋 Hozircha konkurslar yo'q.")
		return
	}

	var rows [][]models.InlineKeyboardButton
	for _, c := range comps {
		status := "⏳ ochiq"
		if c.Finalized {
			status = "✅ yakunlangan"
		}
		label := fmt.Sprintf("Konkurs #%d (%d ishtirokchi, %s)", c.ID, len(c.Participants), status)
		rows = append(rows, telegram.ButtonRow(
			telegram.InlineButton(label, fmt.Sprintf("comp_view_%d", c.ID))))
	}

	h.sendText(ctx, userID, "📋 Konkurslar ro'yxati:", telegram.InlineKeyboard(rows...))
}

func (h *Handler) handleCompView(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	userID := cb.From.ID
	if !h.cfg.IsAdmin(userID) {
		h.answerCallback(ctx, cb.ID, "", false)
		return
	}

	compID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "comp_view_"), 10, 64)
	if err != nil {
		h.answerCallback(ctx, cb.ID, "❌ Noto'g'ri so'rov.", true)
		return
	}

	c, err := h.comps.Get(ctx, compID)
	if err != nil {
		h.answerCallback(ctx, cb.ID, "❌ Konkurs topilmadi.", true)
		return
	}
	h.answerCallback(ctx, cb.ID, "", false)

	status := "⏳ ochiq"
	if c.Finalized {
		status = fmt.Sprintf("✅ yakunlangan, g'oliblar: %d", len(c.WinnerIDs))
	}
	text := fmt.Sprintf(
		"🎁 Konkurs #%d\n\nHolati: %s\nTugash vaqti: %s\nG'oliblar soni: %d\nIshtirokchilar: %d\n\nMatn:\n%s",
		c.ID, status, c.Deadline.Format(config.DeadlineLayout), c.RequestedWinnerCount,
		len(c.Participants), c.Caption)

	var rows [][]models.InlineKeyboardButton
	if !c.Finalized {
		rows = append(rows,
			telegram.ButtonRow(
				telegram.InlineButton("✏️ Matn", fmt.Sprintf("comp_cap_%d", c.ID)),
				telegram.InlineButton("⏰ Vaqt", fmt.Sprintf("comp_dl_%d", c.ID)),
				telegram.InlineButton("🏆 G'oliblar", fmt.Sprintf("comp_win_%d", c.ID)),
			))
	}
	rows = append(rows, telegram.ButtonRow(
		telegram.InlineButton("🗑 O'chirish", fmt.Sprintf("comp_del_%d", c.ID))))

	h.sendText(ctx, userID, text, telegram.InlineKeyboard(rows...))
}

// handleCompEditPrompt arms the free-text input for one editable field.
func (h *Handler) handleCompEditPrompt(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	userID := cb.From.ID
	if !h.cfg.IsAdmin(userID) {
		h.answerCallback(ctx, cb.ID, "", false)
		return
	}

	var (
		kind   inputKind
		prompt string
		rest   string
	)
	switch {
	case strings.HasPrefix(cb.Data, "comp_cap_"):
		kind, prompt, rest = inputCompCaption, "✏️ Yangi matnni yuboring (bo'sh qoldirish uchun \"-\"):", strings.TrimPrefix(cb.Data, "comp_cap_")
	case strings.HasPrefix(cb.Data, "comp_dl_"):
		kind, prompt, rest = inputCompDeadline, "⏰ Yangi tugash vaqtini yuboring (YYYY-MM-DD HH:MM):", strings.TrimPrefix(cb.Data, "comp_dl_")
	case strings.HasPrefix(cb.Data, "comp_win_"):
		kind, prompt, rest = inputCompWinners, "🏆 Yangi g'oliblar sonini yuboring:", strings.TrimPrefix(cb.Data, "comp_win_")
	default:
		h.answerCallback(ctx, cb.ID, "❌ Noto'g'ri so'rov.", true)
		return
	}

	compID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		h.answerCallback(ctx, cb.ID, "❌ Noto'g'ri so'rov.", true)
		return
	}

	h.inputs.set(userID, pendingInput{kind: kind, compID: compID})
	h.answerCallback(ctx, cb.ID, "", false)
	h.sendText(ctx, userID, prompt, telegram.ReplyKeyboard([]string{btnBack}))
}

func (h *Handler) processCompEdit(ctx context.Context, userID int64, p pendingInput, text string) {
	text = strings.TrimSpace(text)
	var err error
	switch p.kind {
	case inputCompCaption:
		if text == "-" {
			text = ""
		}
		err = h.comps.EditCaption(ctx, p.compID, text)
	case inputCompDeadline:
		deadline, parseErr := time.Parse(config.DeadlineLayout, text)
		if parseErr != nil {
			h.sendText(ctx, userID, "❌ Vaqt formati noto'g'ri. YYYY-MM-DD HH:MM ko'rinishida yuboring.", nil)
			return
		}
		err = h.comps.EditDeadline(ctx, p.compID, deadline)
	case inputCompWinners:
		n, convErr := strconv.Atoi(text)
		if convErr != nil || n <= 0 {
			h.sendText(ctx, userID, "❌ Musbat butun son yuboring.", nil)
			return
		}
		err = h.comps.EditWinnerCount(ctx, p.compID, n)
	}

	h.inputs.clear(userID)

	switch {
	case errors.Is(err, domain.ErrAlreadyFinalized):
		h.sendCompetitionsMenu(ctx, userID, "❌ Yakunlangan konkursni o'zgartirib bo'lmaydi.")
	case errors.Is(err, domain.ErrCompetitionNotFound):
		h.sendCompetitionsMenu(ctx, userID, "❌ Konkurs topilmadi.")
	case err != nil:
		slog.Error("edit competition", "competition_id", p.compID, "error", err)
		h.sendCompetitionsMenu(ctx, userID, "❌ O'zgartirishda xatolik yuz berdi.")
	default:
		h.sendCompetitionsMenu(ctx, userID, fmt.Sprintf("✅ Konkurs #%d yangilandi.", p.compID))
	}
}

func (h *Handler) handleCompDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	userID := cb.From.ID
	if !h.cfg.IsAdmin(userID) {
		h.answerCallback(ctx, cb.ID, "", false)
		return
	}

	compID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "comp_del_"), 10, 64)
	if err != nil {
		h.answerCallback(ctx, cb.ID, "❌ Noto'g'ri so'rov.", true)
		return
	}

	if err := h.comps.Delete(ctx, compID); err != nil {
		slog.Error("delete competition", "competition_id", compID, "error", err)
		h.answerCallback(ctx, cb.ID, "❌ O'chirishda xatolik yuz berdi.", true)
		return
	}
	h.answerCallback(ctx, cb.ID, fmt.Sprintf("🗑 Konkurs #%d o'chirildi.", compID), true)
}
