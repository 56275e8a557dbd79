package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swkombat/ucbot/internal/domain"
)

const adminID = int64(42)

func completeDraft(t *testing.T, s *DraftService) {
	t.Helper()
	s.Start(adminID)
	require.NoError(t, s.SetImage(adminID, "file-1"))
	require.NoError(t, s.SetCaption(adminID, "win big"))
	require.NoError(t, s.SetDeadline(adminID, "2026-09-15 20:00"))
	require.NoError(t, s.SetWinnerCount(adminID, "3"))
}

func TestDraftService_HappyPath(t *testing.T) {
	s := NewDraftService()
	completeDraft(t, s)

	c, err := s.Commit(adminID)
	require.NoError(t, err)
	assert.Equal(t, "file-1", c.PhotoFileID)
	assert.Equal(t, "win big", c.Caption)
	assert.Equal(t, 3, c.RequestedWinnerCount)
	assert.Equal(t, time.Date(2026, 9, 15, 20, 0, 0, 0, time.UTC), c.Deadline)
	assert.Empty(t, c.Participants)
	assert.Empty(t, c.Posts)

	// The draft is gone after commit.
	_, err = s.Get(adminID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDraftService_DashMeansEmptyCaption(t *testing.T) {
	s := NewDraftService()
	s.Start(adminID)
	require.NoError(t, s.SetImage(adminID, "file-1"))
	require.NoError(t, s.SetCaption(adminID, " - "))

	d, err := s.Get(adminID)
	require.NoError(t, err)
	assert.Equal(t, "", d.Caption)
	assert.Equal(t, domain.StepDeadline, d.Step)
}

func TestDraftService_InvalidInputKeepsCursor(t *testing.T) {
	s := NewDraftService()
	s.Start(adminID)
	require.NoError(t, s.SetImage(adminID, "file-1"))
	require.NoError(t, s.SetCaption(adminID, "x"))

	tests := []struct {
		name  string
		input string
	}{
		{"not a date", "tomorrow"},
		{"wrong layout", "15.09.2026 20:00"},
		{"date only", "2026-09-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.SetDeadline(adminID, tt.input), domain.ErrInvalidInput)
			d, _ := s.Get(adminID)
			assert.Equal(t, domain.StepDeadline, d.Step)
		})
	}

	require.NoError(t, s.SetDeadline(adminID, "2026-09-15 20:00"))

	for _, input := range []string{"zero", "0", "-2", "2.5"} {
		assert.ErrorIs(t, s.SetWinnerCount(adminID, input), domain.ErrInvalidInput)
	}
	require.NoError(t, s.SetWinnerCount(adminID, "1"))
}

func TestDraftService_OutOfOrderInputRejected(t *testing.T) {
	s := NewDraftService()
	s.Start(adminID)

	assert.ErrorIs(t, s.SetCaption(adminID, "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.SetDeadline(adminID, "2026-09-15 20:00"), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.SetWinnerCount(adminID, "3"), domain.ErrInvalidInput)

	_, err := s.Commit(adminID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDraftService_Back(t *testing.T) {
	s := NewDraftService()
	s.Start(adminID)
	require.NoError(t, s.SetImage(adminID, "file-1"))
	require.NoError(t, s.SetCaption(adminID, "x"))

	step, canceled, err := s.Back(adminID)
	require.NoError(t, err)
	assert.False(t, canceled)
	assert.Equal(t, domain.StepCaption, step)

	step, canceled, err = s.Back(adminID)
	require.NoError(t, err)
	assert.False(t, canceled)
	assert.Equal(t, domain.StepImage, step)

	// Back at the first step cancels the whole draft.
	_, canceled, err = s.Back(adminID)
	require.NoError(t, err)
	assert.True(t, canceled)

	_, err = s.Get(adminID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	_, _, err = s.Back(adminID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDraftService_ReentryAfterBack(t *testing.T) {
	s := NewDraftService()
	s.Start(adminID)
	require.NoError(t, s.SetImage(adminID, "file-1"))
	require.NoError(t, s.SetCaption(adminID, "first"))

	_, _, err := s.Back(adminID)
	require.NoError(t, err)

	require.NoError(t, s.SetCaption(adminID, "second"))
	d, _ := s.Get(adminID)
	assert.Equal(t, "second", d.Caption)
	assert.Equal(t, domain.StepDeadline, d.Step)
}

func TestDraftService_StartReplacesExisting(t *testing.T) {
	s := NewDraftService()
	s.Start(adminID)
	require.NoError(t, s.SetImage(adminID, "file-1"))

	d := s.Start(adminID)
	assert.Equal(t, domain.StepImage, d.Step)
	assert.Empty(t, d.PhotoFileID)
}

func TestDraftService_Sweep(t *testing.T) {
	s := NewDraftService()
	current := time.Now()
	s.now = func() time.Time { return current }

	s.Start(adminID)
	s.now = func() time.Time { return current.Add(time.Hour) }
	s.Start(int64(43))

	s.Sweep(30 * time.Minute)

	_, err := s.Get(adminID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	_, err = s.Get(43)
	assert.NoError(t, err)
}
