package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swkombat/ucbot/internal/domain"
)

func newTestMaintenance(store *fakeStore, oracle *fakeOracle, pub *fakePublisher, notif *fakeNotifier) *Maintenance {
	resolver := NewResolver(store, pub, notif, &fakeProfiles{}, nil, rand.New(rand.NewSource(1)))
	return NewMaintenance(store, oracle, pub, notif, resolver)
}

func seedOpenCompetition(t *testing.T, store *fakeStore, deadline time.Time, participants ...int64) int64 {
	t.Helper()
	c := &domain.Competition{
		Deadline:             deadline,
		RequestedWinnerCount: 1,
		Participants:         []domain.Participant{},
		Posts:                map[string]domain.PostRef{},
	}
	for _, id := range participants {
		c.AddParticipant(id, "")
	}
	id, err := store.Create(context.Background(), c)
	require.NoError(t, err)
	return id
}

func TestMaintenance_EvictsLapsedParticipants(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	oracle := newFakeOracle(10, 30)
	pub := &fakePublisher{}
	notif := newFakeNotifier()
	m := newTestMaintenance(store, oracle, pub, notif)

	id := seedOpenCompetition(t, store, time.Now().Add(time.Hour), 10, 20, 30)
	m.Tick(ctx)

	c, _ := store.Get(ctx, id)
	assert.False(t, c.Finalized)
	assert.True(t, c.HasParticipant(10))
	assert.False(t, c.HasParticipant(20))
	assert.True(t, c.HasParticipant(30))

	assert.Len(t, notif.sent[20], 1)
	assert.Contains(t, notif.sent[20][0], "chetlatildingiz")
	assert.Contains(t, pub.refreshed, id)
}

func TestMaintenance_FailClosedOracleEvictsEveryone(t *testing.T) {
	// An oracle that answers no for everyone (the transport-error case)
	// must drain the list rather than leave stale members in.
	ctx := context.Background()
	store := newFakeStore()
	m := newTestMaintenance(store, newFakeOracle(), &fakePublisher{}, newFakeNotifier())

	id := seedOpenCompetition(t, store, time.Now().Add(time.Hour), 10, 20)
	m.Tick(ctx)

	c, _ := store.Get(ctx, id)
	assert.Empty(t, c.Participants)
}

func TestMaintenance_NoEvictionsNoRefresh(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &fakePublisher{}
	m := newTestMaintenance(store, newFakeOracle(10, 20), pub, newFakeNotifier())

	seedOpenCompetition(t, store, time.Now().Add(time.Hour), 10, 20)
	m.Tick(ctx)

	assert.Empty(t, pub.refreshed)
}

func TestMaintenance_FinalizesExpired(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &fakePublisher{}
	notif := newFakeNotifier()
	m := newTestMaintenance(store, newFakeOracle(10), pub, notif)

	expired := seedOpenCompetition(t, store, time.Now().Add(-time.Minute), 10)
	open := seedOpenCompetition(t, store, time.Now().Add(time.Hour), 10)

	m.Tick(ctx)

	c, _ := store.Get(ctx, expired)
	assert.True(t, c.Finalized)
	assert.Equal(t, []int64{10}, c.WinnerIDs)

	c, _ = store.Get(ctx, open)
	assert.False(t, c.Finalized)
}

func TestMaintenance_ExpiredWithoutParticipantsFinalizesInOneTick(t *testing.T) {
	// Eviction drains the lapsed participant and the deadline sweep of the
	// same tick still settles the competition.
	ctx := context.Background()
	store := newFakeStore()
	pub := &fakePublisher{}
	m := newTestMaintenance(store, newFakeOracle(), pub, newFakeNotifier())

	id := seedOpenCompetition(t, store, time.Now().Add(-time.Minute), 10)
	m.Tick(ctx)

	c, _ := store.Get(ctx, id)
	assert.True(t, c.Finalized)
	assert.Empty(t, c.WinnerIDs)

	found := false
	for _, b := range pub.broadcasts {
		if b == "⚠️ #1 konkursi yakunlandi. Ishtirokchilar bo'lmadi." {
			found = true
		}
	}
	assert.True(t, found, "expected the no-participants closing broadcast")
}

func TestMaintenance_EvictionKeepsMidSweepJoins(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m := newTestMaintenance(store, newFakeOracle(10), &fakePublisher{}, newFakeNotifier())

	id := seedOpenCompetition(t, store, time.Now().Add(time.Hour), 10, 20)
	stale, err := store.Get(ctx, id)
	require.NoError(t, err)

	// A join lands after the sweep captured its snapshot.
	require.NoError(t, store.Update(ctx, id, func(c *domain.Competition) error {
		c.AddParticipant(30, "")
		return nil
	}))

	require.NoError(t, m.evictIneligible(ctx, stale))

	c, _ := store.Get(ctx, id)
	assert.True(t, c.HasParticipant(10))
	assert.False(t, c.HasParticipant(20))
	assert.True(t, c.HasParticipant(30), "mid-sweep join must survive eviction")
}

func TestMaintenance_SkipsFinalizedDuringEviction(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m := newTestMaintenance(store, newFakeOracle(), &fakePublisher{}, newFakeNotifier())

	id := seedOpenCompetition(t, store, time.Now().Add(time.Hour), 10)
	stale, err := store.Get(ctx, id)
	require.NoError(t, err)

	// Finalization lands between the sweep's listing and its write.
	require.NoError(t, store.Update(ctx, id, func(c *domain.Competition) error {
		c.Finalized = true
		c.WinnerIDs = []int64{10}
		return nil
	}))

	require.NoError(t, m.evictIneligible(ctx, stale))

	c, _ := store.Get(ctx, id)
	assert.Equal(t, []int64{10}, c.WinnerIDs)
	assert.True(t, c.HasParticipant(10), "finalized list must stay immutable")
}
