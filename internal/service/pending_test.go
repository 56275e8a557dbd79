package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPendingJoins_NewerAttemptSupersedes(t *testing.T) {
	p := NewPendingJoins()

	p.Set(10, 1)
	p.Set(10, 2)

	compID, ok := p.Get(10)
	assert.True(t, ok)
	assert.Equal(t, int64(2), compID)
}

func TestPendingJoins_Clear(t *testing.T) {
	p := NewPendingJoins()
	p.Set(10, 1)
	p.Clear(10)

	_, ok := p.Get(10)
	assert.False(t, ok)
}

func TestPendingJoins_Sweep(t *testing.T) {
	p := NewPendingJoins()
	current := time.Now()
	p.now = func() time.Time { return current }

	p.Set(10, 1)
	p.now = func() time.Time { return current.Add(time.Hour) }
	p.Set(20, 2)

	p.Sweep(30 * time.Minute)

	_, ok := p.Get(10)
	assert.False(t, ok)
	_, ok = p.Get(20)
	assert.True(t, ok)
}
