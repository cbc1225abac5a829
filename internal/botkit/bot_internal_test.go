package botkit

import (
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func channelInvocation(id int) *Invocation {
	return &Invocation{
		Platform: PlatformDiscord,
		Channel:  &discordgo.Channel{ID: strconv.Itoa(id)},
	}
}

func TestBot_IdleLimitersAreDropped(t *testing.T) {
	b := New(Options{ReplyRate: 1000, ReplyBurst: 1})
	b.sweepAt = 3

	for id := range 3 {
		assert.True(t, b.allow(channelInvocation(id)))
	}
	assert.Len(t, b.limiters, 3)

	time.Sleep(20 * time.Millisecond)

	assert.True(t, b.allow(channelInvocation(3)))
	assert.Len(t, b.limiters, 1)
	assert.Equal(t, 3, b.sweepAt)
}

func TestBot_BusyLimitersAreKept(t *testing.T) {
	b := New(Options{ReplyRate: 0.001, ReplyBurst: 1})
	b.sweepAt = 3

	for id := range 3 {
		assert.True(t, b.allow(channelInvocation(id)))
	}

	assert.True(t, b.allow(channelInvocation(3)))
	assert.Len(t, b.limiters, 4)
	assert.Equal(t, 6, b.sweepAt)

	// A kept limiter still enforces its budget.
	assert.False(t, b.allow(channelInvocation(0)))
}
