package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albot/internal/botkit"
	"albot/internal/discordtest"
)

type fakeCache struct {
	guilds   map[string]*discordgo.Guild
	channels map[string]*discordgo.Channel
}

func newFakeCache(guild *discordgo.Guild) *fakeCache {
	c := &fakeCache{
		guilds:   map[string]*discordgo.Guild{guild.ID: guild},
		channels: map[string]*discordgo.Channel{},
	}
	for _, ch := range guild.Channels {
		c.channels[ch.ID] = ch
	}
	return c
}

func (c *fakeCache) Guild(id string) (*discordgo.Guild, error) {
	if g, ok := c.guilds[id]; ok {
		return g, nil
	}
	return nil, discordgo.ErrStateNotFound
}

func (c *fakeCache) Channel(id string) (*discordgo.Channel, error) {
	if ch, ok := c.channels[id]; ok {
		return ch, nil
	}
	return nil, errors.New("channel not found")
}

func TestNewInvocation(t *testing.T) {
	bot := discordtest.NewBot()
	role := discordtest.NewRole("bot-dev")
	guild := discordtest.NewGuild(role)
	channel := discordtest.NewTextChannel(guild)
	author := discordtest.NewMember(guild, role)
	msg := discordtest.NewMessage(channel, author, "!Hello  Python ")

	// The gateway sends the message's member without user or guild.
	msg.Member = &discordgo.Member{Roles: author.Roles, Nick: "gator"}

	inv, ok := NewInvocation(bot, newFakeCache(guild), bot.User, msg, "!")
	require.True(t, ok)

	assert.Equal(t, "hello", inv.Command)
	assert.Equal(t, "Python", inv.Args)
	assert.Equal(t, botkit.PlatformDiscord, inv.Platform)
	assert.Equal(t, "!", inv.Prefix)
	assert.Same(t, guild, inv.Guild)
	assert.Same(t, channel, inv.Channel)
	assert.Same(t, bot.User, inv.Me)
	assert.Same(t, msg, inv.Message)

	require.NotNil(t, inv.Author)
	assert.Same(t, msg.Author, inv.Author.User)
	assert.Equal(t, guild.ID, inv.Author.GuildID)
	assert.Equal(t, "gator", inv.Author.Nick)
	assert.True(t, inv.HasRole(role))

	// Role changes stay on the invocation's copy.
	require.NoError(t, inv.RemoveRole(role))
	assert.Equal(t, []string{role.ID}, msg.Member.Roles)
}

func TestNewInvocation_Ignored(t *testing.T) {
	bot := discordtest.NewBot()
	guild := discordtest.NewGuild()
	channel := discordtest.NewTextChannel(guild)

	fromBot := discordtest.NewMessage(channel, nil, "!blue")
	fromBot.Author.Bot = true

	tests := []struct {
		name string
		msg  *discordgo.Message
	}{
		{"bot author", fromBot},
		{"not a command", discordtest.NewMessage(channel, nil, "blue")},
		{"other prefix", discordtest.NewMessage(channel, nil, "?blue")},
		{"nil message", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NewInvocation(bot, newFakeCache(guild), bot.User, tt.msg, "!")
			assert.False(t, ok)
		})
	}
}

func TestNewInvocation_CacheMiss(t *testing.T) {
	bot := discordtest.NewBot()
	msg := discordtest.NewMessage(nil, nil, "!leave")

	inv, ok := NewInvocation(bot, &fakeCache{}, bot.User, msg, "!")
	require.True(t, ok)

	require.NotNil(t, inv.Guild)
	assert.Equal(t, msg.GuildID, inv.Guild.ID)
	assert.Equal(t, msg.ChannelID, inv.ChannelID())

	_, found := inv.RoleByName("bot-dev")
	assert.False(t, found)
}

func TestNewInvocation_DirectMessage(t *testing.T) {
	bot := discordtest.NewBot()
	msg := &discordgo.Message{
		ID:        discordtest.NextID(),
		ChannelID: discordtest.NextID(),
		Content:   "!join mvw",
		Author:    discordtest.NewUser("gator"),
	}

	inv, ok := NewInvocation(bot, nil, bot.User, msg, "!")
	require.True(t, ok)

	assert.Nil(t, inv.Guild)
	assert.Nil(t, inv.Author)
	assert.Equal(t, msg.ChannelID, inv.ChannelID())
	assert.Equal(t, "mvw", inv.Args)
}
