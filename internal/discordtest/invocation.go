package discordtest

import (
	"strings"

	"albot/internal/botkit"
)

// Invocation is a botkit.Invocation wired to fresh fixtures, keeping the
// concrete Bot around for assertions.
type Invocation struct {
	*botkit.Invocation
	Bot *Bot
}

// NewInvocation returns the invocation of "!command args" by a fresh member
// in a fresh text channel of a fresh guild, answered by a NewBot.
func NewInvocation(command, args string) *Invocation {
	var (
		bot     = NewBot()
		guild   = NewGuild()
		channel = NewTextChannel(guild)
		author  = NewMember(guild)
		content = strings.TrimSpace("!" + command + " " + args)
	)

	return &Invocation{
		Invocation: &botkit.Invocation{
			Session:  bot,
			Me:       bot.User,
			Guild:    guild,
			Channel:  channel,
			Message:  NewMessage(channel, author, content),
			Author:   author,
			Platform: botkit.PlatformDiscord,
			Prefix:   "!",
			Command:  command,
			Args:     args,
		},
		Bot: bot,
	}
}

// SetBot makes b answer the invocation.
func (inv *Invocation) SetBot(b *Bot) {
	inv.Bot = b
	inv.Session = b
	inv.Me = b.User
}
