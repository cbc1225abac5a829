package discord

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"

	"albot/internal/botkit"
)

// StateCache looks up guilds and channels the gateway has already sent.
// It is satisfied by *discordgo.State.
type StateCache interface {
	Guild(guildID string) (*discordgo.Guild, error)
	Channel(channelID string) (*discordgo.Channel, error)
}

type Bot struct {
	session *discordgo.Session
	kit     *botkit.Bot
	prefix  string
	timeout time.Duration
}

func New(token string, kit *botkit.Bot, prefix string, timeout time.Duration, debug bool) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	if debug {
		session.LogLevel = discordgo.LogDebug
	}

	return &Bot{
		session: session,
		kit:     kit,
		prefix:  prefix,
		timeout: timeout,
	}, nil
}

// Session is the underlying gateway session, for components that post
// outside of a command.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// Run connects to the gateway and serves commands until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	remove := b.session.AddHandler(func(s *discordgo.Session, event *discordgo.MessageCreate) {
		b.onMessage(ctx, s, event)
	})
	defer remove()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	if u := b.session.State.User; u != nil {
		log.Printf("[INFO] Discord bot authorized successfully: %s", u.Username)
	}

	<-ctx.Done()

	if err := b.session.Close(); err != nil {
		log.Printf("[WARN] failed to close Discord session: %v", err)
	}

	return ctx.Err()
}

func (b *Bot) onMessage(ctx context.Context, s *discordgo.Session, event *discordgo.MessageCreate) {
	var (
		cache StateCache
		me    *discordgo.User
	)
	if s.State != nil {
		cache, me = s.State, s.State.User
	}

	inv, ok := NewInvocation(s, cache, me, event.Message, b.prefix)
	if !ok {
		return
	}

	cmdCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	b.kit.HandleCommand(cmdCtx, inv)
}

// NewInvocation builds the invocation for a prefixed command in msg. It
// reports false for messages from bots and for messages that are not
// commands. Guild and channel come from cache when available; msg.Member is
// copied so views may update its roles.
func NewInvocation(session botkit.Session, cache StateCache, me *discordgo.User, msg *discordgo.Message, prefix string) (*botkit.Invocation, bool) {
	if msg == nil || msg.Author == nil || msg.Author.Bot {
		return nil, false
	}

	cmd, args, ok := botkit.ParseCommand(prefix, msg.Content)
	if !ok {
		return nil, false
	}

	inv := &botkit.Invocation{
		Session:  session,
		Me:       me,
		Message:  msg,
		Platform: botkit.PlatformDiscord,
		Prefix:   prefix,
		Command:  cmd,
		Args:     args,
		Channel:  lookupChannel(cache, msg),
		Guild:    lookupGuild(cache, msg),
	}

	if msg.GuildID != "" {
		inv.Author = messageMember(msg)
	}

	return inv, true
}

func lookupChannel(cache StateCache, msg *discordgo.Message) *discordgo.Channel {
	if cache != nil {
		if ch, err := cache.Channel(msg.ChannelID); err == nil {
			return ch
		}
	}

	return &discordgo.Channel{ID: msg.ChannelID, GuildID: msg.GuildID}
}

func lookupGuild(cache StateCache, msg *discordgo.Message) *discordgo.Guild {
	if msg.GuildID == "" {
		return nil
	}

	if cache != nil {
		g, err := cache.Guild(msg.GuildID)
		if err == nil {
			return g
		}
		log.Printf("[WARN] guild %s is not in the state cache: %v", msg.GuildID, err)
	}

	return &discordgo.Guild{ID: msg.GuildID}
}

func messageMember(msg *discordgo.Message) *discordgo.Member {
	var m discordgo.Member
	if msg.Member != nil {
		m = *msg.Member
		m.Roles = slices.Clone(msg.Member.Roles)
	}

	// The gateway omits both on a message's member.
	m.User = msg.Author
	m.GuildID = msg.GuildID

	return &m
}
