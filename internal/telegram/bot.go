package telegram

import (
	"context"
	"log"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"albot/internal/botkit"
)

// Prefix is how Telegram marks bot commands.
const Prefix = "/"

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Sender
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

type Bot struct {
	api     API
	session *Session
	kit     *botkit.Bot
	me      *discordgo.User
	timeout time.Duration
}

func New(api API, self tgbotapi.User, kit *botkit.Bot, timeout time.Duration) *Bot {
	return &Bot{
		api:     api,
		session: NewSession(api),
		kit:     kit,
		me:      toUser(&self),
		timeout: timeout,
	}
}

// Run long-polls for updates and handles them one at a time until ctx is
// done.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	var lastUpdateID int
	consecutiveErrorCount := 0
	errorBackoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if lastUpdateID != 0 {
			updateConfig.Offset = lastUpdateID + 1
		}

		updates, err := b.api.GetUpdates(updateConfig)
		if err != nil {
			consecutiveErrorCount++
			log.Printf("[ERROR] Failed to get updates (attempt %d): %v", consecutiveErrorCount, err)

			if consecutiveErrorCount > 1 {
				errorBackoff = min(errorBackoff*2, 30*time.Second)
			}

			if err := sleep(ctx, errorBackoff); err != nil {
				return err
			}
			continue
		}

		consecutiveErrorCount = 0
		errorBackoff = time.Second

		for _, update := range updates {
			if update.UpdateID > lastUpdateID {
				lastUpdateID = update.UpdateID
			}

			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[ERROR] panic recovered: %v\n%s", p, string(debug.Stack()))
		}
	}()

	inv, ok := NewInvocation(b.session, b.me, update.Message)
	if !ok {
		return
	}

	log.Printf("[DEBUG] Processing update ID: %d", update.UpdateID)

	updateCtx, updateCancel := context.WithTimeout(ctx, b.timeout)
	defer updateCancel()

	b.kit.HandleCommand(updateCtx, inv)
}

// NewInvocation builds the invocation for a command message. It reports
// false for non-commands and for messages sent by bots. The invocation has
// no guild.
func NewInvocation(session botkit.Session, me *discordgo.User, msg *tgbotapi.Message) (*botkit.Invocation, bool) {
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return nil, false
	}
	if msg.From != nil && msg.From.IsBot {
		return nil, false
	}

	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	author := toUser(msg.From)

	channel := &discordgo.Channel{
		ID:   chatID,
		Name: msg.Chat.Title,
		Type: discordgo.ChannelTypeGuildText,
	}
	if msg.Chat.IsPrivate() {
		channel.Type = discordgo.ChannelTypeDM
	}

	return &botkit.Invocation{
		Session: session,
		Me:      me,
		Channel: channel,
		Message: &discordgo.Message{
			ID:        strconv.Itoa(msg.MessageID),
			ChannelID: chatID,
			Content:   msg.Text,
			Timestamp: msg.Time(),
			Author:    author,
		},
		Author:   &discordgo.Member{User: author},
		Platform: botkit.PlatformTelegram,
		Prefix:   Prefix,
		Command:  botkit.Fold(msg.Command()),
		Args:     strings.TrimSpace(msg.CommandArguments()),
	}, true
}

func toUser(u *tgbotapi.User) *discordgo.User {
	if u == nil {
		return &discordgo.User{}
	}

	return &discordgo.User{
		ID:         strconv.FormatInt(u.ID, 10),
		Username:   u.UserName,
		GlobalName: strings.TrimSpace(u.FirstName + " " + u.LastName),
		Bot:        u.IsBot,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
