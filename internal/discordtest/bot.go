package discordtest

import (
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"albot/internal/botkit"
)

var _ botkit.Session = (*Bot)(nil)

// Bot stands in for the bot's gateway session. Every network call is
// recorded through mock.Mock; request options are not recorded.
type Bot struct {
	mock.Mock
	// User is the bot's own account.
	User *discordgo.User
}

// NewBot returns a Bot whose message, file, embed, role and webhook calls
// succeed without further setup. MessageReactions answers only for
// reactions registered with NewReaction.
func NewBot() *Bot {
	b := NewStrictBot()

	b.On("ChannelMessageSend", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	b.On("ChannelMessageSendComplex", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	b.On("ChannelMessageSendEmbed", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	b.On("ChannelFileSend", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	b.On("GuildMemberRoleAdd", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	b.On("GuildMemberRoleRemove", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	b.On("WebhookExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	b.On("WebhookEdit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	b.On("WebhookDelete", mock.Anything).Return(nil).Maybe()

	return b
}

// NewStrictBot returns a Bot with no expectations: any call not set up with
// On fails the test.
func NewStrictBot() *Bot {
	u := NewUser("bot")
	u.Bot = true

	return &Bot{User: u}
}

func (b *Bot) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := b.Called(channelID, content)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if msg, ok := args.Get(0).(*discordgo.Message); ok {
		return msg, nil
	}
	return b.sentMessage(channelID, content), nil
}

func (b *Bot) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := b.Called(channelID, data)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if msg, ok := args.Get(0).(*discordgo.Message); ok {
		return msg, nil
	}

	msg := b.sentMessage(channelID, data.Content)
	msg.Embeds = append(msg.Embeds, data.Embeds...)
	return msg, nil
}

func (b *Bot) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := b.Called(channelID, embed)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if msg, ok := args.Get(0).(*discordgo.Message); ok {
		return msg, nil
	}

	msg := b.sentMessage(channelID, "")
	msg.Embeds = append(msg.Embeds, embed)
	return msg, nil
}

// ChannelFileSend records the file name and its full content as a string.
func (b *Bot) ChannelFileSend(channelID, name string, r io.Reader, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	args := b.Called(channelID, name, string(content))
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if msg, ok := args.Get(0).(*discordgo.Message); ok {
		return msg, nil
	}

	msg := b.sentMessage(channelID, "")
	msg.Attachments = append(msg.Attachments, NewAttachment(name))
	return msg, nil
}

func (b *Bot) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	return b.Called(guildID, userID, roleID).Error(0)
}

func (b *Bot) GuildMemberRoleRemove(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	return b.Called(guildID, userID, roleID).Error(0)
}

func (b *Bot) MessageReactions(channelID, messageID, emojiID string, limit int, beforeID, afterID string, _ ...discordgo.RequestOption) ([]*discordgo.User, error) {
	args := b.Called(channelID, messageID, emojiID, limit, beforeID, afterID)
	users, _ := args.Get(0).([]*discordgo.User)
	return users, args.Error(1)
}

func (b *Bot) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := b.Called(webhookID, token, wait, data)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if msg, ok := args.Get(0).(*discordgo.Message); ok {
		return msg, nil
	}
	if !wait || data == nil {
		return nil, nil
	}

	msg := b.sentMessage("", data.Content)
	msg.WebhookID = webhookID
	return msg, nil
}

func (b *Bot) WebhookEdit(webhookID, name, avatar, channelID string, _ ...discordgo.RequestOption) (*discordgo.Webhook, error) {
	args := b.Called(webhookID, name, avatar, channelID)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if wh, ok := args.Get(0).(*discordgo.Webhook); ok {
		return wh, nil
	}
	return &discordgo.Webhook{ID: webhookID, Name: name, Avatar: avatar, ChannelID: channelID}, nil
}

func (b *Bot) WebhookDelete(webhookID string, _ ...discordgo.RequestOption) error {
	return b.Called(webhookID).Error(0)
}

// Sent returns the content of every ChannelMessageSend and
// ChannelMessageSendComplex call, in order.
func (b *Bot) Sent() []string {
	return lo.FilterMap(b.Calls, func(c mock.Call, _ int) (string, bool) {
		switch c.Method {
		case "ChannelMessageSend":
			return c.Arguments.String(1), true
		case "ChannelMessageSendComplex":
			data, ok := c.Arguments.Get(1).(*discordgo.MessageSend)
			if !ok || data == nil {
				return "", false
			}
			return data.Content, true
		default:
			return "", false
		}
	})
}

// LastSent returns the content of the latest ChannelMessageSend call.
func (b *Bot) LastSent() (string, bool) {
	return lo.Last(b.Sent())
}

// AssertSent asserts that the latest message sent equals text.
func (b *Bot) AssertSent(t testing.TB, text string) bool {
	t.Helper()

	last, ok := b.LastSent()
	if !assert.True(t, ok, "expected a message to have been sent") {
		return false
	}
	return assert.Equal(t, text, last)
}

// Embeds returns every embed sent, in order.
func (b *Bot) Embeds() []*discordgo.MessageEmbed {
	return lo.FilterMap(b.Calls, func(c mock.Call, _ int) (*discordgo.MessageEmbed, bool) {
		if c.Method != "ChannelMessageSendEmbed" {
			return nil, false
		}
		embed, ok := c.Arguments.Get(1).(*discordgo.MessageEmbed)
		return embed, ok
	})
}

// Files returns the names of every file sent, in order.
func (b *Bot) Files() []string {
	return lo.FilterMap(b.Calls, func(c mock.Call, _ int) (string, bool) {
		if c.Method != "ChannelFileSend" {
			return "", false
		}
		return c.Arguments.String(1), true
	})
}

func (b *Bot) reactionUsers(msg *discordgo.Message, emoji *discordgo.Emoji, users []*discordgo.User) {
	b.On("MessageReactions", msg.ChannelID, msg.ID, emoji.APIName(), mock.Anything, mock.Anything, mock.Anything).
		Return(users, nil).
		Maybe()
}

func (b *Bot) sentMessage(channelID, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        NextID(),
		ChannelID: channelID,
		Content:   content,
		Author:    b.User,
		Type:      discordgo.MessageTypeDefault,
	}
}
