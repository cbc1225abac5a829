package telegram

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"albot/internal/botkit"
	"albot/internal/botkit/markup"
)

// Sender is the part of *tgbotapi.BotAPI that posts to chats.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var _ botkit.Session = (*Session)(nil)

// Session lets command views answer in Telegram chats. Channel IDs are chat
// IDs in decimal. Telegram has no guild roles, so role calls fail with
// botkit.ErrUnsupported.
type Session struct {
	api Sender
}

func NewSession(api Sender) *Session {
	return &Session{api: api}
}

func (s *Session) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return nil, err
	}

	sent, err := s.api.Send(tgbotapi.NewMessage(chatID, content))
	if err != nil {
		return nil, fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}

	return toMessage(channelID, sent), nil
}

// ChannelMessageSendComplex sends the content as plain text. Telegram only
// notifies users of explicit mentions, so allowed mentions are ignored.
func (s *Session) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if data == nil {
		return nil, fmt.Errorf("empty message for chat %s", channelID)
	}
	return s.ChannelMessageSend(channelID, data.Content)
}

// ChannelMessageSendEmbed renders embed as a MarkdownV2 message.
func (s *Session) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return nil, err
	}

	msg := tgbotapi.NewMessage(chatID, renderEmbed(embed))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true

	sent, err := s.api.Send(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send embed to chat %d: %w", chatID, err)
	}

	return toMessage(channelID, sent), nil
}

func (s *Session) ChannelFileSend(channelID, name string, r io.Reader, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return nil, err
	}

	sent, err := s.api.Send(tgbotapi.NewDocument(chatID, tgbotapi.FileReader{Name: name, Reader: r}))
	if err != nil {
		return nil, fmt.Errorf("failed to send document %q to chat %d: %w", name, chatID, err)
	}

	return toMessage(channelID, sent), nil
}

func (s *Session) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	return botkit.ErrUnsupported
}

func (s *Session) GuildMemberRoleRemove(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	return botkit.ErrUnsupported
}

func parseChatID(channelID string) (int64, error) {
	id, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q: %w", channelID, err)
	}
	return id, nil
}

func renderEmbed(embed *discordgo.MessageEmbed) string {
	var sb strings.Builder

	sb.WriteString("*")
	sb.WriteString(markup.EscapeForMarkdown(embed.Title))
	sb.WriteString("*")

	if embed.URL != "" {
		sb.WriteString("\n")
		sb.WriteString(markup.EscapeForMarkdown(embed.URL))
	}

	if embed.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(markup.EscapeForMarkdown(embed.Description))
	}

	for _, field := range embed.Fields {
		sb.WriteString("\n_")
		sb.WriteString(markup.EscapeForMarkdown(field.Name))
		sb.WriteString("_: ")
		sb.WriteString(markup.EscapeForMarkdown(field.Value))
	}

	return sb.String()
}

func toMessage(channelID string, sent tgbotapi.Message) *discordgo.Message {
	return &discordgo.Message{
		ID:        strconv.Itoa(sent.MessageID),
		ChannelID: channelID,
		Content:   sent.Text,
		Timestamp: sent.Time(),
	}
}
