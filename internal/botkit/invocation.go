package botkit

import (
	"errors"
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const (
	PlatformDiscord  = "discord"
	PlatformTelegram = "telegram"
)

var (
	ErrUnsupported = errors.New("not supported on this platform")
	ErrNoGuild     = errors.New("invocation has no guild")
)

// Session is the part of the chat client a command may call. It is
// satisfied by *discordgo.Session.
type Session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelFileSend(channelID, name string, r io.Reader, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// Invocation is the context a command view runs in. Guild is nil outside
// of guilds (direct messages, Telegram).
type Invocation struct {
	Session Session
	// Me is the bot's own user.
	Me       *discordgo.User
	Guild    *discordgo.Guild
	Channel  *discordgo.Channel
	Message  *discordgo.Message
	Author   *discordgo.Member
	Platform string
	Prefix   string
	Command  string
	Args     string
}

func (inv *Invocation) ChannelID() string {
	switch {
	case inv.Channel != nil:
		return inv.Channel.ID
	case inv.Message != nil:
		return inv.Message.ChannelID
	default:
		return ""
	}
}

func (inv *Invocation) Send(text string) error {
	if _, err := inv.Session.ChannelMessageSend(inv.ChannelID(), text); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendUserText sends text that carries user input. Mentions in it are not
// resolved, so nobody is pinged.
func (inv *Invocation) SendUserText(text string) error {
	data := &discordgo.MessageSend{
		Content:         text,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}

	if _, err := inv.Session.ChannelMessageSendComplex(inv.ChannelID(), data); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (inv *Invocation) SendEmbed(embed *discordgo.MessageEmbed) error {
	if _, err := inv.Session.ChannelMessageSendEmbed(inv.ChannelID(), embed); err != nil {
		return fmt.Errorf("failed to send embed: %w", err)
	}
	return nil
}

func (inv *Invocation) SendFile(name string, r io.Reader) error {
	if _, err := inv.Session.ChannelFileSend(inv.ChannelID(), name, r); err != nil {
		return fmt.Errorf("failed to send file %q: %w", name, err)
	}
	return nil
}

// AddRole gives role to the author and records it on inv.Author.
func (inv *Invocation) AddRole(role *discordgo.Role) error {
	if inv.Guild == nil {
		return ErrNoGuild
	}

	if err := inv.Session.GuildMemberRoleAdd(inv.Guild.ID, inv.Author.User.ID, role.ID); err != nil {
		return fmt.Errorf("failed to add role %q: %w", role.Name, err)
	}

	if !lo.Contains(inv.Author.Roles, role.ID) {
		inv.Author.Roles = append(inv.Author.Roles, role.ID)
	}
	return nil
}

// RemoveRole takes role from the author and drops it from inv.Author.
func (inv *Invocation) RemoveRole(role *discordgo.Role) error {
	if inv.Guild == nil {
		return ErrNoGuild
	}

	if err := inv.Session.GuildMemberRoleRemove(inv.Guild.ID, inv.Author.User.ID, role.ID); err != nil {
		return fmt.Errorf("failed to remove role %q: %w", role.Name, err)
	}

	inv.Author.Roles = lo.Without(inv.Author.Roles, role.ID)
	return nil
}

func (inv *Invocation) RoleByName(name string) (*discordgo.Role, bool) {
	if inv.Guild == nil {
		return nil, false
	}

	return lo.Find(inv.Guild.Roles, func(r *discordgo.Role) bool {
		return r.Name == name
	})
}

// AuthorRoles resolves the author's role IDs against the guild, in guild order.
func (inv *Invocation) AuthorRoles() []*discordgo.Role {
	if inv.Guild == nil || inv.Author == nil {
		return nil
	}

	return lo.Filter(inv.Guild.Roles, func(r *discordgo.Role, _ int) bool {
		return lo.Contains(inv.Author.Roles, r.ID)
	})
}

func (inv *Invocation) HasRole(role *discordgo.Role) bool {
	if inv.Author == nil || role == nil {
		return false
	}
	return lo.Contains(inv.Author.Roles, role.ID)
}
