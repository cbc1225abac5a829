// Package discordtest builds stand-ins for discordgo objects so command
// views can be tested without a gateway connection.
//
// Fixtures are the library's own structs filled with harmless defaults.
// Set any field on the returned pointer to shape a scenario; fields the
// real type does not have do not compile. Child objects (a member's user,
// a channel's guild) are fresh fixtures of the child type.
package discordtest

import (
	"mime"
	"path"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

const everyone = "@everyone"

// NewGuild returns a guild holding an @everyone role followed by roles.
func NewGuild(roles ...*discordgo.Role) *discordgo.Guild {
	id := NextID()

	g := &discordgo.Guild{
		ID:                id,
		Name:              "guild",
		Icon:              "icon.png",
		Region:            "Europe",
		AfkChannelID:      NextID(),
		OwnerID:           NextID(),
		Splash:            "splash.png",
		Banner:            "banner.png",
		AfkTimeout:        100,
		VerificationLevel: discordgo.VerificationLevelMedium,
		MfaLevel:          discordgo.MfaLevelElevated,
		Description:       "mocking is fun",
		MaxPresences:      10_000,
		MaxMembers:        100_000,
		PreferredLocale:   "en-US",
		SystemChannelID:   NextID(),
		Members:           []*discordgo.Member{},
		Channels:          []*discordgo.Channel{},
		Emojis:            []*discordgo.Emoji{},
	}

	// @everyone shares the guild's ID.
	g.Roles = append([]*discordgo.Role{{ID: id, Name: everyone, Position: 0}}, roles...)

	return g
}

// NewRole returns a role named name, or "role" when name is empty.
func NewRole(name string) *discordgo.Role {
	if name == "" {
		name = "role"
	}

	return &discordgo.Role{
		ID:          NextID(),
		Name:        name,
		Position:    1,
		Mentionable: true,
	}
}

// NewUser returns a human user named name, or "user" when name is empty.
func NewUser(name string) *discordgo.User {
	if name == "" {
		name = "user"
	}

	return &discordgo.User{
		ID:            NextID(),
		Username:      name,
		GlobalName:    name,
		Discriminator: "0",
		Bot:           false,
	}
}

// NewMember returns a member of guild holding roles. The member is added to
// guild.Members. A nil guild yields a member without a guild.
// As on Discord, @everyone is implied and not listed in Roles.
func NewMember(guild *discordgo.Guild, roles ...*discordgo.Role) *discordgo.Member {
	m := &discordgo.Member{
		JoinedAt: time.Now().UTC(),
		User:     NewUser("member"),
		Roles: lo.FilterMap(roles, func(r *discordgo.Role, _ int) (string, bool) {
			return r.ID, r.Name != everyone
		}),
	}

	if guild != nil {
		m.GuildID = guild.ID
		guild.Members = append(guild.Members, m)
		guild.MemberCount = len(guild.Members)
	}

	return m
}

// NewTextChannel returns a text channel of guild, creating a guild when nil.
func NewTextChannel(guild *discordgo.Guild) *discordgo.Channel {
	if guild == nil {
		guild = NewGuild()
	}

	c := &discordgo.Channel{
		ID:       NextID(),
		GuildID:  guild.ID,
		Name:     "channel",
		Topic:    "topic",
		Type:     discordgo.ChannelTypeGuildText,
		Position: 1,
		ParentID: NextID(),
		NSFW:     false,
	}
	guild.Channels = append(guild.Channels, c)

	return c
}

// NewMessage returns a message posted by author in channel. Nil arguments
// are replaced by fresh fixtures.
func NewMessage(channel *discordgo.Channel, author *discordgo.Member, content string) *discordgo.Message {
	if channel == nil {
		channel = NewTextChannel(nil)
	}
	if author == nil {
		author = NewMember(nil)
		author.GuildID = channel.GuildID
	}
	if content == "" {
		content = "content"
	}

	m := &discordgo.Message{
		ID:          NextID(),
		ChannelID:   channel.ID,
		GuildID:     channel.GuildID,
		Content:     content,
		Timestamp:   time.Now().UTC(),
		Author:      author.User,
		Member:      author,
		Type:        discordgo.MessageTypeDefault,
		Attachments: []*discordgo.MessageAttachment{},
		Embeds:      []*discordgo.MessageEmbed{},
		Mentions:    []*discordgo.User{},
		Reactions:   []*discordgo.MessageReactions{},
	}
	channel.LastMessageID = m.ID

	return m
}

// NewAttachment returns a CDN-hosted attachment, named attachment.png when
// filename is empty.
func NewAttachment(filename string) *discordgo.MessageAttachment {
	if filename == "" {
		filename = "attachment.png"
	}

	id := NextID()
	url := "https://cdn.discordapp.com/attachments/" + id + "/" + filename

	return &discordgo.MessageAttachment{
		ID:          id,
		URL:         url,
		ProxyURL:    url,
		Filename:    filename,
		ContentType: mime.TypeByExtension(path.Ext(filename)),
		Size:        1024,
	}
}

// NewEmoji returns a custom emoji of guild, creating a guild when nil.
func NewEmoji(guild *discordgo.Guild, name string) *discordgo.Emoji {
	if guild == nil {
		guild = NewGuild()
	}
	if name == "" {
		name = "hyperlemon"
	}

	e := &discordgo.Emoji{
		ID:            NextID(),
		Name:          name,
		Roles:         []string{},
		RequireColons: true,
		Managed:       true,
		Available:     true,
	}
	guild.Emojis = append(guild.Emojis, e)

	return e
}

// NewPartialEmoji returns an emoji known only by name, as in reactions with
// unicode emoji.
func NewPartialEmoji(name string) *discordgo.Emoji {
	if name == "" {
		name = "guido"
	}
	return &discordgo.Emoji{Name: name}
}

// NewReaction adds a reaction with emoji to msg. When bot is not nil, the
// bot answers MessageReactions for it with users.
func NewReaction(bot *Bot, msg *discordgo.Message, emoji *discordgo.Emoji, users ...*discordgo.User) *discordgo.MessageReactions {
	if emoji == nil {
		emoji = NewEmoji(nil, "")
	}

	r := &discordgo.MessageReactions{
		Count: len(users),
		Emoji: emoji,
	}
	if bot != nil {
		r.Me = lo.ContainsBy(users, func(u *discordgo.User) bool { return SameEntity(u, bot.User) })
		bot.reactionUsers(msg, emoji, users)
	}
	msg.Reactions = append(msg.Reactions, r)

	return r
}

// NewWebhook returns an incoming webhook of channel, creating one when nil.
func NewWebhook(channel *discordgo.Channel) *discordgo.Webhook {
	if channel == nil {
		channel = NewTextChannel(nil)
	}

	id := NextID()

	return &discordgo.Webhook{
		ID:        id,
		Type:      discordgo.WebhookTypeIncoming,
		GuildID:   channel.GuildID,
		ChannelID: channel.ID,
		User:      NewUser("webhook"),
		Name:      "webhook",
		Token:     "token-" + id,
	}
}
