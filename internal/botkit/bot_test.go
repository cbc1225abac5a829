package botkit_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"albot/internal/botkit"
	"albot/internal/botkit/markup"
	"albot/internal/discordtest"
	"albot/internal/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		content  string
		wantCmd  string
		wantArgs string
		wantOK   bool
	}{
		{"command only", "!", "!hellolangs", "hellolangs", "", true},
		{"command and args", "!", "!hello python", "hello", "python", true},
		{"case folded", "!", "!HeLLo Python", "hello", "Python", true},
		{"surrounding space", "!", "  !say   Go Gators!  ", "say", "Go Gators!", true},
		{"newline separates args", "!", "!say\nhi there", "say", "hi there", true},
		{"multi rune prefix", "albot ", "albot blue", "blue", "", true},
		{"no prefix", "!", "hello python", "", "", false},
		{"bare prefix", "!", "!", "", "", false},
		{"space after prefix", "!", "! hello", "", "", false},
		{"empty prefix", "", "hello", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, ok := botkit.ParseCommand(tt.prefix, tt.content)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "python", botkit.Fold(" PYTHON\t"))
	assert.Equal(t, "strasse", botkit.Fold("STRASSE"))
	assert.Equal(t, botkit.Fold("Straße"), botkit.Fold("STRASSE"))
}

func TestBot_Commands(t *testing.T) {
	b := botkit.New(botkit.Options{})
	noop := func(ctx context.Context, inv *botkit.Invocation) error { return nil }

	b.RegisterCmdView("say", noop)
	b.RegisterCmdView("Blue", noop)
	b.RegisterCmdView("hello", noop)

	assert.Equal(t, []string{"blue", "hello", "say"}, b.Commands())

	_, ok := b.GetCmdView("BLUE")
	assert.True(t, ok)

	_, ok = b.GetCmdView("orange")
	assert.False(t, ok)
}

func TestBot_HandleCommand(t *testing.T) {
	m := metrics.New()
	b := botkit.New(botkit.Options{Metrics: m})

	var got string
	b.RegisterCmdView("say", func(ctx context.Context, inv *botkit.Invocation) error {
		got = inv.Args
		return inv.Send(inv.Args)
	})

	inv := discordtest.NewInvocation("say", "hi")
	b.HandleCommand(context.Background(), inv.Invocation)

	assert.Equal(t, "hi", got)
	inv.Bot.AssertSent(t, "hi")
	assert.Contains(t, scrape(t, m), `albot_commands_total{command="say",platform="discord"} 1`)
}

func TestBot_HandleCommand_UnknownIgnored(t *testing.T) {
	b := botkit.New(botkit.Options{})

	inv := discordtest.NewInvocation("nope", "")
	inv.SetBot(discordtest.NewStrictBot())

	b.HandleCommand(context.Background(), inv.Invocation)

	inv.Bot.AssertExpectations(t)
	assert.Empty(t, inv.Bot.Calls)
}

func TestBot_HandleCommand_ErrorReply(t *testing.T) {
	m := metrics.New()
	b := botkit.New(botkit.Options{Metrics: m})
	b.RegisterCmdView("fail", func(ctx context.Context, inv *botkit.Invocation) error {
		return errors.New("boom")
	})

	inv := discordtest.NewInvocation("fail", "")
	b.HandleCommand(context.Background(), inv.Invocation)

	inv.Bot.AssertSent(t, "Internal error")
	assert.Contains(t, scrape(t, m), `albot_command_errors_total{command="fail",platform="discord"} 1`)
}

func TestBot_HandleCommand_RecoversPanic(t *testing.T) {
	m := metrics.New()
	b := botkit.New(botkit.Options{Metrics: m})
	b.RegisterCmdView("panic", func(ctx context.Context, inv *botkit.Invocation) error {
		var embed *discordgo.MessageEmbed
		return inv.Send(embed.Title)
	})

	inv := discordtest.NewInvocation("panic", "")

	assert.NotPanics(t, func() {
		b.HandleCommand(context.Background(), inv.Invocation)
	})
	assert.Contains(t, scrape(t, m), `albot_command_errors_total{command="panic",platform="discord"} 1`)
}

func TestBot_HandleCommand_RateLimit(t *testing.T) {
	m := metrics.New()
	b := botkit.New(botkit.Options{Metrics: m, ReplyRate: 0.001, ReplyBurst: 2})
	b.RegisterCmdView("blue", func(ctx context.Context, inv *botkit.Invocation) error {
		return inv.Send("ORANGE!")
	})

	inv := discordtest.NewInvocation("blue", "")
	for range 3 {
		b.HandleCommand(context.Background(), inv.Invocation)
	}
	assert.Equal(t, []string{"ORANGE!", "ORANGE!"}, inv.Bot.Sent())
	assert.Contains(t, scrape(t, m), `albot_rate_limited_total{platform="discord"} 1`)

	// Other channels have their own budget.
	other := discordtest.NewInvocation("blue", "")
	b.HandleCommand(context.Background(), other.Invocation)
	other.Bot.AssertSent(t, "ORANGE!")
}

func TestInvocation_Roles(t *testing.T) {
	inv := discordtest.NewInvocation("join", "")
	role := discordtest.NewRole("bot-dev")
	inv.Guild.Roles = append(inv.Guild.Roles, role)

	found, ok := inv.RoleByName("bot-dev")
	require.True(t, ok)
	assert.True(t, discordtest.SameEntity(role, found))

	require.NoError(t, inv.AddRole(role))
	require.NoError(t, inv.AddRole(role))
	assert.Equal(t, []string{role.ID}, inv.Author.Roles)
	assert.True(t, inv.HasRole(role))
	assert.Equal(t, []*discordgo.Role{role}, inv.AuthorRoles())

	require.NoError(t, inv.RemoveRole(role))
	assert.False(t, inv.HasRole(role))

	inv.Bot.AssertCalled(t, "GuildMemberRoleAdd", inv.Guild.ID, inv.Author.User.ID, role.ID)
	inv.Bot.AssertCalled(t, "GuildMemberRoleRemove", inv.Guild.ID, inv.Author.User.ID, role.ID)
}

func TestInvocation_NoGuild(t *testing.T) {
	inv := discordtest.NewInvocation("join", "")
	inv.Guild = nil

	_, ok := inv.RoleByName("@everyone")
	assert.False(t, ok)
	assert.ErrorIs(t, inv.AddRole(discordtest.NewRole("")), botkit.ErrNoGuild)
	assert.ErrorIs(t, inv.RemoveRole(discordtest.NewRole("")), botkit.ErrNoGuild)
	inv.Bot.AssertNotCalled(t, "GuildMemberRoleAdd", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvocation_ChannelID(t *testing.T) {
	inv := discordtest.NewInvocation("say", "")
	assert.Equal(t, inv.Channel.ID, inv.ChannelID())

	inv.Channel = nil
	assert.Equal(t, inv.Message.ChannelID, inv.ChannelID())
}

func TestEscapeForMarkdown(t *testing.T) {
	assert.Equal(t, `Go\-Gators\! \(v1\.2\) \*bold\* \[link\]`, markup.EscapeForMarkdown("Go-Gators! (v1.2) *bold* [link]"))
}
