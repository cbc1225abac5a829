package bot

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"albot/internal/botkit"
)

type command struct {
	name  string
	usage string
	about string
	view  botkit.ViewFunc
}

// Register adds every chat command to kit.
func Register(kit *botkit.Bot, catalog *Catalog, feeds FeedFetcher, files fs.FS) {
	commands := []command{
		{"hello", "<language>", "print hello world in a language", ViewCmdHello},
		{"hellolangs", "", "list the languages hello knows", ViewCmdHelloLangs},
		{"blue", "", "", ViewCmdBlue},
		{"orange", "", "", ViewCmdOrange},
		{"say", "<phrase>", "repeat a phrase", ViewCmdSay},
		{"join", "<role>", "join a project role", ViewCmdJoin(catalog, files)},
		{"leave", "[role]", "leave one project role, or all of them", ViewCmdLeave(catalog)},
		{"list", "", "list the club's projects", ViewCmdList(catalog)},
		{"updates", "<project>", "show a project's latest commits", ViewCmdUpdates(catalog, feeds, defaultUpdatesLimit)},
	}
	commands = append(commands, command{"help", "", "show this message", viewCmdHelp(commands)})

	for _, cmd := range commands {
		kit.RegisterCmdView(cmd.name, cmd.view)
	}
}

// viewCmdHelp lists the documented commands. Commands without a
// description stay hidden.
func viewCmdHelp(commands []command) botkit.ViewFunc {
	return func(ctx context.Context, inv *botkit.Invocation) error {
		var sb strings.Builder
		sb.WriteString("Available commands:\n")

		for _, cmd := range commands {
			if cmd.about == "" {
				continue
			}

			usage := inv.Prefix + cmd.name
			if cmd.usage != "" {
				usage += " " + cmd.usage
			}
			fmt.Fprintf(&sb, "%s - %s\n", usage, cmd.about)
		}
		fmt.Fprintf(&sb, "%s - show this message\n", inv.Prefix+"help")

		return inv.Send(sb.String())
	}
}
