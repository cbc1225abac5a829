package bot

import (
	"context"
	"fmt"

	"albot/internal/botkit"
)

func ViewCmdHello(ctx context.Context, inv *botkit.Invocation) error {
	if inv.Args == "" {
		return inv.Send(fmt.Sprintf("Usage: %shello <language>", inv.Prefix))
	}

	snippet, ok := HelloSnippet(inv.Args)
	if !ok {
		return inv.SendUserText(fmt.Sprintf(
			"I don't know how to say hello in %s. Try %shellolangs.",
			inv.Args,
			inv.Prefix,
		))
	}

	return inv.Send(snippet)
}

func ViewCmdHelloLangs(ctx context.Context, inv *botkit.Invocation) error {
	return inv.Send(LanguageList())
}
