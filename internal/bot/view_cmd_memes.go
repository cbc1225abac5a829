package bot

import (
	"context"
	"fmt"

	"albot/internal/botkit"
)

// The Gator call and response: whoever shouts one colour gets the other.
const (
	replyBlue   = "ORANGE!"
	replyOrange = "BLUE!"
)

func ViewCmdBlue(ctx context.Context, inv *botkit.Invocation) error {
	return inv.Send(replyBlue)
}

func ViewCmdOrange(ctx context.Context, inv *botkit.Invocation) error {
	return inv.Send(replyOrange)
}

// ViewCmdSay repeats the argument text unchanged.
func ViewCmdSay(ctx context.Context, inv *botkit.Invocation) error {
	if inv.Args == "" {
		return inv.Send(fmt.Sprintf("Usage: %ssay <phrase>", inv.Prefix))
	}

	return inv.SendUserText(inv.Args)
}
