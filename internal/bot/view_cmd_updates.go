package bot

import (
	"context"
	"fmt"
	"strings"

	"albot/internal/botkit"
	"albot/internal/model"
)

const defaultUpdatesLimit = 5

type FeedFetcher interface {
	Fetch(ctx context.Context, name, url string) ([]model.Item, error)
}

// ViewCmdUpdates replies with the latest entries of a project's feed.
func ViewCmdUpdates(catalog *Catalog, feeds FeedFetcher, limit int) botkit.ViewFunc {
	if limit <= 0 {
		limit = defaultUpdatesLimit
	}

	return func(ctx context.Context, inv *botkit.Invocation) error {
		if inv.Args == "" {
			return inv.Send(fmt.Sprintf("Usage: %supdates <project>", inv.Prefix))
		}

		project, ok := catalog.Project(inv.Args)
		if !ok || project.Feed == "" {
			return inv.Send(fmt.Sprintf("Unknown project: %s. Try %slist.", inv.Args, inv.Prefix))
		}

		items, err := feeds.Fetch(ctx, project.Key, project.Feed)
		if err != nil {
			return fmt.Errorf("failed to fetch updates for %s: %w", project.Key, err)
		}

		if len(items) == 0 {
			return inv.Send(fmt.Sprintf("No recent activity in %s.", project.Title))
		}

		if len(items) > limit {
			items = items[:limit]
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Latest in %s:\n", project.Title)
		for _, item := range items {
			sb.WriteString(formatItem(item))
			sb.WriteString("\n")
		}

		return inv.Send(sb.String())
	}
}

func formatItem(item model.Item) string {
	var sb strings.Builder
	sb.WriteString("- ")
	sb.WriteString(strings.TrimSpace(item.Title))

	if item.Author != "" {
		sb.WriteString(" by ")
		sb.WriteString(item.Author)
	}

	if !item.Date.IsZero() {
		sb.WriteString(" (")
		sb.WriteString(item.Date.Format("2006-01-02"))
		sb.WriteString(")")
	}

	// Angle brackets keep Discord from unfurling every link.
	if item.Link != "" {
		sb.WriteString(" <")
		sb.WriteString(item.Link)
		sb.WriteString(">")
	}

	return sb.String()
}
