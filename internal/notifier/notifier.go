package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	"go.tomakado.io/containers/set"

	"albot/internal/metrics"
	"albot/internal/model"
)

type FeedFetcher interface {
	Fetch(ctx context.Context, name, url string) ([]model.Item, error)
}

// Poster posts to a chat channel. It is satisfied by *discordgo.Session.
type Poster interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier announces new entries of the projects' feeds in one channel.
// Entries present on the first pass are only remembered, so a restart does
// not repost a feed's history. An entry counts as seen once it has been
// posted; entries whose post failed are retried on the next pass.
type Notifier struct {
	feeds     FeedFetcher
	poster    Poster
	projects  []model.Project
	channelID string
	interval  time.Duration
	timeout   time.Duration
	metrics   *metrics.Metrics

	mu     sync.Mutex
	seen   map[string][]string
	primed map[string]bool
}

func New(
	feeds FeedFetcher,
	poster Poster,
	projects []model.Project,
	channelID string,
	interval time.Duration,
	timeout time.Duration,
	m *metrics.Metrics,
) *Notifier {
	return &Notifier{
		feeds:     feeds,
		poster:    poster,
		projects:  lo.Filter(projects, func(p model.Project, _ int) bool { return p.Feed != "" }),
		channelID: channelID,
		interval:  interval,
		timeout:   timeout,
		metrics:   m,
		seen:      make(map[string][]string),
		primed:    make(map[string]bool),
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	if n.interval <= 0 {
		return fmt.Errorf("invalid announce interval %s", n.interval)
	}

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	if err := n.Check(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := n.Check(ctx); err != nil {
				return err
			}
		}
	}
}

// Check fetches every project feed once and announces unseen entries. A
// failing feed is logged and skipped; only cancellation stops the pass.
func (n *Notifier) Check(ctx context.Context) error {
	for _, project := range n.projects {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := n.checkProject(ctx, project); err != nil {
			log.Printf("[ERROR] failed to check feed of %q: %v", project.Key, err)
		}
	}

	return nil
}

func (n *Notifier) checkProject(ctx context.Context, project model.Project) error {
	fetchCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	items, err := n.feeds.Fetch(fetchCtx, project.Key, project.Feed)
	if err != nil {
		return fmt.Errorf("failed to fetch items: %w", err)
	}

	fresh := n.unseen(project.Key, items)

	if !n.isPrimed(project.Key) {
		n.markSeen(project.Key, fresh...)
		n.setPrimed(project.Key)
		return nil
	}
	if len(fresh) == 0 {
		return nil
	}

	log.Printf("[INFO] Announcing %d new items from %q", len(fresh), project.Key)

	// Feeds list newest first; announce in the order things happened.
	for _, item := range lo.Reverse(fresh) {
		if _, err := n.poster.ChannelMessageSend(n.channelID, formatAnnouncement(project, item)); err != nil {
			return fmt.Errorf("failed to announce %s: %w", item.Link, err)
		}

		n.markSeen(project.Key, item)

		if n.metrics != nil {
			n.metrics.AnnouncedItems.Observe(1)
		}
	}

	return nil
}

// unseen returns the items of a project that were not recorded yet, in feed
// order.
func (n *Notifier) unseen(projectKey string, items []model.Item) []model.Item {
	n.mu.Lock()
	known := set.New(n.seen[projectKey]...)
	n.mu.Unlock()

	return lo.UniqBy(
		lo.Filter(items, func(item model.Item, _ int) bool {
			return !known.Contains(itemKey(item))
		}),
		itemKey,
	)
}

func (n *Notifier) markSeen(projectKey string, items ...model.Item) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, item := range items {
		n.seen[projectKey] = append(n.seen[projectKey], itemKey(item))
	}
}

func (n *Notifier) isPrimed(projectKey string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.primed[projectKey]
}

func (n *Notifier) setPrimed(projectKey string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.primed[projectKey] = true
}

func itemKey(item model.Item) string {
	if item.Link != "" {
		return item.Link
	}
	return item.Title
}

func formatAnnouncement(project model.Project, item model.Item) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "New in %s: %s", project.Title, strings.TrimSpace(item.Title))
	if item.Author != "" {
		fmt.Fprintf(&sb, " by %s", item.Author)
	}
	if item.Link != "" {
		fmt.Fprintf(&sb, "\n%s", item.Link)
	}

	return sb.String()
}
