package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"albot/internal/bot"
	"albot/internal/botkit"
	"albot/internal/config"
	"albot/internal/discord"
	"albot/internal/metrics"
	"albot/internal/notifier"
	"albot/internal/source"
	"albot/internal/telegram"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "albot",
		Usage: "UF Open Source Club chat bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:       "config",
				Usage:      "HCL config file, read after ./config.hcl and ./config.local.hcl",
				Persistent: true,
				Action: func(ctx context.Context, cmd *cli.Command, path string) error {
					if _, err := os.Stat(path); err != nil {
						return fmt.Errorf("failed to read config file: %w", err)
					}
					return nil
				},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Serve chat commands on Discord and Telegram",
				Action: cliRun,
			},
			{
				Name:      "hello",
				Usage:     "Print hello world in a language",
				ArgsUsage: "<language>",
				Action:    cliHello,
			},
			{
				Name:   "langs",
				Usage:  "List the languages hello knows",
				Action: cliLangs,
			},
		},
		Action: cliRun,
	}
}

func cliHello(ctx context.Context, cmd *cli.Command) error {
	lang := cmd.Args().First()
	if lang == "" {
		return fmt.Errorf("usage: %s hello <language>", cmd.Root().Name)
	}

	snippet, ok := bot.HelloSnippet(lang)
	if !ok {
		return fmt.Errorf("unknown language %q, see %s langs", lang, cmd.Root().Name)
	}

	_, err := fmt.Fprint(cmd.Root().Writer, snippet)
	return err
}

func cliLangs(ctx context.Context, cmd *cli.Command) error {
	_, err := fmt.Fprint(cmd.Root().Writer, bot.LanguageList())
	return err
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Get(), nil
	}
	return config.Load(append(config.DefaultFiles, path)...)
}

func cliRun(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var (
		m       = metrics.New()
		catalog = bot.DefaultCatalog(cfg.SwampImage)
		feeds   = source.NewFeedSource(cfg.FeedTimeout)
		kit     = botkit.New(botkit.Options{
			Metrics:    m,
			ReplyRate:  cfg.ReplyRate,
			ReplyBurst: cfg.ReplyBurst,
		})
	)
	bot.Register(kit, catalog, feeds, bot.DiskFS)

	group, ctx := errgroup.WithContext(ctx)

	if cfg.DiscordToken != "" {
		discordBot, err := discord.New(cfg.DiscordToken, kit, cfg.CommandPrefix, cfg.CommandTimeout, cfg.Debug)
		if err != nil {
			return err
		}
		group.Go(func() error { return runService(ctx, "discord bot", discordBot.Run) })

		if cfg.AnnounceChannelID != "" {
			n := notifier.New(
				feeds,
				discordBot.Session(),
				catalog.Projects(),
				cfg.AnnounceChannelID,
				cfg.AnnounceInterval,
				cfg.FeedTimeout,
				m,
			)
			group.Go(func() error { return runService(ctx, "notifier", n.Start) })
		}
	} else if cfg.AnnounceChannelID != "" {
		log.Printf("[WARN] announce_channel_id is set but discord_token is not, announcements are disabled")
	}

	if cfg.TelegramToken != "" {
		telegramBot, err := newTelegramBot(cfg, kit)
		if err != nil {
			return err
		}
		group.Go(func() error { return runService(ctx, "telegram bot", telegramBot.Run) })
	}

	if cfg.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv := &http.Server{Addr: cfg.MetricsListen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		group.Go(func() error {
			log.Printf("[INFO] serving metrics on %s", cfg.MetricsListen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to serve metrics: %w", err)
			}
			return nil
		})
		group.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return group.Wait()
}

func newTelegramBot(cfg config.Config, kit *botkit.Bot) (*telegram.Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = cfg.Debug

	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		log.Printf("[WARN] Failed to delete webhook: %v", err)
	}

	log.Printf("[INFO] Telegram bot authorized successfully: @%s", api.Self.UserName)

	return telegram.New(api, api.Self, kit, cfg.CommandTimeout), nil
}

// runService runs a long-lived component, treating cancellation as a clean
// stop.
func runService(ctx context.Context, name string, run func(context.Context) error) error {
	log.Printf("[INFO] Starting %s...", name)

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}

	log.Printf("[INFO] %s stopped", name)
	return nil
}
