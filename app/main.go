package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"feedmail/app/cfg"
	"feedmail/app/database"
	"feedmail/app/digest"
	"feedmail/app/fetch"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, command, err := cfg.ParseArgs(args)
	if errors.Is(err, cfg.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Debug("Starting feedmail", "version", cfg.GetVersion(), "command", command)

	if err := cfg.EnsureParentDir(opts.Config); err != nil {
		return err
	}
	if err := cfg.WriteExample(opts.Config); err != nil {
		return err
	}
	config, err := cfg.Load(opts.Config)
	if err != nil {
		return err
	}

	if err := cfg.EnsureParentDir(opts.Database); err != nil {
		return err
	}
	db, err := database.Open(opts.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	feedRepo := database.NewFeedRepository(db)
	itemRepo := database.NewItemRepository(db)

	ctx := context.Background()

	switch command {
	case "fetch":
		return runFetch(ctx, config, feedRepo, itemRepo)
	case "mail":
		return runMail(ctx, config, feedRepo, itemRepo, opts.Mail.Dry)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runFetch(ctx context.Context, config *cfg.Config, feedRepo database.FeedRepository, itemRepo database.ItemRepository) error {
	fetcher := fetch.NewFetcher(feedRepo, itemRepo, "feedmail/"+cfg.GetVersion())
	coordinator := fetch.NewCoordinator(fetcher, config.Concurrency)
	return coordinator.Run(ctx, config.Feeds)
}

func runMail(ctx context.Context, config *cfg.Config, feedRepo database.FeedRepository, itemRepo database.ItemRepository, dry bool) error {
	d, err := digest.Build(feedRepo, itemRepo, config.Feeds)
	if err != nil {
		return err
	}

	body, err := digest.Render(d)
	if err != nil {
		return err
	}

	msg := &digest.Message{
		From:     config.FromEmail,
		To:       config.ToEmail,
		Subject:  d.Subject,
		HTMLBody: body,
	}

	if dry {
		fmt.Println(msg.Format())
		return nil
	}

	slog.Info("Sending mail", "to", config.ToEmail)
	mailer := &digest.SendmailMailer{}
	if err := mailer.Send(ctx, msg); err != nil {
		return err
	}

	// Only after confirmed delivery, and only for feeds still configured.
	return itemRepo.MarkRead(config.Feeds)
}
