package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"vivaah/internal/capture"
	"vivaah/internal/config"
	"vivaah/internal/countdown"
	appLog "vivaah/internal/log"
	"vivaah/internal/web"
	"vivaah/internal/when"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	once       bool
	countdown  bool
	snapshot   bool
	debug      bool
}

func main() {
	appLog.Info("vivaah starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
		conf.Normalize()
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"utc_offset", conf.UTCOffset,
		"refresh", conf.RefreshCron,
		"date", conf.Date,
		"time", conf.Time,
		"agenda_count", len(conf.Agenda),
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	switch {
	case flags.once:
		runOnce(conf)
		return
	case flags.countdown:
		runCountdown(ctx, conf)
		return
	case flags.snapshot:
		if err := runSnapshot(ctx, conf); err != nil {
			appLog.Error("snapshot failed", err)
			os.Exit(1)
		}
		return
	}

	srv := web.NewServer(conf, flags.debug)
	httpSrv := &http.Server{
		Addr:    conf.Listen,
		Handler: srv.Handler(),
	}

	// Scheduled refresh: re-resolve the countdown target, drop the
	// cached agenda payload, and re-capture the snapshot if configured.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(conf.RefreshCron, func() {
		refresh(ctx, conf, srv)
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			appLog.Error("HTTP shutdown failed", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}

	appLog.Info("vivaah exiting")
}

// refresh is the cron-scheduled maintenance pass.
func refresh(ctx context.Context, conf *config.Config, srv *web.Server) {
	now := time.Now()
	if target, ok := when.ResolveNextOccurrence(conf.Date, conf.Time, conf.UTCOffset, now); ok {
		if rem, ok := countdown.Until(target, now); ok {
			appLog.Info("refresh: countdown target resolved",
				"target", target.Format(time.RFC3339),
				"days", rem.Days, "hours", rem.Hours,
			)
		}
	} else {
		appLog.Info("refresh: no future countdown target; celebrations underway")
	}

	srv.InvalidateAgenda()

	if conf.SnapshotPath != "" {
		if err := runSnapshot(ctx, conf); err != nil {
			appLog.Error("refresh: snapshot failed", err)
		}
	}
}

// runOnce prints a one-shot resolution of the countdown target and each
// agenda event's window, then exits. Useful for validating config data.
func runOnce(conf *config.Config) {
	now := time.Now()

	if target, ok := when.ResolveNextOccurrence(conf.Date, conf.Time, conf.UTCOffset, now); ok {
		rem, _ := countdown.Until(target, now)
		fmt.Printf("countdown target: %s (%dd %dh %dm %ds)\n",
			target.Format(time.RFC3339), rem.Days, rem.Hours, rem.Minutes, rem.Seconds)
	} else {
		fmt.Println("countdown target: none (celebrations underway)")
	}

	for _, ev := range conf.Agenda {
		win, ok := when.ResolveWindow(ev.Date, ev.StartTime, ev.EndTime, conf.UTCOffset)
		if !ok {
			fmt.Printf("%-12s %s: unresolvable date %q\n", ev.Slug, ev.Title, ev.Date)
			continue
		}
		fmt.Printf("%-12s %s: %s -> %s\n",
			ev.Slug, ev.Title,
			win.Start.Format(time.RFC3339), win.End.Format(time.RFC3339))
	}
}

// runCountdown streams the live countdown to stdout until the target
// passes or the process is interrupted.
func runCountdown(ctx context.Context, conf *config.Config) {
	target, ok := when.ResolveNextOccurrence(conf.Date, conf.Time, conf.UTCOffset, time.Now())
	if !ok {
		fmt.Println("The celebrations are underway!")
		return
	}

	runner := countdown.Runner{Interval: time.Second}
	runner.Run(ctx, target, func(rem countdown.Remaining) {
		fmt.Printf("\r%3dd %02dh %02dm %02ds until the ceremony",
			rem.Days, rem.Hours, rem.Minutes, rem.Seconds)
	})
	fmt.Println()
}

// runSnapshot captures the landing page once.
func runSnapshot(ctx context.Context, conf *config.Config) error {
	out := conf.SnapshotPath
	if out == "" {
		out = "./cache/preview.png"
	}
	return capture.SnapshotPNG(ctx, capture.SnapshotOptions{
		URL:        conf.BaseURL,
		OutputPath: out,
	})
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/vivaah/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Resolve the countdown target and agenda windows, print, and exit")
	flag.BoolVar(&cfg.countdown, "countdown", false, "Stream the live countdown to stdout")
	flag.BoolVar(&cfg.snapshot, "snapshot", false, "Capture one landing-page snapshot and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Serve debug paths (./cache) instead of configured ones")

	flag.Parse()

	return cfg
}
