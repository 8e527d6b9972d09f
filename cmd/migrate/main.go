// Command migrate applies the versioned SQL migrations with the atlas CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hotel-reservation-engine/internal/handler/middleware"
	"hotel-reservation-engine/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
)

func main() {
	dir := flag.String("dir", "file://migrations", "migration directory URL")
	bin := flag.String("atlas", "atlas", "atlas executable")
	statusOnly := flag.Bool("status", false, "print migration status without applying")
	dryRun := flag.Bool("dry-run", false, "print pending statements without executing them")
	flag.Parse()

	if err := run(*dir, *bin, *statusOnly, *dryRun); err != nil {
		slog.Error("migration failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(dirURL, bin string, statusOnly, dryRun bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	client, err := atlasexec.NewClient(wd, bin)
	if err != nil {
		return fmt.Errorf("init atlas client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	url := cfg.DB.BuildDSN()
	if statusOnly {
		st, err := client.MigrateStatus(ctx, &atlasexec.MigrateStatusParams{URL: url, DirURL: dirURL})
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		logger.Info("migration status",
			"status", st.Status,
			"current", st.Current,
			"next", st.Next,
			"pending", len(st.Pending))
		return nil
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{URL: url, DirURL: dirURL, DryRun: dryRun})
	if err != nil {
		return fmt.Errorf("migrate apply: %w", err)
	}
	for _, f := range res.Applied {
		logger.Info("applied", "version", f.Version, "description", f.Description, "statements", len(f.Applied))
	}
	logger.Info("migrations done",
		"from", res.Current,
		"to", res.Target,
		"applied", len(res.Applied),
		"dry_run", dryRun)
	return nil
}
