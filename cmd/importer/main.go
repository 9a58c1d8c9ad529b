package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopledger/shopledger/internal/app"
	"github.com/shopledger/shopledger/internal/catalog"
	"github.com/shopledger/shopledger/internal/platform/db"
	"github.com/shopledger/shopledger/internal/shared"
)

func main() {
	filePath := flag.String("file", "", "path to the xlsx workbook to import")
	userID := flag.Int64("user", 0, "id of the user the imported stocks belong to")
	userName := flag.String("name", "importer", "operator name recorded in the audit trail")
	flag.Parse()

	if *filePath == "" || *userID == 0 {
		fmt.Fprintln(os.Stderr, "usage: importer -file stock.xlsx -user 1 [-name who]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	f, err := os.Open(*filePath)
	if err != nil {
		logger.Error("open workbook", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	repo := catalog.NewRepository(pool)
	service := catalog.NewService(repo, shared.NewAuditLogger(pool), nil)
	importer := catalog.NewImporter(service)

	op := shared.Operator{UserID: *userID, Name: *userName, Elevated: true}
	rep, err := importer.Import(ctx, op, f)
	if err != nil {
		logger.Error("import workbook", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("import finished",
		slog.Int("imported", rep.Imported),
		slog.Int("skipped", rep.Skipped),
	)
	for _, rowErr := range rep.Errors {
		logger.Warn("row skipped", slog.String("reason", rowErr))
	}
}
