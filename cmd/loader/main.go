package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/oreilm49/specs/app/config"
	"github.com/oreilm49/specs/app/ingest"
	"github.com/oreilm49/specs/app/measure"
	"github.com/oreilm49/specs/app/observability"
	"github.com/oreilm49/specs/models"
)

// loader reads scraped product page items, one JSON object per line, and
// runs them through the ingest pipeline.
func main() {
	file := flag.String("file", "", "path to a JSON-lines file of scraped items (default stdin)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()

	db, err := models.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to database", "err", err)
		os.Exit(1)
	}
	if err := models.Migrate(db); err != nil {
		logger.Error("migrate schema", "err", err)
		os.Exit(1)
	}

	observability.Start(cfg.MetricsPort)

	store := models.NewStore(db)
	registry := measure.NewRegistry()
	pipeline := ingest.NewPipeline(ingest.GormUnitOfWork{Store: store, Registry: registry}, logger)

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			logger.Error("open items file", "file", *file, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	processed, failed := 0, 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var item ingest.ProductPageItem
		if err := json.Unmarshal(line, &item); err != nil {
			logger.Error("decode item", "err", err)
			failed++
			continue
		}
		if err := pipeline.Process(item); err != nil {
			logger.Error("process item", "model", item.Model, "err", err)
			failed++
			continue
		}
		processed++
	}
	if err := scanner.Err(); err != nil {
		logger.Error("read items", "err", err)
		os.Exit(1)
	}
	logger.Info("done", "processed", processed, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
