package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/oreilm49/specs/app/config"
	"github.com/oreilm49/specs/app/pivot"
	"github.com/oreilm49/specs/app/tables"
	"github.com/oreilm49/specs/models"
)

// api serves saved pivot table configurations and their built grids.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()

	db, err := models.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to database", "err", err)
		os.Exit(1)
	}

	products := models.NewProductsRepository(db)
	tablesRepo := models.NewCategoryTablesRepository(db)
	handler := tables.NewTablesHandler(tablesRepo, pivot.NewService(products))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tables", handler.HandleSearch)
	mux.HandleFunc("POST /tables", handler.HandleCreate)
	mux.HandleFunc("GET /tables/{id}/grid", handler.HandleGetGrid)
	mux.HandleFunc("DELETE /tables/{id}", handler.HandleDelete)

	logger.Info("listening", "port", cfg.APIPort)
	if err := http.ListenAndServe(":"+cfg.APIPort, mux); err != nil {
		logger.Error("serve", "err", err)
		os.Exit(1)
	}
}
