package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gridbase/sheets-backend/internal/bootstrap"
	"github.com/gridbase/sheets-backend/internal/config"
	"github.com/gridbase/sheets-backend/internal/handlers"
	"github.com/gridbase/sheets-backend/internal/router"
	"github.com/gridbase/sheets-backend/internal/services"
	"github.com/gridbase/sheets-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// Webhook-only deployment: receives identity events without carrying the
// KMS, Vertex, or Airtable stack.
func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.RunWebhookOnly(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	ustore := store.NewUserStore(bs.Firestore)

	// services
	userv := services.NewUserService(ustore)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.WebhookUserSvc = userv
	deps.WebhookSecret = bs.WebhookSecret

	// router
	r := router.NewWebhookRouter(deps)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
