package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gridbase/sheets-backend/internal/bootstrap"
	airtableclient "github.com/gridbase/sheets-backend/internal/client/airtable"
	"github.com/gridbase/sheets-backend/internal/config"
	"github.com/gridbase/sheets-backend/internal/crypto"
	"github.com/gridbase/sheets-backend/internal/handlers"
	"github.com/gridbase/sheets-backend/internal/middleware"
	"github.com/gridbase/sheets-backend/internal/realtime"
	"github.com/gridbase/sheets-backend/internal/response"
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

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	airtableAPI := airtableclient.NewAdapter(cfg.AirtableBaseURL)
	hub := realtime.NewHub(bs.Log)

	// stores
	ustore := store.NewUserStore(bs.Firestore)
	pstore := store.NewProjectStore(bs.Firestore)
	sstore := store.NewSpreadsheetStore(bs.Firestore)
	cstore := store.NewChartStore(bs.Firestore)
	dstore := store.NewDashboardStore(bs.Firestore)
	atstore := store.NewAirtableStore(bs.Firestore)

	// services
	userv := services.NewUserService(ustore)
	pserv := services.NewProjectService(pstore, ustore)
	sserv := services.NewSpreadsheetService(sstore, pstore, ustore, hub)
	cserv := services.NewChartService(cstore, sstore, ustore)
	dserv := services.NewDashboardService(dstore, cstore, sstore, ustore)
	atserv := services.NewAirtableService(atstore, sstore, ustore, kmsHelper, airtableAPI)
	exserv := services.NewExtractService(bs.VertexAdapter)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.Hub = hub
	deps.WebhookSecret = bs.WebhookSecret
	deps.UserSvc = userv
	deps.WebhookUserSvc = userv
	deps.ProjectSvc = pserv
	deps.SpreadsheetSvc = sserv
	deps.ChartSvc = cserv
	deps.DashboardSvc = dserv
	deps.AirtableSvc = atserv
	deps.ExtractSvc = exserv

	// router
	authmw := middleware.NewMiddleware(bs.Firebase)
	r := router.NewRouter(deps, authmw, cfg.ExtractRPS)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
