package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/gridbase/sheets-backend/internal/realtime"
	"github.com/gridbase/sheets-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client
	Hub             *realtime.Hub
	WebhookSecret   string

	UserSvc        UserService
	WebhookUserSvc WebhookUserService
	ProjectSvc     ProjectService
	SpreadsheetSvc SpreadsheetService
	ChartSvc       ChartService
	DashboardSvc   DashboardService
	AirtableSvc    AirtableService
	ExtractSvc     ExtractService
}
