package bootstrap

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gridbase/sheets-backend/internal/config"
)

const webhookSecretID = "identity-webhook-secret"

// ResolveWebhookSecret prefers the environment value and otherwise tries
// Secret Manager. A missing secret is not an error; webhook signature
// verification is simply disabled.
func ResolveWebhookSecret(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.WebhookSecret != "" {
		return cfg.WebhookSecret, nil
	}
	if cfg.ProjectID == "" {
		return "", nil
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	res, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", cfg.ProjectID, webhookSecretID),
	})
	if status.Code(err) == codes.NotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(res.Payload.Data), nil
}
