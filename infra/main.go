package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/gridbase/sheets-backend/infra/cloudrun"
	"github.com/gridbase/sheets-backend/infra/docker"
	"github.com/gridbase/sheets-backend/infra/firestore"
	"github.com/gridbase/sheets-backend/infra/identity"
	"github.com/gridbase/sheets-backend/infra/kms"
	"github.com/gridbase/sheets-backend/infra/provider"
	"github.com/gridbase/sheets-backend/infra/secret"
	"github.com/gridbase/sheets-backend/infra/vertex"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable identity service to allow using firebase
		_, err = identity.SetupIdentity(ctx)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// enable vertex for table extraction
		err = vertex.SetupVertex(ctx, prov)
		if err != nil {
			return err
		}

		// enable KMS and create the key that wraps Airtable tokens
		_, err = kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		kmsKey, err := kms.CreateKey(ctx, prov, "sheets", "airtable-tokens")
		if err != nil {
			return err
		}

		// enable secret manager before the service references secrets
		err = secret.SetupSecretManager(ctx, prov)
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx)
		if err != nil {
			return err
		}

		apiSA, err := cloudrun.SetupCloudRun(ctx, prov, kmsKey, repo)
		if err != nil {
			return err
		}

		return secret.GrantAccess(ctx, prov, apiSA)
	})
}
