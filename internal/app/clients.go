package app

import (
	"fmt"

	"github.com/clientdesk/clientdesk-backend/internal/clients/extractor"
	"github.com/clientdesk/clientdesk-backend/internal/clients/gcp"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type Clients struct {
	GcpBucket gcp.BucketService

	// Filler fills PDF forms, Extractor pulls contact records out of
	// uploaded documents. Both may be unconfigured.
	Filler    *extractor.Client
	Extractor *extractor.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	filler := extractor.New(log, cfg.DocumentFillURL, cfg.DocumentFillBearer)
	extract := extractor.New(log, cfg.DocumentExtractURL, cfg.DocumentExtractBearer)

	return Clients{
		GcpBucket: bucket,
		Filler:    filler,
		Extractor: extract,
	}, nil
}
