package service

import (
	"context"

	"github.com/vishwam-chepuri/matching-app/pkg/storage"
	"go.uber.org/zap"
)

// removeAssets deletes stored photos after their rows are gone. Failures
// are logged and never returned; the request has already succeeded.
func removeAssets(ctx context.Context, store storage.Storage, log *zap.Logger, locators []string) {
	ctx = context.WithoutCancel(ctx)
	for _, locator := range locators {
		if err := store.Remove(ctx, locator); err != nil {
			log.Error("failed to remove photo asset",
				zap.String("locator", locator),
				zap.Error(err),
			)
		}
	}
}
