package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/strata-analytics/causeway/backend/pkg/cag"
	"github.com/strata-analytics/causeway/backend/pkg/leaselock"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
	"github.com/strata-analytics/causeway/backend/pkg/store"
)

// ProcessRecalcMessage recalculates one graph under its model lease so
// concurrent deliveries for the same graph serialize instead of racing on
// the write phase.
func ProcessRecalcMessage(
	ctx context.Context,
	lockClient *leaselock.Client,
	service *cag.Service,
	msg string,
) error {
	data := new(RecalcMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("decode recalc message: %w", err)
	}
	if data.ModelID == "" {
		return fmt.Errorf("recalc message without model_id")
	}

	start := time.Now()
	err := lockClient.WithLease(ctx, leaselock.ModelKey(data.ModelID), leaselock.Options{
		TTL:         10 * time.Minute,
		RenewEvery:  4 * time.Minute,
		Wait:        true,
		TokenPrefix: "recalc/" + data.ModelID + "/",
	}, func(ctx context.Context) error {
		return service.Recalculate(ctx, data.ModelID)
	})
	if err != nil {
		// The graph may have been deleted between flagging and delivery.
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("[Queue] Graph gone before recalculation", "model_id", data.ModelID)
			return nil
		}
		return err
	}

	logger.Info("[Queue] Recalculation completed",
		"model_id", data.ModelID, "duration_sec", time.Since(start).Seconds())
	return nil
}
