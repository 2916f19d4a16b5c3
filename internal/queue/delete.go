package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/strata-analytics/causeway/backend/pkg/cag"
	"github.com/strata-analytics/causeway/backend/pkg/leaselock"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
)

// ProcessDeleteMessage tears down one graph with all its dependent
// documents. Runs under the model lease so an in-flight recalculation
// finishes before the graph disappears under it.
func ProcessDeleteMessage(
	ctx context.Context,
	lockClient *leaselock.Client,
	service *cag.Service,
	msg string,
) error {
	data := new(DeleteMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("decode delete message: %w", err)
	}
	if data.ModelID == "" {
		return fmt.Errorf("delete message without model_id")
	}

	start := time.Now()
	var deleted bool
	err := lockClient.WithLease(ctx, leaselock.ModelKey(data.ModelID), leaselock.Options{
		TTL:         10 * time.Minute,
		RenewEvery:  4 * time.Minute,
		Wait:        true,
		TokenPrefix: "delete/" + data.ModelID + "/",
	}, func(ctx context.Context) error {
		var err error
		deleted, err = service.DeleteGraph(ctx, data.ModelID)
		return err
	})
	if err != nil {
		return err
	}

	if !deleted {
		logger.Warn("[Queue] Graph already gone", "model_id", data.ModelID)
		return nil
	}

	logger.Info("[Queue] Graph deleted",
		"model_id", data.ModelID, "duration_sec", time.Since(start).Seconds())
	return nil
}
