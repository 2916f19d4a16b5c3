package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"github.com/strata-analytics/causeway/backend/internal/util"
	"github.com/strata-analytics/causeway/backend/pkg/cag"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
)

// ProcessCurationMessage reacts to a corpus edit: it flags every graph of
// the project that references one of the touched statements as stale, and
// chains a recalculation message for each flagged graph.
//
// Commands that leave derived edge state intact (vetting) are dropped
// without touching any graph.
func ProcessCurationMessage(
	ctx context.Context,
	ch *amqp091.Channel,
	service *cag.Service,
	msg string,
) error {
	data := new(CurationMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("decode curation message: %w", err)
	}
	if data.ProjectID == "" {
		return fmt.Errorf("curation message without project_id")
	}

	cmd, err := cag.DecodeCommand(data.Command)
	if err != nil {
		return fmt.Errorf("decode curation command: %w", err)
	}

	if !cag.Invalidates(cmd) {
		logger.Debug("[Queue] Curation command does not invalidate graphs",
			"project_id", data.ProjectID, "command", cag.CommandName(cmd))
		return nil
	}

	flagged, err := service.CheckStaleGraphs(ctx, data.ProjectID, data.StatementIDs)
	if err != nil {
		return err
	}
	if len(flagged) == 0 {
		logger.Debug("[Queue] No graphs reference the edited statements",
			"project_id", data.ProjectID, "statements", len(data.StatementIDs))
		return nil
	}

	for _, modelID := range flagged {
		body, err := json.Marshal(RecalcMsg{ModelID: modelID})
		if err != nil {
			return err
		}
		err = util.RetryErr(3, func() error {
			return PublishFIFO(ch, RecalcQueue, body)
		})
		if err != nil {
			return fmt.Errorf("queue recalculation of model %s: %w", modelID, err)
		}
	}

	logger.Info("[Queue] Queued recalculation for stale graphs",
		"project_id", data.ProjectID, "command", cag.CommandName(cmd), "count", len(flagged))
	return nil
}
