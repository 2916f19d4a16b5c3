package cag

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/strata-analytics/causeway/backend/pkg/common"
	"github.com/strata-analytics/causeway/backend/pkg/logger"
)

// ComponentBatch is the input of SaveComponents: any mix of nodes, edges
// and groups, each record optionally carrying an id.
type ComponentBatch struct {
	Nodes  []common.Node  `json:"nodes"`
	Edges  []common.Edge  `json:"edges"`
	Groups []common.Group `json:"groups"`
}

// SaveComponents routes records without an id to a create batch under a
// freshly assigned id and records with an id to an update batch, stamps
// both with the modification time, and writes each batch in one bulk call.
//
// Create and update are independent units of failure: a failed batch is
// surfaced as an error naming its first failing item, and nothing already
// written is rolled back.
func (s *Service) SaveComponents(ctx context.Context, modelID string, batch ComponentBatch) error {
	now := time.Now().UTC()

	createNodes, updateNodes, err := splitComponents(batch.Nodes,
		func(n common.Node) string { return n.ID },
		func(n *common.Node, id string) { n.ID = id; n.ModelID = modelID; n.ModifiedAt = now })
	if err != nil {
		return err
	}
	createEdges, updateEdges, err := splitComponents(batch.Edges,
		func(e common.Edge) string { return e.ID },
		func(e *common.Edge, id string) { e.ID = id; e.ModelID = modelID; e.ModifiedAt = now })
	if err != nil {
		return err
	}
	createGroups, updateGroups, err := splitComponents(batch.Groups,
		func(g common.Group) string { return g.ID },
		func(g *common.Group, id string) { g.ID = id; g.ModelID = modelID; g.ModifiedAt = now })
	if err != nil {
		return err
	}

	logger.Debug("[CAG] Saving components",
		"model_id", modelID,
		"create", len(createNodes)+len(createEdges)+len(createGroups),
		"update", len(updateNodes)+len(updateEdges)+len(updateGroups),
	)

	if len(createNodes) > 0 {
		if err := s.stores.Nodes.Insert(ctx, createNodes).FirstError(); err != nil {
			return fmt.Errorf("insert nodes: %w", err)
		}
	}
	if len(updateNodes) > 0 {
		if err := s.stores.Nodes.Update(ctx, updateNodes).FirstError(); err != nil {
			return fmt.Errorf("update nodes: %w", err)
		}
	}
	if len(createEdges) > 0 {
		if err := s.stores.Edges.Insert(ctx, createEdges).FirstError(); err != nil {
			return fmt.Errorf("insert edges: %w", err)
		}
	}
	if len(updateEdges) > 0 {
		if err := s.stores.Edges.Update(ctx, updateEdges).FirstError(); err != nil {
			return fmt.Errorf("update edges: %w", err)
		}
	}
	if len(createGroups) > 0 {
		if err := s.stores.Groups.Insert(ctx, createGroups).FirstError(); err != nil {
			return fmt.Errorf("insert groups: %w", err)
		}
	}
	if len(updateGroups) > 0 {
		if err := s.stores.Groups.Update(ctx, updateGroups).FirstError(); err != nil {
			return fmt.Errorf("update groups: %w", err)
		}
	}
	return nil
}

func splitComponents[T any](records []T, id func(T) string, stamp func(*T, string)) (create, update []T, err error) {
	for i := range records {
		rid := id(records[i])
		if rid == "" {
			rid, err = gonanoid.New()
			if err != nil {
				return nil, nil, fmt.Errorf("assign component id: %w", err)
			}
			stamp(&records[i], rid)
			create = append(create, records[i])
			continue
		}
		stamp(&records[i], rid)
		update = append(update, records[i])
	}
	return create, update, nil
}
