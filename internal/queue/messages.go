package queue

import "encoding/json"

// CurationMsg announces a corpus edit made in the curation UI: the
// command that was applied and the statements it touched. The worker
// decides which graphs of the project went stale because of it.
type CurationMsg struct {
	ProjectID    string          `json:"project_id"`
	StatementIDs []string        `json:"statement_ids"`
	Command      json.RawMessage `json:"command"`
}

// RecalcMsg asks the worker to recalculate one graph.
type RecalcMsg struct {
	ModelID string `json:"model_id"`
}

// DeleteMsg asks the worker to tear down one graph and its dependents.
type DeleteMsg struct {
	ModelID string `json:"model_id"`
}
