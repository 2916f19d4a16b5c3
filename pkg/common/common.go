package common

import "time"

// Polarity is the sign of a causal assertion: an increase in the source
// concept drives the target up (+1), down (-1), or in an unknown
// direction (0).
type Polarity int8

const (
	PolarityNegative Polarity = -1
	PolarityUnknown  Polarity = 0
	PolarityPositive Polarity = 1
)

// EngineStatus describes how far a graph has been synced with an external
// projection engine. Any structural change resets it to NotRegistered.
type EngineStatus string

const (
	StatusNotRegistered EngineStatus = "NOT_REGISTERED"
	StatusTraining      EngineStatus = "TRAINING"
	StatusReady         EngineStatus = "READY"
)

// Graph is the root aggregate of a causal analysis graph (CAG): concepts as
// nodes, causal assertions as directed edges. Nodes, edges, groups and
// scenarios are keyed by the graph id and deleted with it.
//
// IsStale and IsAmbiguous are derived caches maintained by the
// recalculation engine; they are never written by direct user edits.
type Graph struct {
	ID           string         `json:"id"`
	ProjectID    string         `json:"project_id"`
	Name         string         `json:"name"`
	Status       EngineStatus   `json:"status"`
	EngineStatus EngineStatus   `json:"engine_status"`
	IsStale      bool           `json:"is_stale"`
	IsAmbiguous  bool           `json:"is_ambiguous"`
	Parameter    ModelParameter `json:"parameter"`
	CreatedAt    time.Time      `json:"created_at"`
	ModifiedAt   time.Time      `json:"modified_at"`
}

// ModelParameter holds the projection settings a graph is registered with.
type ModelParameter struct {
	Engine          string `json:"engine"`
	NumSteps        int    `json:"num_steps"`
	TimeScale       string `json:"time_scale"`
	Geography       string `json:"geography,omitempty"`
	ProjectionStart int64  `json:"projection_start"`
	HistoryRange    int    `json:"history_range"`
}

// Node is a concept in a graph. Concept is unique within the graph.
// Components is the set of compositional-ontology concepts the flattened
// concept groups together; it is what statement groundings are matched
// against during recalculation.
type Node struct {
	ID         string    `json:"id"`
	ModelID    string    `json:"model_id"`
	Concept    string    `json:"concept"`
	Label      string    `json:"label"`
	Components []string  `json:"components"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Edge is a directed causal assertion between two node concepts, backed by
// zero or more corpus statements.
//
// Same, Opposite, Unknown, BeliefScore and Polarity are derived from the
// backing statements. If UserPolarity is set, Polarity always equals it;
// otherwise Polarity is purely a function of the referenced statements.
type Edge struct {
	ID           string    `json:"id"`
	ModelID      string    `json:"model_id"`
	Source       string    `json:"source"`
	Target       string    `json:"target"`
	ReferenceIDs []string  `json:"reference_ids"`
	Same         int       `json:"same"`
	Opposite     int       `json:"opposite"`
	Unknown      int       `json:"unknown"`
	BeliefScore  float64   `json:"belief_score"`
	Polarity     Polarity  `json:"polarity"`
	UserPolarity *Polarity `json:"user_polarity,omitempty"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// Factor is one side (subject or object) of a statement: the concept it is
// currently grounded to, the asserted polarity of that side, and the
// alternative candidate groundings the extraction pipeline proposed.
type Factor struct {
	Concept    string      `json:"concept"`
	Polarity   Polarity    `json:"polarity"`
	Candidates []Candidate `json:"candidates"`
}

// Candidate is an alternative grounding for a factor with its score.
type Candidate struct {
	Concept string  `json:"concept"`
	Score   float64 `json:"score"`
}

// Statement is one machine-extracted causal assertion from the corpus.
// The corpus owns statements; this service only reads them.
type Statement struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	Subject     Factor  `json:"subj"`
	Object      Factor  `json:"obj"`
	BeliefScore float64 `json:"belief_score"`
	Discarded   bool    `json:"discarded"`
}

// StatementPolarity is the statement-level polarity, the product of the
// subject and object polarities.
func (s Statement) StatementPolarity() Polarity {
	return s.Subject.Polarity * s.Object.Polarity
}

// Scenario is a set of what-if constraints over a graph. Every constraint
// concept must reference a live node concept of the same graph; the rename
// cascade keeps this true.
type Scenario struct {
	ID         string            `json:"id"`
	ModelID    string            `json:"model_id"`
	Name       string            `json:"name"`
	IsBaseline bool              `json:"is_baseline"`
	Parameter  ScenarioParameter `json:"parameter"`
	ModifiedAt time.Time         `json:"modified_at"`
}

// ScenarioParameter carries the per-concept clamp values of a scenario.
type ScenarioParameter struct {
	Constraints []Constraint `json:"constraints"`
}

// Constraint clamps one concept to explicit values at projection steps.
type Constraint struct {
	Concept string            `json:"concept"`
	Values  []ConstraintValue `json:"values"`
}

type ConstraintValue struct {
	Step  int     `json:"step"`
	Value float64 `json:"value"`
}

// ScenarioResult is an opaque projection result for one scenario. Stored by
// the projection engine, deleted here when the owning graph goes away.
type ScenarioResult struct {
	ID         string `json:"id"`
	ModelID    string `json:"model_id"`
	ScenarioID string `json:"scenario_id"`
	Result     []byte `json:"result"`
}

// SensitivityResult is an opaque sensitivity-analysis result for a graph.
type SensitivityResult struct {
	ID      string `json:"id"`
	ModelID string `json:"model_id"`
	Result  []byte `json:"result"`
}

// Group visually aggregates nodes and other groups. Pure containment, no
// derived state.
type Group struct {
	ID         string    `json:"id"`
	ModelID    string    `json:"model_id"`
	Name       string    `json:"name"`
	Children   []string  `json:"children"`
	ModifiedAt time.Time `json:"modified_at"`
}
