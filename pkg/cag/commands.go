package cag

import (
	"encoding/json"
	"fmt"

	"github.com/strata-analytics/causeway/backend/pkg/common"
)

// UpdateCommand is the tagged description of one curation edit applied to
// a batch of corpus statements. The variants are a closed set dispatched
// by exhaustive type switch, so a new edit kind fails to compile anywhere
// it is not handled.
type UpdateCommand interface {
	isUpdateCommand()
}

// Discard marks statements as discarded, removing them from every edge
// that backed onto them.
type Discard struct{}

// Vet confirms statements as reviewed without changing their grounding or
// polarity.
type Vet struct{}

// FactorGrounding re-grounds the subject and/or object of statements to
// different concepts. Empty fields leave that side untouched.
type FactorGrounding struct {
	Subj string `json:"subj,omitempty"`
	Obj  string `json:"obj,omitempty"`
}

// ReverseRelation swaps subject and object of statements.
type ReverseRelation struct{}

// Repolarize corrects the subject and/or object polarity of statements.
type Repolarize struct {
	Subj *common.Polarity `json:"subj,omitempty"`
	Obj  *common.Polarity `json:"obj,omitempty"`
}

func (Discard) isUpdateCommand()         {}
func (Vet) isUpdateCommand()             {}
func (FactorGrounding) isUpdateCommand() {}
func (ReverseRelation) isUpdateCommand() {}
func (Repolarize) isUpdateCommand()      {}

// Invalidates reports whether the edit can change which statements back
// an edge or what they contribute, i.e. whether affected graphs must be
// flagged stale. Vetting is the one edit that cannot.
func Invalidates(cmd UpdateCommand) bool {
	switch cmd.(type) {
	case Discard, FactorGrounding, ReverseRelation, Repolarize:
		return true
	case Vet:
		return false
	default:
		panic(fmt.Sprintf("cag: unhandled update command %T", cmd))
	}
}

// CommandName returns the wire tag of a command.
func CommandName(cmd UpdateCommand) string {
	switch cmd.(type) {
	case Discard:
		return "discard_statement"
	case Vet:
		return "vet_statement"
	case FactorGrounding:
		return "factor_grounding"
	case ReverseRelation:
		return "reverse_relation"
	case Repolarize:
		return "factor_polarity"
	default:
		panic(fmt.Sprintf("cag: unhandled update command %T", cmd))
	}
}

type commandEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeCommand parses the JSON envelope the curation pipeline publishes.
func DecodeCommand(data []byte) (UpdateCommand, error) {
	var env commandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode update command: %w", err)
	}
	switch env.Type {
	case "discard_statement":
		return Discard{}, nil
	case "vet_statement":
		return Vet{}, nil
	case "factor_grounding":
		var cmd FactorGrounding
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &cmd); err != nil {
				return nil, fmt.Errorf("decode factor_grounding payload: %w", err)
			}
		}
		return cmd, nil
	case "reverse_relation":
		return ReverseRelation{}, nil
	case "factor_polarity":
		var cmd Repolarize
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &cmd); err != nil {
				return nil, fmt.Errorf("decode factor_polarity payload: %w", err)
			}
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("unknown update command type %q", env.Type)
	}
}

// EncodeCommand serializes a command back into its wire envelope.
func EncodeCommand(cmd UpdateCommand) ([]byte, error) {
	env := commandEnvelope{Type: CommandName(cmd)}
	switch c := cmd.(type) {
	case FactorGrounding:
		payload, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		env.Payload = payload
	case Repolarize:
		payload, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		env.Payload = payload
	}
	return json.Marshal(env)
}
