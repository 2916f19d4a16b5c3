package cag

import (
	"testing"

	"github.com/strata-analytics/causeway/backend/pkg/common"
)

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want UpdateCommand
	}{
		{"discard", `{"type":"discard_statement"}`, Discard{}},
		{"vet", `{"type":"vet_statement"}`, Vet{}},
		{"reverse", `{"type":"reverse_relation"}`, ReverseRelation{}},
		{
			"grounding",
			`{"type":"factor_grounding","payload":{"subj":"rainfall"}}`,
			FactorGrounding{Subj: "rainfall"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCommand([]byte(tt.in))
			if err != nil {
				t.Fatalf("DecodeCommand: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeCommand_Repolarize(t *testing.T) {
	got, err := DecodeCommand([]byte(`{"type":"factor_polarity","payload":{"subj":-1}}`))
	if err != nil {
		t.Fatalf("DecodeCommand: %v", err)
	}
	cmd, ok := got.(Repolarize)
	if !ok {
		t.Fatalf("got %T, want Repolarize", got)
	}
	if cmd.Subj == nil || *cmd.Subj != common.PolarityNegative {
		t.Fatalf("subj = %v", cmd.Subj)
	}
	if cmd.Obj != nil {
		t.Fatalf("obj = %v, want nil", cmd.Obj)
	}
}

func TestDecodeCommand_Unknown(t *testing.T) {
	if _, err := DecodeCommand([]byte(`{"type":"merge_statement"}`)); err == nil {
		t.Fatal("expected error for unknown command type")
	}
}

func TestEncodeCommand_RoundTrip(t *testing.T) {
	cmds := []UpdateCommand{
		Discard{},
		Vet{},
		ReverseRelation{},
		FactorGrounding{Subj: "a", Obj: "b"},
	}
	for _, cmd := range cmds {
		data, err := EncodeCommand(cmd)
		if err != nil {
			t.Fatalf("EncodeCommand(%T): %v", cmd, err)
		}
		back, err := DecodeCommand(data)
		if err != nil {
			t.Fatalf("DecodeCommand(%T): %v", cmd, err)
		}
		if back != cmd {
			t.Fatalf("round trip %T: got %#v", cmd, back)
		}
	}
}

func TestInvalidates(t *testing.T) {
	if !Invalidates(Discard{}) || !Invalidates(ReverseRelation{}) || !Invalidates(FactorGrounding{}) || !Invalidates(Repolarize{}) {
		t.Fatal("structural edits must invalidate")
	}
	if Invalidates(Vet{}) {
		t.Fatal("vetting must not invalidate")
	}
}
