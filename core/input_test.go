package core_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mnemoware/mnemo-go-sdk/core"
)

type sampleInput struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeInput_Valid(t *testing.T) {
	var input sampleInput
	err := core.DecodeInput("sample", json.RawMessage(`{"name":"x","count":3}`), &input)
	if err != nil {
		t.Fatalf("DecodeInput failed: %v", err)
	}
	if input.Name != "x" || input.Count != 3 {
		t.Errorf("decoded %+v", input)
	}
}

func TestDecodeInput_Rejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"unknown field", `{"name":"x","extra":true}`},
		{"wrong type", `{"count":"three"}`},
		{"malformed", `{"name":`},
		{"trailing data", `{"name":"x"} {"name":"y"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var input sampleInput
			err := core.DecodeInput("sample", json.RawMessage(tc.raw), &input)
			if err == nil {
				t.Fatal("expected an error")
			}

			var inputErr *core.InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected InputError, got %T", err)
			}
			if inputErr.Tool != "sample" {
				t.Errorf("Tool = %q, want sample", inputErr.Tool)
			}
			if !strings.Contains(err.Error(), "sample") {
				t.Errorf("error message missing tool name: %q", err)
			}
		})
	}
}
