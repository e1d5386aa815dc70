package command

import (
	"strings"
	"testing"
)

func TestNew_ValidatesType(t *testing.T) {
	if _, err := New(Type("delete_everything"), "X"); err == nil {
		t.Fatal("expected error for unknown edit type")
	}
	if _, err := New(RenameField, ""); err == nil {
		t.Fatal("expected error for empty target")
	}

	cmd, err := New(MoveField, "Total", WithTargetSection("Details"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Type != MoveField || cmd.Target != "Total" || cmd.TargetSection != "Details" {
		t.Errorf("unexpected command: %+v", cmd)
	}
}

func TestDecode_ValidPayload(t *testing.T) {
	cmd, err := Decode([]byte(`{
		"edit_type": "format_field",
		"target": "OrderTotal",
		"parameters": {"bold": true, "font_size": 14}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Type != FormatField || cmd.Target != "OrderTotal" {
		t.Errorf("unexpected command: %+v", cmd)
	}
	if v, ok := cmd.Parameters["bold"].(bool); !ok || !v {
		t.Errorf("unexpected parameters: %+v", cmd.Parameters)
	}
}

func TestDecode_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown type":   `{"edit_type": "explode", "target": "X"}`,
		"missing target": `{"edit_type": "hide_field"}`,
		"not json":       `hide the field`,
	}
	for name, payload := range cases {
		if _, err := Decode([]byte(payload)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Instruction: "make it pop"}
	if !strings.Contains(err.Error(), "make it pop") {
		t.Errorf("expected original instruction in error, got %q", err.Error())
	}
}
