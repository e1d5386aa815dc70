// Package command defines the closed set of structural edit intents and the
// deterministic fallback parser that extracts them from free text.
package command

import (
	"encoding/json"
	"fmt"
)

// Type identifies one edit variant.
type Type string

const (
	RenameField Type = "rename_field"
	HideField   Type = "hide_field"
	ShowField   Type = "show_field"
	MoveField   Type = "move_field"
	ChangeText  Type = "change_text"
	HideSection Type = "hide_section"
	ShowSection Type = "show_section"
	FormatField Type = "format_field"
)

var validTypes = map[Type]bool{
	RenameField: true,
	HideField:   true,
	ShowField:   true,
	MoveField:   true,
	ChangeText:  true,
	HideSection: true,
	ShowSection: true,
	FormatField: true,
}

// Command is a structured, validated description of one requested change.
type Command struct {
	Type          Type           `json:"edit_type"`
	Target        string         `json:"target"`
	NewValue      string         `json:"new_value,omitempty"`
	TargetSection string         `json:"target_section,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// New builds a Command, rejecting unknown variants and empty targets so that
// dispatch never sees an invalid command.
func New(editType Type, target string, opts ...Option) (Command, error) {
	if !validTypes[editType] {
		return Command{}, fmt.Errorf("unknown edit type %q", editType)
	}
	if target == "" {
		return Command{}, fmt.Errorf("edit target is required")
	}
	cmd := Command{Type: editType, Target: target}
	for _, opt := range opts {
		opt(&cmd)
	}
	return cmd, nil
}

// Option sets an optional command field.
type Option func(*Command)

func WithNewValue(v string) Option {
	return func(c *Command) { c.NewValue = v }
}

func WithTargetSection(s string) Option {
	return func(c *Command) { c.TargetSection = s }
}

func WithParameters(p map[string]any) Option {
	return func(c *Command) { c.Parameters = p }
}

// Decode parses an interpreter payload of the form
// {edit_type, target, new_value?, target_section?, parameters?} and validates
// it the same way New does.
func Decode(payload []byte) (Command, error) {
	var raw Command
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Command{}, fmt.Errorf("decode command payload: %w", err)
	}
	cmd, err := New(raw.Type, raw.Target,
		WithNewValue(raw.NewValue),
		WithTargetSection(raw.TargetSection),
		WithParameters(raw.Parameters),
	)
	if err != nil {
		return Command{}, fmt.Errorf("invalid command payload: %w", err)
	}
	return cmd, nil
}

// ParseError reports that the fallback parser could not resolve an
// instruction into a command. It carries the original text so the caller can
// surface it verbatim for rephrasing.
type ParseError struct {
	Instruction string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse command: %q, please try rephrasing the request", e.Instruction)
}
