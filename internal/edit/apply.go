// Package edit applies validated edit commands to structural report
// documents. Apply never mutates its input: it clones the document, mutates
// the clone, and returns it, so a failed edit leaves no partial state
// visible to the caller.
package edit

import (
	"fmt"

	"rptedit/internal/command"
	"rptedit/internal/report"
)

// Apply runs one command against an independent copy of doc and returns the
// modified copy.
func Apply(doc *report.Document, cmd command.Command) (*report.Document, error) {
	out := doc.Clone()

	var err error
	switch cmd.Type {
	case command.RenameField:
		err = renameField(out, cmd)
	case command.HideField:
		err = setFieldHidden(out, cmd.Target, true)
	case command.ShowField:
		err = setFieldHidden(out, cmd.Target, false)
	case command.MoveField:
		err = moveField(out, cmd)
	case command.ChangeText:
		err = changeText(out, cmd)
	case command.HideSection:
		err = setSectionHidden(out, cmd.Target, true)
	case command.ShowSection:
		err = setSectionHidden(out, cmd.Target, false)
	case command.FormatField:
		err = formatField(out, cmd)
	default:
		// Unreachable for constructor-validated commands.
		err = &ApplyError{Msg: fmt.Sprintf("unsupported edit type %q", cmd.Type)}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// renameField relocates the lineage entry and renames every matching field
// and text object. The two passes are independent: an object present in only
// one structure is still fully renamed. A target found in neither structure
// completes with no effect.
func renameField(doc *report.Document, cmd command.Command) error {
	if cmd.NewValue == "" {
		return &ValidationError{Msg: "new name required for rename operation"}
	}

	if entry, ok := doc.Lineage[cmd.Target]; ok {
		delete(doc.Lineage, cmd.Target)
		doc.Lineage[cmd.NewValue] = entry
	}

	for _, section := range doc.Sections {
		for _, f := range section.Fields {
			if f.Name == cmd.Target {
				f.Name = cmd.NewValue
			}
		}
		for _, t := range section.Texts {
			if t.Name == cmd.Target {
				t.Name = cmd.NewValue
			}
		}
	}
	return nil
}

// setFieldHidden flips the hidden flag on the lineage entry and on every
// matching field object. A missing target is a no-op, not an error.
func setFieldHidden(doc *report.Document, target string, hidden bool) error {
	if entry, ok := doc.Lineage[target]; ok {
		entry.Hidden = hidden
	}
	for _, section := range doc.Sections {
		for _, f := range section.Fields {
			if f.Name == target {
				f.Hidden = hidden
			}
		}
	}
	return nil
}

// moveField removes the first matching field object in document order and
// appends it to the target section's field list.
func moveField(doc *report.Document, cmd command.Command) error {
	if cmd.TargetSection == "" {
		return &ValidationError{Msg: "target section required for move operation"}
	}

	var moved *report.FieldObject
	for _, section := range doc.Sections {
		for i, f := range section.Fields {
			if f.Name == cmd.Target {
				moved = f
				section.Fields = append(section.Fields[:i], section.Fields[i+1:]...)
				break
			}
		}
		if moved != nil {
			break
		}
	}
	if moved == nil {
		return &NotFoundError{Kind: "field", Name: cmd.Target}
	}

	dest := doc.FindSection(cmd.TargetSection)
	if dest == nil {
		return &NotFoundError{Kind: "section", Name: cmd.TargetSection}
	}
	dest.Fields = append(dest.Fields, moved)

	if entry, ok := doc.Lineage[cmd.Target]; ok {
		entry.Section = cmd.TargetSection
	}
	return nil
}

// changeText overwrites the text of the first matching text object in
// document order. A missing target is a no-op.
func changeText(doc *report.Document, cmd command.Command) error {
	for _, section := range doc.Sections {
		for _, t := range section.Texts {
			if t.Name == cmd.Target {
				t.Text = cmd.NewValue
				return nil
			}
		}
	}
	return nil
}

// setSectionHidden flips the hidden flag on the first matching section.
// A missing section is a no-op.
func setSectionHidden(doc *report.Document, target string, hidden bool) error {
	for _, section := range doc.Sections {
		if section.Name == target {
			section.Hidden = hidden
			return nil
		}
	}
	return nil
}

// formatField merges the parameter map into the formatting of the first
// matching field object, or else the first matching text object, within each
// section. The per-section search stops at the first match but the section
// loop does not, so a like-named object repeated across sections is merged
// into more than once.
func formatField(doc *report.Document, cmd command.Command) error {
	for _, section := range doc.Sections {
		merged := false
		for _, f := range section.Fields {
			if f.Name == cmd.Target {
				f.Formatting = mergeFormatting(f.Formatting, cmd.Parameters)
				merged = true
				break
			}
		}
		if merged {
			continue
		}
		for _, t := range section.Texts {
			if t.Name == cmd.Target {
				t.Formatting = mergeFormatting(t.Formatting, cmd.Parameters)
				break
			}
		}
	}
	return nil
}

func mergeFormatting(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Applicator couples Apply with a history ledger: every successful
// application is appended to the report's command history in call order.
type Applicator struct {
	History *Ledger
}

func NewApplicator(history *Ledger) *Applicator {
	return &Applicator{History: history}
}

// Apply runs the command against doc and records it on success.
func (a *Applicator) Apply(reportID string, doc *report.Document, cmd command.Command) (*report.Document, error) {
	out, err := Apply(doc, cmd)
	if err != nil {
		return nil, err
	}
	if a.History != nil {
		a.History.Append(reportID, cmd)
	}
	return out, nil
}
