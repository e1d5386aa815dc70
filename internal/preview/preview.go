// Package preview computes a structural diff between two report documents.
// It is independent of any edit command: the after-document may have arisen
// from an arbitrary external process. Neither input is ever mutated.
package preview

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"rptedit/internal/report"
)

// ChangeType classifies one change record.
type ChangeType string

const (
	ChangeRename      ChangeType = "rename"
	ChangeHide        ChangeType = "hide"
	ChangeShow        ChangeType = "show"
	ChangeMove        ChangeType = "move"
	ChangeTextChange  ChangeType = "text_change"
	ChangeFormat      ChangeType = "format"
	ChangeHideSection ChangeType = "hide_section"
	ChangeShowSection ChangeType = "show_section"
)

// Change is one typed entry in a preview. A single real edit can surface as
// multiple change records for one object.
type Change struct {
	Type          ChangeType     `json:"type"`
	Description   string         `json:"description"`
	Target        string         `json:"target,omitempty"`
	OldValue      string         `json:"old_value,omitempty"`
	NewValue      string         `json:"new_value,omitempty"`
	Section       string         `json:"section,omitempty"`
	OldSection    string         `json:"old_section,omitempty"`
	NewSection    string         `json:"new_section,omitempty"`
	OldFormatting map[string]any `json:"old_formatting,omitempty"`
	NewFormatting map[string]any `json:"new_formatting,omitempty"`
	Delta         string         `json:"delta,omitempty"`
}

// Preview is an ordered change list plus a one-line summary.
type Preview struct {
	Changes []Change `json:"changes"`
	Summary string   `json:"summary"`
}

// flatObject is one layout object flattened out of its section.
type flatObject struct {
	typ        string // "field" or "text"
	section    string
	hidden     bool
	text       string
	formatting map[string]any
}

// flatten maps object name to its flattened form. Within one document the
// last-seen occurrence of a duplicated name wins; names keeps first-seen
// document order so diff output is deterministic.
func flatten(doc *report.Document) (names []string, objects map[string]flatObject) {
	objects = make(map[string]flatObject)
	add := func(name string, obj flatObject) {
		if name == "" {
			return
		}
		if _, seen := objects[name]; !seen {
			names = append(names, name)
		}
		objects[name] = obj
	}
	for _, section := range doc.Sections {
		for _, f := range section.Fields {
			add(f.Name, flatObject{typ: "field", section: section.Name, hidden: f.Hidden, formatting: f.Formatting})
		}
		for _, t := range section.Texts {
			add(t.Name, flatObject{typ: "text", section: section.Name, hidden: t.Hidden, text: t.Text, formatting: t.Formatting})
		}
	}
	return names, objects
}

// Diff compares before (a) and after (b) and returns the ordered change
// list with a human-readable summary.
func Diff(a, b *report.Document) Preview {
	namesA, objsA := flatten(a)
	namesB, objsB := flatten(b)

	var changes []Change

	// Rename inference: exactly one name disappeared and exactly one
	// appeared, same section and same object type. Anything more ambiguous
	// is silently skipped.
	removed := missingFrom(namesA, objsB)
	added := missingFrom(namesB, objsA)
	if len(removed) == 1 && len(added) == 1 {
		oldName, newName := removed[0], added[0]
		oldObj, newObj := objsA[oldName], objsB[newName]
		if oldObj.section == newObj.section && oldObj.typ == newObj.typ {
			changes = append(changes, Change{
				Type:        ChangeRename,
				Description: fmt.Sprintf("Renamed %s '%s' to '%s' in %s", oldObj.typ, oldName, newName, oldObj.section),
				OldValue:    oldName,
				NewValue:    newName,
				Section:     oldObj.section,
			})
		}
	}

	common := commonNames(namesA, objsB)

	// Visibility changes.
	for _, name := range common {
		oldObj, newObj := objsA[name], objsB[name]
		switch {
		case !oldObj.hidden && newObj.hidden:
			changes = append(changes, Change{
				Type:        ChangeHide,
				Description: fmt.Sprintf("Hidden %s '%s' in %s", oldObj.typ, name, oldObj.section),
				Target:      name,
				Section:     oldObj.section,
			})
		case oldObj.hidden && !newObj.hidden:
			changes = append(changes, Change{
				Type:        ChangeShow,
				Description: fmt.Sprintf("Showed %s '%s' in %s", oldObj.typ, name, oldObj.section),
				Target:      name,
				Section:     oldObj.section,
			})
		}
	}

	// Moves between sections.
	for _, name := range common {
		oldObj, newObj := objsA[name], objsB[name]
		if oldObj.section != newObj.section {
			changes = append(changes, Change{
				Type:        ChangeMove,
				Description: fmt.Sprintf("Moved %s '%s' from %s to %s", oldObj.typ, name, oldObj.section, newObj.section),
				Target:      name,
				OldSection:  oldObj.section,
				NewSection:  newObj.section,
			})
		}
	}

	// Text content changes.
	for _, name := range common {
		oldObj, newObj := objsA[name], objsB[name]
		if oldObj.typ == "text" && newObj.typ == "text" && oldObj.text != newObj.text {
			changes = append(changes, Change{
				Type:        ChangeTextChange,
				Description: fmt.Sprintf("Changed text in '%s' from '%s' to '%s'", name, oldObj.text, newObj.text),
				Target:      name,
				OldValue:    oldObj.text,
				NewValue:    newObj.text,
				Section:     oldObj.section,
				Delta:       textDelta(oldObj.text, newObj.text),
			})
		}
	}

	// Formatting changes carry the full old/new maps.
	for _, name := range common {
		oldObj, newObj := objsA[name], objsB[name]
		if !formattingEqual(oldObj.formatting, newObj.formatting) {
			changes = append(changes, Change{
				Type:          ChangeFormat,
				Description:   fmt.Sprintf("Changed formatting for %s '%s' in %s", oldObj.typ, name, oldObj.section),
				Target:        name,
				Section:       oldObj.section,
				OldFormatting: emptyIfNil(oldObj.formatting),
				NewFormatting: emptyIfNil(newObj.formatting),
			})
		}
	}

	// Section-level hidden flags, compared by position. Inserted or removed
	// sections shift later comparisons.
	for i := 0; i < len(a.Sections) && i < len(b.Sections); i++ {
		oldSec, newSec := a.Sections[i], b.Sections[i]
		name := oldSec.Name
		if name == "" {
			name = fmt.Sprintf("Section %d", i+1)
		}
		switch {
		case !oldSec.Hidden && newSec.Hidden:
			changes = append(changes, Change{
				Type:        ChangeHideSection,
				Description: fmt.Sprintf("Hidden section '%s'", name),
				Target:      name,
			})
		case oldSec.Hidden && !newSec.Hidden:
			changes = append(changes, Change{
				Type:        ChangeShowSection,
				Description: fmt.Sprintf("Showed section '%s'", name),
				Target:      name,
			})
		}
	}

	changes = append(changes, lineageRename(a, b, changes)...)

	return Preview{Changes: changes, Summary: summarize(changes)}
}

// lineageRename re-runs the single-pair rename heuristic over the lineage
// key sets alone and reports a pair not already covered by the object scan.
func lineageRename(a, b *report.Document, existing []Change) []Change {
	if len(a.Lineage) == 0 && len(b.Lineage) == 0 {
		return nil
	}

	var removed, added []string
	for _, name := range a.FieldNames() {
		if _, ok := b.Lineage[name]; !ok {
			removed = append(removed, name)
		}
	}
	for _, name := range b.FieldNames() {
		if _, ok := a.Lineage[name]; !ok {
			added = append(added, name)
		}
	}
	if len(removed) != 1 || len(added) != 1 {
		return nil
	}

	oldName, newName := removed[0], added[0]
	for _, c := range existing {
		if c.Type == ChangeRename && c.OldValue == oldName && c.NewValue == newName {
			return nil
		}
	}
	return []Change{{
		Type:        ChangeRename,
		Description: fmt.Sprintf("Renamed field '%s' to '%s' (from field lineage)", oldName, newName),
		OldValue:    oldName,
		NewValue:    newName,
		Section:     "Field Lineage",
	}}
}

// summarize renders "Will make {N} change{s}: {distinct types}" with the
// types in first-appearance order.
func summarize(changes []Change) string {
	if len(changes) == 0 {
		return "No changes detected"
	}
	var types []string
	seen := make(map[ChangeType]bool)
	for _, c := range changes {
		if !seen[c.Type] {
			seen[c.Type] = true
			types = append(types, string(c.Type))
		}
	}
	plural := "s"
	if len(changes) == 1 {
		plural = ""
	}
	return fmt.Sprintf("Will make %d change%s: %s", len(changes), plural, strings.Join(types, ", "))
}

// missingFrom returns the names, in order, that are absent from other.
func missingFrom(names []string, other map[string]flatObject) []string {
	var out []string
	for _, name := range names {
		if _, ok := other[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// commonNames returns the names present in both flattenings, in the first
// document's order.
func commonNames(names []string, other map[string]flatObject) []string {
	var out []string
	for _, name := range names {
		if _, ok := other[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// formattingEqual treats nil and empty maps as equal; missing keys never
// crash the comparison.
func formattingEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, va := range a {
		vb, ok := b[k]
		if !ok || !reflect.DeepEqual(va, vb) {
			return false
		}
	}
	return true
}

func emptyIfNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

var dmp = diffmatchpatch.New()

// textDelta encodes the old→new transformation compactly so clients can
// highlight what changed inside a label.
func textDelta(oldText, newText string) string {
	diffs := dmp.DiffMain(oldText, newText, false)
	return dmp.DiffToDelta(diffs)
}
