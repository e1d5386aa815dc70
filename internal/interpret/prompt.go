package interpret

import (
	"fmt"
	"strings"

	"rptedit/internal/report"
)

// BuildContext renders the sections, fields, and text objects of a document
// into the context text the interpreter needs to ground its answer.
func BuildContext(doc *report.Document) string {
	var parts []string

	if len(doc.Sections) > 0 {
		parts = append(parts, "AVAILABLE SECTIONS:")
		for _, s := range doc.Sections {
			parts = append(parts, fmt.Sprintf("- %s", s.Name))
		}
	}

	if len(doc.Lineage) > 0 {
		parts = append(parts, "\nAVAILABLE FIELDS:")
		for _, name := range doc.FieldNames() {
			parts = append(parts, fmt.Sprintf("- %s (in %s section)", name, doc.Lineage[name].Section))
		}
	}

	parts = append(parts, "\nAVAILABLE TEXT OBJECTS:")
	for _, s := range doc.Sections {
		for _, t := range s.Texts {
			parts = append(parts, fmt.Sprintf("- %s: %q", t.Name, t.Text))
		}
	}

	return strings.Join(parts, "\n")
}

// buildPrompt assembles the full command-parsing prompt.
func buildPrompt(editContext, instruction string) string {
	return fmt.Sprintf(`Based on the Crystal Report structure below, parse the natural language editing command into a structured JSON operation.

REPORT STRUCTURE:
%s

AVAILABLE EDIT TYPES:
- rename_field: Rename a field or text object
- hide_field: Hide a field from display
- show_field: Show a previously hidden field
- move_field: Move a field to a different section
- change_text: Change the text content of a text object
- hide_section: Hide an entire section
- show_section: Show a previously hidden section
- format_field: Change formatting (bold, italic, font size, etc.)

USER COMMAND: %q

Return a JSON object with these fields:
{
    "edit_type": "one_of_the_types_above",
    "target": "name_of_field_or_section_to_edit",
    "new_value": "new_value_if_applicable",
    "target_section": "destination_section_if_moving",
    "parameters": {"any": "additional_formatting_parameters"}
}

Only return the JSON object, no other text.`, editContext, instruction)
}
