package command

import (
	"regexp"
	"strings"
	"unicode"

	"rptedit/internal/report"
)

// Fallback deterministically extracts a Command from a free-text instruction
// when the NL interpreter is unavailable or returned an invalid payload.
//
// Rules are evaluated in priority order. A rule whose keyword appears in the
// lowercased instruction is exclusive: either its extractor resolves a
// command or the whole parse fails with ParseError. Keyword matching is done
// on the lowercased text; literals are extracted from the original text so
// their casing survives.
func Fallback(instruction string, doc *report.Document) (Command, error) {
	pc := &parseContext{
		text:     instruction,
		lower:    strings.ToLower(instruction),
		fields:   doc.FieldNames(),
		texts:    doc.TextNames(),
		sections: doc.SectionNames(),
	}
	for _, r := range fallbackRules {
		if !r.match(pc.lower) {
			continue
		}
		if cmd, ok := r.extract(pc); ok {
			return cmd, nil
		}
		break
	}
	return Command{}, &ParseError{Instruction: instruction}
}

type parseContext struct {
	text     string
	lower    string
	fields   []string
	texts    []string
	sections []string
}

type rule struct {
	match   func(lower string) bool
	extract func(pc *parseContext) (Command, bool)
}

var fallbackRules = []rule{
	{match: contains("rename"), extract: extractRename},
	{match: contains("hide"), extract: extractVisibility(HideField)},
	{match: contains("show"), extract: extractVisibility(ShowField)},
	{match: contains("move"), extract: extractMove},
	{match: containsAll("change", "title"), extract: extractChangeTitle},
}

func contains(keyword string) func(string) bool {
	return func(lower string) bool { return strings.Contains(lower, keyword) }
}

func containsAll(keywords ...string) func(string) bool {
	return func(lower string) bool {
		for _, k := range keywords {
			if !strings.Contains(lower, k) {
				return false
			}
		}
		return true
	}
}

var (
	renameQuotedRe = regexp.MustCompile(`(?i)rename\s+['"]([^'"]+)['"][\s\w]*to\s+['"]([^'"]+)['"]`)
	renameBareRe   = regexp.MustCompile(`(?i)rename\s+(\S+)[\s\w]*to\s+(\S+)`)
	quotedRe       = regexp.MustCompile(`['"]([^'"]+)['"]`)
	hideQuotedRe   = regexp.MustCompile(`(?i)hide.*['"]([^'"]+)['"]`)
	showQuotedRe   = regexp.MustCompile(`(?i)show.*['"]([^'"]+)['"]`)
	moveQuotedRe   = regexp.MustCompile(`(?i)move.*['"]([^'"]+)['"]`)
	sectionFragRe  = regexp.MustCompile(`(?i)to\s+(?:the\s+)?['"]?([^'"]+?)['"]?\s+section`)
	titleToRe      = regexp.MustCompile(`(?i)to\s+['"]([^'"]+)['"]`)
)

// extractRename tries the labelled "rename X to Y" patterns first (new name
// alias-cased), then falls back to the first two quoted substrings anywhere
// in the text (new name verbatim).
func extractRename(pc *parseContext) (Command, bool) {
	for _, re := range []*regexp.Regexp{renameQuotedRe, renameBareRe} {
		m := re.FindStringSubmatch(pc.text)
		if m == nil {
			continue
		}
		if target, ok := resolveName(m[1], pc.fields, pc.texts); ok {
			cmd, err := New(RenameField, target, WithNewValue(titleCase(m[2])))
			return cmd, err == nil
		}
	}

	quoted := quotedRe.FindAllStringSubmatch(pc.text, -1)
	if len(quoted) >= 2 {
		if target, ok := resolveName(quoted[0][1], pc.fields, pc.texts); ok {
			cmd, err := New(RenameField, target, WithNewValue(quoted[1][1]))
			return cmd, err == nil
		}
	}
	return Command{}, false
}

// extractVisibility handles hide/show of a quoted field name, resolved
// against known field names only. Greedy matching takes the last quoted
// substring when more than one appears.
func extractVisibility(editType Type) func(pc *parseContext) (Command, bool) {
	re := hideQuotedRe
	if editType == ShowField {
		re = showQuotedRe
	}
	return func(pc *parseContext) (Command, bool) {
		m := re.FindStringSubmatch(pc.text)
		if m == nil {
			return Command{}, false
		}
		target, ok := resolveName(m[1], pc.fields)
		if !ok {
			return Command{}, false
		}
		cmd, err := New(editType, target)
		return cmd, err == nil
	}
}

// extractMove requires a quoted field name; the "to <section> section"
// fragment is optional and its absence is left for the applicator to reject.
func extractMove(pc *parseContext) (Command, bool) {
	m := moveQuotedRe.FindStringSubmatch(pc.text)
	if m == nil {
		return Command{}, false
	}
	target, ok := resolveName(m[1], pc.fields)
	if !ok {
		return Command{}, false
	}

	var opts []Option
	if sm := sectionFragRe.FindStringSubmatch(pc.text); sm != nil {
		frag := strings.TrimSpace(sm[1])
		if section, found := resolveName(frag, pc.sections); found {
			opts = append(opts, WithTargetSection(section))
		} else if frag != "" {
			opts = append(opts, WithTargetSection(frag))
		}
	}
	cmd, err := New(MoveField, target, opts...)
	return cmd, err == nil
}

// extractChangeTitle always targets the literal name "Title" regardless of
// actual document contents.
func extractChangeTitle(pc *parseContext) (Command, bool) {
	m := titleToRe.FindStringSubmatch(pc.text)
	if m == nil {
		return Command{}, false
	}
	cmd, err := New(ChangeText, "Title", WithNewValue(m[1]))
	return cmd, err == nil
}

// resolveName matches candidate case-insensitively against the given name
// pools, requiring an exact full-name match, and returns the canonical name.
func resolveName(candidate string, pools ...[]string) (string, bool) {
	for _, pool := range pools {
		for _, name := range pool {
			if strings.EqualFold(name, candidate) {
				return name, true
			}
		}
	}
	return "", false
}

// titleCase upper-cases the first letter of each word and lower-cases the
// rest, so "customer name" and "CUSTOMER NAME" both become "Customer Name".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
