package report

import "sort"

// Document is the full structural model of a report: ordered sections of
// layout objects plus a field-lineage side index mapping object names to
// their data origin.
type Document struct {
	Info        ReportInfo               `json:"report_info"`
	Sections    []*Section               `json:"sections"`
	DataSources []DataSource             `json:"data_sources,omitempty"`
	Lineage     map[string]*LineageEntry `json:"field_lineage"`
}

// ReportInfo holds report-level metadata.
type ReportInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Created string `json:"creation_date"`
	Author  string `json:"author"`
}

// Section is one layout band of the report. Its name is treated as a unique
// key for lookups, though uniqueness is not enforced.
type Section struct {
	Name     string           `json:"name"`
	Hidden   bool             `json:"hidden,omitempty"`
	Fields   []*FieldObject   `json:"field_objects"`
	Texts    []*TextObject    `json:"text_objects"`
	Pictures []*PictureObject `json:"picture_objects"`
}

// FieldObject is a data-bound object. At most one of DatabaseField and
// Formula is meaningful; both empty means the source is unresolved.
type FieldObject struct {
	Name          string         `json:"name"`
	DatabaseField string         `json:"database_field,omitempty"`
	Formula       string         `json:"formula,omitempty"`
	Hidden        bool           `json:"hidden,omitempty"`
	Formatting    map[string]any `json:"formatting,omitempty"`
}

// TextObject is a literal text label.
type TextObject struct {
	Name       string         `json:"name"`
	Text       string         `json:"text"`
	Font       string         `json:"font,omitempty"`
	Hidden     bool           `json:"hidden,omitempty"`
	Formatting map[string]any `json:"formatting,omitempty"`
}

// PictureObject is an embedded image reference.
type PictureObject struct {
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
	Hidden    bool   `json:"hidden,omitempty"`
}

// LineageEntry records where a field's data comes from and which section
// owns it. Its Hidden flag mirrors the flag on the section object.
type LineageEntry struct {
	Source  string `json:"source"`
	Formula string `json:"formula,omitempty"`
	Section string `json:"section"`
	Hidden  bool   `json:"hidden,omitempty"`
}

// DataSource describes an upstream database connection. Carried through
// decoding untouched; no edit operation reads it.
type DataSource struct {
	Name             string   `json:"name"`
	ConnectionString string   `json:"connection_string"`
	Tables           []string `json:"tables"`
}

// Clone returns a deep copy of the document. Edits are always applied to a
// clone so the caller's document is never mutated.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Info:    d.Info,
		Lineage: make(map[string]*LineageEntry, len(d.Lineage)),
	}
	if d.Sections != nil {
		out.Sections = make([]*Section, 0, len(d.Sections))
		for _, s := range d.Sections {
			out.Sections = append(out.Sections, s.clone())
		}
	}
	if d.DataSources != nil {
		out.DataSources = make([]DataSource, 0, len(d.DataSources))
		for _, ds := range d.DataSources {
			cp := ds
			cp.Tables = append([]string(nil), ds.Tables...)
			out.DataSources = append(out.DataSources, cp)
		}
	}
	for name, entry := range d.Lineage {
		cp := *entry
		out.Lineage[name] = &cp
	}
	return out
}

func (s *Section) clone() *Section {
	out := &Section{Name: s.Name, Hidden: s.Hidden}
	if s.Fields != nil {
		out.Fields = make([]*FieldObject, 0, len(s.Fields))
		for _, f := range s.Fields {
			cp := *f
			cp.Formatting = cloneFormatting(f.Formatting)
			out.Fields = append(out.Fields, &cp)
		}
	}
	if s.Texts != nil {
		out.Texts = make([]*TextObject, 0, len(s.Texts))
		for _, t := range s.Texts {
			cp := *t
			cp.Formatting = cloneFormatting(t.Formatting)
			out.Texts = append(out.Texts, &cp)
		}
	}
	if s.Pictures != nil {
		out.Pictures = make([]*PictureObject, 0, len(s.Pictures))
		for _, p := range s.Pictures {
			cp := *p
			out.Pictures = append(out.Pictures, &cp)
		}
	}
	return out
}

func cloneFormatting(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FieldNames returns the lineage keys in sorted order.
func (d *Document) FieldNames() []string {
	names := make([]string, 0, len(d.Lineage))
	for name := range d.Lineage {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TextNames returns all text-object names in document order.
func (d *Document) TextNames() []string {
	var names []string
	for _, s := range d.Sections {
		for _, t := range s.Texts {
			names = append(names, t.Name)
		}
	}
	return names
}

// SectionNames returns section names in document order.
func (d *Document) SectionNames() []string {
	names := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		names = append(names, s.Name)
	}
	return names
}

// FindSection returns the first section with the given name, or nil.
func (d *Document) FindSection(name string) *Section {
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}
