package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists file extensions Decode can handle.
var SupportedExtensions = map[string]bool{
	".xml":  true,
	".json": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Decode reads a structural document from r. XML files are treated as
// RptToXml output; JSON files as a previously exported document snapshot.
func Decode(r io.Reader, filename string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xml":
		return ParseXML(r)
	case ".json":
		return DecodeJSON(r)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// DecodeJSON reads a document snapshot previously produced by this service.
func DecodeJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document json: %w", err)
	}
	if doc.Lineage == nil {
		doc.Lineage = make(map[string]*LineageEntry)
	}
	return &doc, nil
}

// xmlReport mirrors the RptToXml output schema.
type xmlReport struct {
	XMLName xml.Name `xml:"Report"`
	Info    struct {
		Name    string `xml:"Name"`
		Version string `xml:"Version"`
		Created string `xml:"CreationDate"`
		Author  string `xml:"Author"`
	} `xml:"ReportInfo"`
	Sections []struct {
		Name  string `xml:"Name,attr"`
		Texts []struct {
			Name string `xml:"Name,attr"`
			Text string `xml:"Text"`
			Font string `xml:"Font"`
		} `xml:"TextObjects>TextObject"`
		Fields []struct {
			Name          string `xml:"Name,attr"`
			DatabaseField string `xml:"DatabaseField"`
			Formula       string `xml:"Formula"`
		} `xml:"FieldObjects>FieldObject"`
		Pictures []struct {
			Name      string `xml:"Name,attr"`
			ImagePath string `xml:"ImagePath"`
		} `xml:"PictureObjects>PictureObject"`
	} `xml:"Sections>Section"`
	DataSources []struct {
		Name             string `xml:"Name,attr"`
		ConnectionString string `xml:"ConnectionString"`
		Tables           []struct {
			Name string `xml:"Name,attr"`
		} `xml:"Tables>Table"`
	} `xml:"DataSources>DataSource"`
}

// ParseXML normalizes RptToXml CLI output into a Document, building the
// field-lineage index as it walks each section's field objects.
func ParseXML(r io.Reader) (*Document, error) {
	var raw xmlReport
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode report xml: %w", err)
	}

	doc := &Document{
		Info: ReportInfo{
			Name:    orUnknown(raw.Info.Name),
			Version: orUnknown(raw.Info.Version),
			Created: orUnknown(raw.Info.Created),
			Author:  orUnknown(raw.Info.Author),
		},
		Sections: []*Section{},
		Lineage:  make(map[string]*LineageEntry),
	}

	for _, xs := range raw.Sections {
		section := &Section{
			Name:     orUnknown(xs.Name),
			Fields:   []*FieldObject{},
			Texts:    []*TextObject{},
			Pictures: []*PictureObject{},
		}
		for _, xt := range xs.Texts {
			section.Texts = append(section.Texts, &TextObject{
				Name: orUnknown(xt.Name),
				Text: xt.Text,
				Font: xt.Font,
			})
		}
		for _, xf := range xs.Fields {
			name := orUnknown(xf.Name)
			section.Fields = append(section.Fields, &FieldObject{
				Name:          name,
				DatabaseField: xf.DatabaseField,
				Formula:       xf.Formula,
			})
			source := xf.DatabaseField
			if source == "" {
				source = "Formula"
			}
			doc.Lineage[name] = &LineageEntry{
				Source:  source,
				Formula: xf.Formula,
				Section: section.Name,
			}
		}
		for _, xp := range xs.Pictures {
			section.Pictures = append(section.Pictures, &PictureObject{
				Name:      orUnknown(xp.Name),
				ImagePath: xp.ImagePath,
			})
		}
		doc.Sections = append(doc.Sections, section)
	}

	for _, xd := range raw.DataSources {
		ds := DataSource{
			Name:             orUnknown(xd.Name),
			ConnectionString: xd.ConnectionString,
			Tables:           []string{},
		}
		for _, t := range xd.Tables {
			ds.Tables = append(ds.Tables, orUnknown(t.Name))
		}
		doc.DataSources = append(doc.DataSources, ds)
	}

	return doc, nil
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Unknown"
	}
	return s
}
