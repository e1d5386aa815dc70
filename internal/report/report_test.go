package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDocument() *Document {
	return &Document{
		Info: ReportInfo{
			Name:    "Test Sales Report",
			Version: "13.0",
			Created: "2024-01-01",
			Author:  "Test User",
		},
		Sections: []*Section{
			{
				Name: "ReportHeader",
				Texts: []*TextObject{
					{Name: "Title", Text: "Sales Report", Font: "Arial, 14pt"},
				},
			},
			{
				Name: "Details",
				Fields: []*FieldObject{
					{Name: "CustomerName", DatabaseField: "Customers.CustomerName"},
					{Name: "OrderTotal", Formula: "Sum({Orders.Amount})", Formatting: map[string]any{"bold": true}},
				},
			},
		},
		DataSources: []DataSource{
			{Name: "ERP_Database", ConnectionString: "Provider=SQLOLEDB;Server=test-server;Database=ERP", Tables: []string{"Customers", "Orders"}},
		},
		Lineage: map[string]*LineageEntry{
			"CustomerName": {Source: "Customers.CustomerName", Section: "Details"},
			"OrderTotal":   {Source: "Formula", Formula: "Sum({Orders.Amount})", Section: "Details"},
		},
	}
}

func TestClone_DeepCopy(t *testing.T) {
	doc := sampleDocument()
	clone := doc.Clone()

	if diff := cmp.Diff(doc, clone); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s", diff)
	}

	// Mutating the clone must not leak into the original.
	clone.Sections[1].Fields[0].Name = "ClientName"
	clone.Sections[1].Fields[1].Formatting["italic"] = true
	clone.Sections[0].Texts[0].Text = "Changed"
	clone.Lineage["CustomerName"].Hidden = true
	clone.DataSources[0].Tables[0] = "Mutated"

	if doc.Sections[1].Fields[0].Name != "CustomerName" {
		t.Errorf("field rename leaked into original: %q", doc.Sections[1].Fields[0].Name)
	}
	if _, ok := doc.Sections[1].Fields[1].Formatting["italic"]; ok {
		t.Error("formatting mutation leaked into original")
	}
	if doc.Sections[0].Texts[0].Text != "Sales Report" {
		t.Errorf("text mutation leaked into original: %q", doc.Sections[0].Texts[0].Text)
	}
	if doc.Lineage["CustomerName"].Hidden {
		t.Error("lineage mutation leaked into original")
	}
	if doc.DataSources[0].Tables[0] != "Customers" {
		t.Error("data source mutation leaked into original")
	}
}

func TestClone_Nil(t *testing.T) {
	var doc *Document
	if doc.Clone() != nil {
		t.Error("expected nil clone of nil document")
	}
}

func TestFieldNames_Sorted(t *testing.T) {
	doc := sampleDocument()
	got := doc.FieldNames()
	want := []string{"CustomerName", "OrderTotal"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected field names (-want +got):\n%s", diff)
	}
}

func TestTextAndSectionNames_DocumentOrder(t *testing.T) {
	doc := sampleDocument()

	if diff := cmp.Diff([]string{"Title"}, doc.TextNames()); diff != "" {
		t.Errorf("unexpected text names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ReportHeader", "Details"}, doc.SectionNames()); diff != "" {
		t.Errorf("unexpected section names (-want +got):\n%s", diff)
	}
}

func TestFindSection(t *testing.T) {
	doc := sampleDocument()
	if s := doc.FindSection("Details"); s == nil || s.Name != "Details" {
		t.Errorf("expected Details section, got %+v", s)
	}
	if s := doc.FindSection("Nope"); s != nil {
		t.Errorf("expected nil for unknown section, got %+v", s)
	}
}
