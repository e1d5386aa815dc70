package report

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<Report>
    <ReportInfo>
        <Name>Sales Report</Name>
        <Version>13.0</Version>
        <CreationDate>2024-01-15</CreationDate>
        <Author>Jane Analyst</Author>
    </ReportInfo>
    <Sections>
        <Section Name="ReportHeader">
            <TextObjects>
                <TextObject Name="Title">
                    <Text>Quarterly Sales Report</Text>
                    <Font>Arial, 16pt, Bold</Font>
                </TextObject>
            </TextObjects>
            <PictureObjects>
                <PictureObject Name="CompanyLogo">
                    <ImagePath>company_logo.png</ImagePath>
                </PictureObject>
            </PictureObjects>
        </Section>
        <Section Name="Details">
            <FieldObjects>
                <FieldObject Name="CustomerName">
                    <DatabaseField>Customers.CustomerName</DatabaseField>
                </FieldObject>
                <FieldObject Name="OrderTotal">
                    <Formula>Sum({OrderItems.Amount})</Formula>
                </FieldObject>
            </FieldObjects>
        </Section>
    </Sections>
    <DataSources>
        <DataSource Name="ERP_Production">
            <ConnectionString>Provider=SQLOLEDB;Server=sql-01;Database=ERP</ConnectionString>
            <Tables>
                <Table Name="Customers"/>
                <Table Name="Orders"/>
            </Tables>
        </DataSource>
    </DataSources>
</Report>`

func TestParseXML_Normalizes(t *testing.T) {
	doc, err := ParseXML(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantInfo := ReportInfo{Name: "Sales Report", Version: "13.0", Created: "2024-01-15", Author: "Jane Analyst"}
	if doc.Info != wantInfo {
		t.Errorf("report info = %+v, want %+v", doc.Info, wantInfo)
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}

	header := doc.Sections[0]
	if header.Name != "ReportHeader" {
		t.Errorf("section name = %q", header.Name)
	}
	if len(header.Texts) != 1 || header.Texts[0].Text != "Quarterly Sales Report" {
		t.Errorf("unexpected text objects: %+v", header.Texts)
	}
	if len(header.Pictures) != 1 || header.Pictures[0].ImagePath != "company_logo.png" {
		t.Errorf("unexpected picture objects: %+v", header.Pictures)
	}

	details := doc.Sections[1]
	if len(details.Fields) != 2 {
		t.Fatalf("expected 2 field objects, got %d", len(details.Fields))
	}
	if details.Fields[0].DatabaseField != "Customers.CustomerName" {
		t.Errorf("database field = %q", details.Fields[0].DatabaseField)
	}
	if details.Fields[1].Formula != "Sum({OrderItems.Amount})" {
		t.Errorf("formula = %q", details.Fields[1].Formula)
	}
}

func TestParseXML_BuildsLineage(t *testing.T) {
	doc, err := ParseXML(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]*LineageEntry{
		"CustomerName": {Source: "Customers.CustomerName", Section: "Details"},
		"OrderTotal":   {Source: "Formula", Formula: "Sum({OrderItems.Amount})", Section: "Details"},
	}
	if diff := cmp.Diff(want, doc.Lineage); diff != "" {
		t.Errorf("unexpected lineage (-want +got):\n%s", diff)
	}
}

func TestParseXML_DataSources(t *testing.T) {
	doc, err := ParseXML(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []DataSource{
		{Name: "ERP_Production", ConnectionString: "Provider=SQLOLEDB;Server=sql-01;Database=ERP", Tables: []string{"Customers", "Orders"}},
	}
	if diff := cmp.Diff(want, doc.DataSources); diff != "" {
		t.Errorf("unexpected data sources (-want +got):\n%s", diff)
	}
}

func TestParseXML_MissingNamesDefaultUnknown(t *testing.T) {
	xml := `<Report><Sections><Section><FieldObjects><FieldObject><DatabaseField>T.F</DatabaseField></FieldObject></FieldObjects></Section></Sections></Report>`
	doc, err := ParseXML(strings.NewReader(xml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Info.Name != "Unknown" {
		t.Errorf("report name = %q, want Unknown", doc.Info.Name)
	}
	if doc.Sections[0].Name != "Unknown" {
		t.Errorf("section name = %q, want Unknown", doc.Sections[0].Name)
	}
	if doc.Sections[0].Fields[0].Name != "Unknown" {
		t.Errorf("field name = %q, want Unknown", doc.Sections[0].Fields[0].Name)
	}
}

func TestParseXML_Malformed(t *testing.T) {
	if _, err := ParseXML(strings.NewReader("<Report><Sections>")); err == nil {
		t.Fatal("expected error for malformed xml")
	}
}

func TestDecodeJSON_RoundTrip(t *testing.T) {
	doc, err := DecodeJSON(strings.NewReader(`{
		"report_info": {"name": "R", "version": "1", "creation_date": "2024", "author": "a"},
		"sections": [{"name": "Details", "field_objects": [{"name": "Total", "formula": "Sum(X)"}], "text_objects": [], "picture_objects": []}],
		"field_lineage": {"Total": {"source": "Formula", "formula": "Sum(X)", "section": "Details"}}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Info.Name != "R" || len(doc.Sections) != 1 || doc.Lineage["Total"] == nil {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestDecodeJSON_MissingLineageInitialized(t *testing.T) {
	doc, err := DecodeJSON(strings.NewReader(`{"report_info": {"name": "R"}, "sections": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Lineage == nil {
		t.Error("expected lineage map to be initialized")
	}
}

func TestDecode_Dispatch(t *testing.T) {
	if _, err := Decode(strings.NewReader(sampleXML), "report.xml"); err != nil {
		t.Errorf("xml dispatch failed: %v", err)
	}
	if _, err := Decode(strings.NewReader(`{"sections": []}`), "snapshot.JSON"); err != nil {
		t.Errorf("json dispatch failed: %v", err)
	}
	if _, err := Decode(strings.NewReader(""), "report.rpt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	cases := map[string]bool{
		"a.xml":  true,
		"a.json": true,
		"a.XML":  true,
		"a.rpt":  false,
		"a":      false,
	}
	for name, want := range cases {
		if got := IsSupportedExtension(name); got != want {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", name, got, want)
		}
	}
}
