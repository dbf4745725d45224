package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"central-lost-found/backend/internal/item/domain"
)

func TestNegotiate(t *testing.T) {
	testCases := []struct {
		accept string
		want   Format
	}{
		{"", FormatJSON},
		{"*/*", FormatJSON},
		{"application/json", FormatJSON},
		{"application/xml", FormatXML},
		{"APPLICATION/XML", FormatXML},
		{"text/xml; q=0.1, application/json", FormatXML},
		{"text/html,application/xhtml+xml,application/xml;q=0.9", FormatXML},
		{"text/csv", FormatCSV},
		{"text/csv, application/xml", FormatXML},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Negotiate(tc.accept), "accept %q", tc.accept)
	}
}

func sampleItems() []*domain.FoundItem {
	desc := "czarny, z rączką"
	return []*domain.FoundItem{
		{
			ID: "a1", Title: "Parasol", DominantColor: "czarny", Description: &desc,
			LocationFound: "Tramwaj 4", DateFound: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Voivodeship: "Małopolskie", ReportingEntity: "um.krakow.pl",
		},
		{
			ID: "b2", Title: "Klucze & brelok", DominantColor: "srebrny",
			LocationFound: "Park", DateFound: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Voivodeship: "Unknown", ReportingEntity: "BIP Import",
		},
	}
}

func TestRender_ExportAsXMLIsFlat(t *testing.T) {
	items := sampleItems()
	body, ct, err := Render(Items("items", items, nil), "application/xml")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXML, ct)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(body))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "items", root.Tag)

	children := root.ChildElements()
	require.Len(t, children, 2*len(ItemHeader()))
	for _, c := range children {
		assert.Empty(t, c.ChildElements(), "no nested structure")
	}
	assert.Equal(t, "id", children[0].Tag)
	assert.Equal(t, "a1", children[0].Text())
	assert.Equal(t, "Klucze & brelok", children[11].Text())
	assert.Contains(t, string(body), "Klucze &amp; brelok")
}

func TestRender_DefaultsToJSON(t *testing.T) {
	body, ct, err := Render(Items("items", sampleItems(), map[string]int{"count": 2}), "text/html")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, ct)
	assert.JSONEq(t, `{"count":2}`, string(body))
}

func TestRender_CSV(t *testing.T) {
	body, ct, err := Render(Items("items", sampleItems(), nil), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeCSV, ct)

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,title,category,dominant_color,description,distinctive_marks,location_found,date_found,voivodeship,reporting_entity", lines[0])
	assert.Equal(t, `a1,Parasol,,czarny,"czarny, z rączką",,Tramwaj 4,2026-03-02,Małopolskie,um.krakow.pl`, lines[1])
}

func TestRender_CSVWithoutHeaderFallsBackToJSON(t *testing.T) {
	p := Map("import", [][2]string{{"importedCount", "1"}}, map[string]int{"importedCount": 1})
	body, ct, err := Render(p, "text/csv")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, ct)

	var got map[string]int
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 1, got["importedCount"])
}

func TestXML_SingleItem(t *testing.T) {
	body, err := XML("item", sampleItems()[0].Fields())
	require.NoError(t, err)
	s := string(body)
	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, s, "<title>Parasol</title>")
	assert.Contains(t, s, "<date_found>2026-03-02</date_found>")
}
