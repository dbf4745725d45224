package dataset

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"central-lost-found/backend/internal/render"
)

func TestMetadataXML_IsWellFormed(t *testing.T) {
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(MetadataXML()))
	require.NotNil(t, doc.Root())
	assert.Equal(t, "dataset", doc.Root().Tag)

	var names []string
	for _, f := range doc.Root().SelectElement("fields").SelectElements("field") {
		names = append(names, f.SelectAttrValue("name", ""))
	}
	assert.Equal(t, render.ItemHeader(), names)
}

func TestSampleCSV_HeaderMatchesExport(t *testing.T) {
	items, err := SampleItems()
	require.NoError(t, err)
	require.Len(t, items, 5)

	first := items[0]
	assert.Equal(t, "Plecak niebieski", first.Title)
	assert.Equal(t, "Mazowieckie", first.Voivodeship)
	assert.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), first.DateFound)
	require.NotNil(t, first.Description)
	assert.Equal(t, "Plecak szkolny, w środku zeszyty", *first.Description)
	assert.Nil(t, items[1].Description)
	assert.Empty(t, first.ID)
}

func TestAccessorsReturnCopies(t *testing.T) {
	a := SampleCSV()
	a[0] = 'X'
	assert.Equal(t, byte('i'), SampleCSV()[0])
}
