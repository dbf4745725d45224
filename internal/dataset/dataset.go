// Package dataset serves the static dataset description and the illustrative sample file.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"central-lost-found/backend/internal/item/domain"
)

//go:embed metadata.xml
var metadataXML []byte

//go:embed sample.csv
var sampleCSV []byte

// MetadataXML returns the dataset description document. The content is fixed and does not reflect stored items.
func MetadataXML() []byte {
	return bytes.Clone(metadataXML)
}

// SampleCSV returns the illustrative sample rows. The content is fixed and does not reflect stored items.
func SampleCSV() []byte {
	return bytes.Clone(sampleCSV)
}

// SampleItems parses the sample file into items, for seeding a development database.
// The id column is ignored; the repository assigns fresh ids.
func SampleItems() ([]*domain.FoundItem, error) {
	records, err := csv.NewReader(bytes.NewReader(sampleCSV)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: sample.csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	get := func(rec []string, name string) string {
		if i, ok := col[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	optional := func(rec []string, name string) *string {
		if v := get(rec, name); v != "" {
			return &v
		}
		return nil
	}

	items := make([]*domain.FoundItem, 0, len(records)-1)
	for n, rec := range records[1:] {
		date, err := time.Parse(domain.DateLayout, get(rec, "date_found"))
		if err != nil {
			return nil, fmt.Errorf("dataset: sample.csv row %d: %w", n+2, err)
		}
		items = append(items, &domain.FoundItem{
			Title:            get(rec, "title"),
			Category:         get(rec, "category"),
			DominantColor:    get(rec, "dominant_color"),
			Description:      optional(rec, "description"),
			DistinctiveMarks: optional(rec, "distinctive_marks"),
			LocationFound:    get(rec, "location_found"),
			DateFound:        date,
			Voivodeship:      get(rec, "voivodeship"),
			ReportingEntity:  get(rec, "reporting_entity"),
		})
	}
	return items, nil
}
