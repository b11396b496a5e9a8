// catalog.go - In-memory medicine catalog loaded from CSV

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Medicine is one catalog entry as served to clients. The ID is the
// row's position in the CSV, which keeps IDs stable across restarts
// as long as the dataset file doesn't change.
type Medicine struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	GenericName          string  `json:"generic_name"`
	Disease              string  `json:"disease"`
	Composition          string  `json:"composition"`
	Uses                 string  `json:"uses"`
	Description          string  `json:"description,omitempty"`
	SideEffects          string  `json:"sideEffects"`
	Manufacturer         string  `json:"manufacturer"`
	PrescriptionRequired bool    `json:"prescription_required"`
	Available            bool    `json:"available"`
	Price                float64 `json:"price"`
	ImageURL             string  `json:"image_url"`
	DrugVariant          string  `json:"drug_variant,omitempty"`
}

// Catalog holds the full medicine dataset in memory. The dataset is
// read once at startup and never mutated, so lookups need no locking.
type Catalog struct {
	medicines []Medicine
}

const (
	defaultPrice       = 50.0
	descriptionMaxLen  = 500
	sideEffectsDefault = "Consult doctor for side effects information"
)

// Load reads the medicine dataset from a CSV file. Rows that cannot
// be parsed are skipped rather than failing the whole load.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open medicine dataset: %w", err)
	}
	defer f.Close()

	return load(f)
}

func load(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"med_name", "generic_name", "disease_name"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("dataset missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	cat := &Catalog{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		disease := field(record, "disease_name")
		uses := disease
		if uses == "" {
			uses = "General use medicine"
		}

		description := field(record, "drug_content")
		if len(description) > descriptionMaxLen {
			description = description[:descriptionMaxLen] + "..."
		}

		generic := field(record, "generic_name")

		cat.medicines = append(cat.medicines, Medicine{
			ID:                   len(cat.medicines),
			Name:                 field(record, "med_name"),
			GenericName:          generic,
			Disease:              disease,
			Composition:          generic,
			Uses:                 uses,
			Description:          description,
			SideEffects:          sideEffectsDefault,
			Manufacturer:         cleanManufacturer(field(record, "drug_manufacturer")),
			PrescriptionRequired: field(record, "prescription_required") == "Rx required",
			Available:            true,
			Price:                parsePrice(field(record, "final_price")),
			ImageURL:             firstURL(field(record, "img_urls")),
			DrugVariant:          field(record, "drug_varient"),
		})
	}

	return cat, nil
}

// Size returns the number of medicines loaded.
func (c *Catalog) Size() int {
	return len(c.medicines)
}

// GetByID returns the medicine at the given dataset index, or nil.
func (c *Catalog) GetByID(id int) *Medicine {
	if id < 0 || id >= len(c.medicines) {
		return nil
	}
	m := c.medicines[id]
	return &m
}

// Search returns up to limit medicines whose name, generic name, or
// disease contains the query, case-insensitive.
func (c *Catalog) Search(query string, limit int) []Medicine {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return []Medicine{}
	}

	results := []Medicine{}
	for _, m := range c.medicines {
		if strings.Contains(strings.ToLower(m.Name), query) ||
			strings.Contains(strings.ToLower(m.GenericName), query) ||
			strings.Contains(strings.ToLower(m.Disease), query) {
			results = append(results, m)
			if len(results) >= limit {
				break
			}
		}
	}
	return results
}

// Page returns one page of the catalog with an optional search
// filter, plus the total number of matching rows.
func (c *Catalog) Page(search string, page, perPage int) ([]Medicine, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	filtered := c.medicines
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		filtered = []Medicine{}
		for _, m := range c.medicines {
			if strings.Contains(strings.ToLower(m.Name), search) ||
				strings.Contains(strings.ToLower(m.GenericName), search) ||
				strings.Contains(strings.ToLower(m.Disease), search) {
				filtered = append(filtered, m)
			}
		}
	}

	total := len(filtered)
	start := (page - 1) * perPage
	if start >= total {
		return []Medicine{}, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return filtered[start:end], total
}

// parsePrice reads a display price like "₹335.68"; unparseable
// values fall back to a nominal default.
func parsePrice(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "₹", ""), ",", ""))
	if raw == "" {
		return defaultPrice
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultPrice
	}
	return price
}

// cleanManufacturer strips the dataset's "* Mkt:" marketing prefix.
func cleanManufacturer(raw string) string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "* Mkt:", ""))
	if raw == "" {
		return "Unknown"
	}
	return raw
}

// firstURL takes the first entry of a comma-separated URL list.
func firstURL(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(strings.Split(raw, ",")[0])
}
