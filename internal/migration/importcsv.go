package migration

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fekuna/omnipos-menu-service/internal/apperr"
	"github.com/fekuna/omnipos-menu-service/internal/categorykey"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/slug"
)

// SourceCSVImport tags items created by ImportCSV.
const SourceCSVImport = "csv-import"

// FallbackCategory receives rows whose category is missing from the mapping.
const FallbackCategory = "other"

// meatKeywords mark an imported item as not vegetarian.
var meatKeywords = []string{
	"لحمة", "لحم", "حبش", "دجاج", "كفتا", "سجق", "مرتديلا", "ببروني", "بيكون",
	"meat", "beef", "chicken", "turkey", "lamb", "sausage", "pepperoni", "bacon",
}

// CSVRow is one parsed line of a name,category,price file.
type CSVRow struct {
	Name     string
	Category string
	Price    float64
}

// LoadMapping reads a flat YAML map of from: to keys.
func LoadMapping(r io.Reader) (map[string]string, error) {
	mapping := map[string]string{}
	if err := yaml.NewDecoder(r).Decode(&mapping); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	return mapping, nil
}

// ParseCSV reads name,category,price rows. A header row, short rows and rows
// without a name are dropped. An unreadable price becomes 0.
func ParseCSV(r io.Reader) ([]CSVRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []CSVRow
	for line := 0; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(record) < 3 {
			continue
		}

		name := strings.TrimSpace(record[0])
		if name == "" || (line == 0 && isHeader(name)) {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil || price < 0 {
			price = 0
		}
		rows = append(rows, CSVRow{
			Name:     name,
			Category: strings.TrimSpace(record[1]),
			Price:    price,
		})
	}
	return rows, nil
}

func isHeader(name string) bool {
	switch strings.ToLower(name) {
	case "name", "productname":
		return true
	}
	return false
}

// IsVegetarian guesses from the item name alone.
func IsVegetarian(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range meatKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// ImportCSV creates one item per row. Ids are "{slug}-{row}"; rows whose id
// already exists are skipped, so a rerun does not duplicate the menu.
//
// With a mapping, a row's category goes through it and unmapped categories
// land in FallbackCategory. Without one the raw category is kept. Categories
// that match a real (main, sub) key get the typed pair filled in. A row that
// ends up with no category fails like an admin create would.
func (m *Migrator) ImportCSV(ctx context.Context, rows []CSVRow, mapping map[string]string) (Report, error) {
	opts, err := m.options(ctx)
	if err != nil {
		return Report{}, err
	}

	return m.inBatches(ctx, "import csv", len(rows), func(ctx context.Context, i int) (Change, error) {
		row := rows[i]
		id := importID(row.Name, i)
		key := mapCategory(row.Category, mapping)
		change := Change{ID: id, Name: row.Name, From: row.Category, To: key}
		if strings.TrimSpace(key) == "" {
			return change, apperr.Validation("row %d: category is required", i)
		}

		existing, err := m.items.FindByID(ctx, id)
		if err != nil {
			return change, err
		}
		if existing != nil {
			return change, errSkip
		}

		now := m.timestamp()
		item := &model.MenuItem{
			BaseModel:    model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
			Name:         row.Name,
			Price:        row.Price,
			Category:     key,
			Allergens:    model.StringList{},
			IsVegetarian: IsVegetarian(row.Name),
			Source:       SourceCSVImport,
		}
		if pair, ok := categorykey.Resolve(opts, key); ok {
			item.MainCategoryID = pair.MainCategoryID
			item.SubCategoryID = pair.SubCategoryID
		}
		return change, m.items.Create(ctx, item)
	})
}

func importID(name string, row int) string {
	base := slug.Make(name)
	if len([]rune(base)) < 2 {
		base = "item"
	}
	return fmt.Sprintf("%s-%d", base, row)
}

func mapCategory(raw string, mapping map[string]string) string {
	if len(mapping) == 0 {
		return raw
	}
	if to, ok := mapping[raw]; ok {
		return to
	}
	return FallbackCategory
}
