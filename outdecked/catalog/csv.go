package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/outdecked/outdecked/outdecked/database/models"
)

// ProductRecord is one decoded row of a catalog product export: the card
// columns, its variable attributes, and the current price snapshot.
type ProductRecord struct {
	ProductID  int64
	Name       string
	CleanName  string
	GroupID    int64
	CategoryID int64
	ImageURL   string
	URL        string
	Attributes map[string]string

	SubTypeName string
	LowPrice    float64
	MidPrice    float64
	HighPrice   float64
	MarketPrice float64
}

// Base columns of the product export. Any column whose name starts with
// "ext" carries a game-specific attribute instead (extRarity, extTrigger,
// extActivationEnergy...) and lands in the attribute map.
const extPrefix = "ext"

// ParseProducts decodes a catalog product CSV export. The header row
// drives column mapping, so exports with differing attribute sets all
// decode through the same path. Rows without a product ID are skipped.
func ParseProducts(r io.Reader) ([]*ProductRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read product header: %w", err)
	}

	var records []*ProductRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read product row %d: %w", line, err)
		}

		record := &ProductRecord{Attributes: make(map[string]string)}
		for i, column := range header {
			if i >= len(row) {
				break
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}

			switch column {
			case "productId":
				record.ProductID, _ = strconv.ParseInt(value, 10, 64)
			case "name":
				record.Name = value
			case "cleanName":
				record.CleanName = value
			case "groupId":
				record.GroupID, _ = strconv.ParseInt(value, 10, 64)
			case "categoryId":
				record.CategoryID, _ = strconv.ParseInt(value, 10, 64)
			case "imageUrl":
				record.ImageURL = value
			case "url":
				record.URL = value
			case "subTypeName":
				record.SubTypeName = value
			case "lowPrice":
				record.LowPrice, _ = strconv.ParseFloat(value, 64)
			case "midPrice":
				record.MidPrice, _ = strconv.ParseFloat(value, 64)
			case "highPrice":
				record.HighPrice, _ = strconv.ParseFloat(value, 64)
			case "marketPrice":
				record.MarketPrice, _ = strconv.ParseFloat(value, 64)
			default:
				if strings.HasPrefix(column, extPrefix) && len(column) > len(extPrefix) {
					record.Attributes[attributeName(column)] = value
				}
			}
		}

		if record.ProductID == 0 {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// ParseCategories decodes a category CSV export into category rows. Rows
// without a category ID are skipped.
func ParseCategories(r io.Reader) ([]*models.Category, error) {
	rows, header, err := readAll(r, "category")
	if err != nil || rows == nil {
		return nil, err
	}

	var categories []*models.Category
	for _, row := range rows {
		category := &models.Category{}
		for i, column := range header {
			if i >= len(row) {
				break
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			switch column {
			case "categoryId":
				category.ID, _ = strconv.ParseInt(value, 10, 64)
			case "name":
				category.Name = value
			case "displayName":
				category.DisplayName = value
			}
		}
		if category.ID == 0 {
			continue
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// ParseGroups decodes a group CSV export into group rows. Rows without a
// group ID are skipped; unparseable publish dates stay zero and land as
// NULL.
func ParseGroups(r io.Reader) ([]*models.Group, error) {
	rows, header, err := readAll(r, "group")
	if err != nil || rows == nil {
		return nil, err
	}

	var groups []*models.Group
	for _, row := range rows {
		group := &models.Group{}
		for i, column := range header {
			if i >= len(row) {
				break
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			switch column {
			case "groupId":
				group.ID, _ = strconv.ParseInt(value, 10, 64)
			case "name":
				group.Name = value
			case "abbreviation":
				group.Abbreviation = value
			case "categoryId":
				group.CategoryID, _ = strconv.ParseInt(value, 10, 64)
			case "publishedOn":
				group.PublishedOn = parseExportTime(value)
			}
		}
		if group.ID == 0 {
			continue
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// readAll reads the header row plus every data row of an export.
func readAll(r io.Reader, kind string) ([][]string, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read %s header: %w", kind, err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s rows: %w", kind, err)
	}
	return rows, header, nil
}

// Export timestamps come in either full or date-only form.
var exportTimeLayouts = []string{"2006-01-02T15:04:05", "2006-01-02"}

func parseExportTime(value string) time.Time {
	for _, layout := range exportTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// attributeName converts an export column like "extActivationEnergy" into
// the canonical attribute name "activation_energy".
func attributeName(column string) string {
	trimmed := column[len(extPrefix):]

	var b strings.Builder
	for i, r := range trimmed {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
