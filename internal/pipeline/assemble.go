package pipeline

import (
	"github.com/partscout/datasheet-search/internal/model"
)

// Assemble builds the response table: one product per sheet, one value per
// verified field. Values are copied byte-for-byte from the extracted specs;
// a sheet without a resolved key for a field gets the missing-value sentinel.
func Assemble(fields []model.VerifiedField, sheets []model.SpecSheet) []model.Product {
	products := make([]model.Product, 0, len(sheets))

	for i, s := range sheets {
		p := model.Product{
			URL:          s.URL,
			Manufacturer: s.Manufacturer,
			ProductName:  s.ProductName,
			Specs:        make(map[string]string, len(fields)),
		}
		for _, f := range fields {
			key, ok := f.DocKeys[i]
			if !ok {
				p.Specs[f.DisplayName] = model.MissingValue
				continue
			}
			value, ok := s.Specs[key]
			if !ok {
				p.Specs[f.DisplayName] = model.MissingValue
				continue
			}
			p.Specs[f.DisplayName] = value
		}
		products = append(products, p)
	}

	return products
}

// SpecColumns returns the display names of the verified fields in rank order.
func SpecColumns(fields []model.VerifiedField) []string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.DisplayName
	}
	return cols
}
