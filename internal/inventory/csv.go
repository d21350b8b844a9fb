// internal/inventory/csv.go
package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadBooksCSV parses a seed file in the form
// ISBN,Title,Author,Weight,Value,Stock,Genre,Publisher,Year.
// The header row is required; trailing optional columns may be omitted.
func ReadBooksCSV(r io.Reader) ([]*Book, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var books []*Book
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}
		line++

		weight, _ := strconv.ParseFloat(field(row, "weight"), 64)
		value, _ := strconv.ParseFloat(field(row, "value"), 64)
		stock, err := strconv.Atoi(field(row, "stock"))
		if err != nil {
			stock = 1
		}
		year, _ := strconv.Atoi(field(row, "year"))

		b, err := NewBook(Book{
			ISBN:      field(row, "isbn"),
			Title:     field(row, "title"),
			Author:    field(row, "author"),
			WeightKg:  weight,
			Value:     value,
			Stock:     stock,
			Genre:     field(row, "genre"),
			Publisher: field(row, "publisher"),
			Year:      year,
		})
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", line, err)
		}
		books = append(books, b)
	}
	return books, nil
}
