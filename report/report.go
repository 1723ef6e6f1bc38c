// Package report builds a spreadsheet of recent prices from the series the
// intro tutorial created, and stores it as a blob.
package report

import (
	"context"
	"sort"

	tutorial "github.com/jgrabenstein/RaptureTutorials"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the content type reports are stored with.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the name of the worksheet holding the prices.
const SheetName = "Prices"

// Column is the recent points of one index.
type Column struct {
	IndexID string
	Points  []tutorial.SeriesPoint
}

// Last returns the last n points of pts, or all of them if there are fewer.
func Last(pts []tutorial.SeriesPoint, n int) []tutorial.SeriesPoint {
	if n <= 0 || len(pts) <= n {
		return pts
	}
	return pts[len(pts)-n:]
}

// Read fetches the last n points of each index's series. Series are named
// the way the docToSeries step names them, under repo.
func Read(ctx context.Context, r tutorial.SeriesReader, repo tutorial.URI, doc *tutorial.Document, priceType string, indexIDs []string, n int) ([]Column, error) {
	cols := make([]Column, 0, len(indexIDs))
	for _, id := range indexIDs {
		series := repo.Join(doc.SeriesPath(id, priceType)).String()
		pts, err := r.Points(ctx, series)
		if err != nil {
			return nil, errors.Wrapf(err, "reading series %s", series)
		}
		cols = append(cols, Column{IndexID: id, Points: Last(pts, n)})
	}
	return cols, nil
}

// Workbook lays cols out as a table with one row per date and one column per
// index. Dates missing from an index are left blank.
func Workbook(cols []Column) (*excelize.File, error) {
	dates := make(map[string]map[string]float64)
	for _, c := range cols {
		for _, p := range c.Points {
			row, ok := dates[p.Column]
			if !ok {
				row = make(map[string]float64)
				dates[p.Column] = row
			}
			row[c.IndexID] = p.Value
		}
	}
	keys := make([]string, 0, len(dates))
	for d := range dates {
		keys = append(keys, d)
	}
	sort.Strings(keys)

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "naming sheet")
	}
	header := []interface{}{"date"}
	for _, c := range cols {
		header = append(header, c.IndexID)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "writing header")
	}
	for i, d := range keys {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []interface{}{d}
		for _, c := range cols {
			if v, ok := dates[d][c.IndexID]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "writing row %s", d)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 12); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "sizing date column")
	}
	return f, nil
}

// Encode returns the xlsx bytes of f.
func Encode(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf.Bytes(), nil
}
