package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/ports"
)

var _ ports.ReferenceSource = (*XLSXSource)(nil)

// XLSXSource reads the reference tables from one workbook, one sheet per
// table. Sheet names match table names case-insensitively, with spaces
// accepted in place of underscores.
type XLSXSource struct {
	Path string
}

func NewXLSXSource(path string) *XLSXSource { return &XLSXSource{Path: path} }

func (s *XLSXSource) Load(ctx context.Context) (*domain.ReferenceData, domain.LoadReport, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, domain.LoadReport{}, &domain.DataLoadError{Table: "workbook", Source: s.Path, Err: err}
	}
	defer f.Close()

	sheets := make(map[string]string)
	for _, sheet := range f.GetSheetList() {
		sheets[normalizeHeader(sheet)] = sheet
	}

	tables := make(map[string]*Table, len(domain.ReferenceTables))
	for _, name := range domain.ReferenceTables {
		if err := ctx.Err(); err != nil {
			return nil, domain.LoadReport{}, fmt.Errorf("load xlsx reference: %w", err)
		}
		source := s.Path + "#" + name
		sheet, ok := sheets[name]
		if !ok {
			return nil, domain.LoadReport{}, &domain.DataLoadError{Table: name, Source: s.Path, Err: errors.New("sheet not found")}
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, domain.LoadReport{}, &domain.DataLoadError{Table: name, Source: source, Err: err}
		}
		if len(rows) == 0 {
			return nil, domain.LoadReport{}, &domain.DataLoadError{Table: name, Source: source, Err: errors.New("sheet is empty")}
		}
		tables[name] = &Table{Name: name, Source: source, Header: rows[0], Rows: padRows(rows[1:], len(rows[0]))}
	}
	return Build(tables)
}

// padRows extends short rows; excelize drops trailing empty cells.
func padRows(rows [][]string, width int) [][]string {
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows
}

// IsWorkbook reports whether path names an Excel workbook.
func IsWorkbook(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm")
}
