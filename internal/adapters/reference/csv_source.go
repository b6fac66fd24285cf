package reference

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/ports"
)

var _ ports.ReferenceSource = (*CSVSource)(nil)

// CSVSource reads <table>.csv files from one directory. Lines starting with
// '#' are comments.
type CSVSource struct {
	Dir string
}

func NewCSVSource(dir string) *CSVSource { return &CSVSource{Dir: dir} }

func (s *CSVSource) Load(ctx context.Context) (*domain.ReferenceData, domain.LoadReport, error) {
	tables := make(map[string]*Table, len(domain.ReferenceTables))
	for _, name := range domain.ReferenceTables {
		if err := ctx.Err(); err != nil {
			return nil, domain.LoadReport{}, fmt.Errorf("load csv reference: %w", err)
		}
		t, err := s.readTable(name)
		if err != nil {
			return nil, domain.LoadReport{}, err
		}
		tables[name] = t
	}
	return Build(tables)
}

func (s *CSVSource) readTable(name string) (*Table, error) {
	path := filepath.Join(s.Dir, name+".csv")
	loadErr := func(err error) error {
		return &domain.DataLoadError{Table: name, Source: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, loadErr(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, loadErr(errors.New("file is empty"))
	}
	if err != nil {
		return nil, loadErr(fmt.Errorf("read header: %w", err))
	}

	t := &Table{Name: name, Source: path, Header: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, loadErr(fmt.Errorf("malformed csv: %w", err))
		}
		line, _ := r.FieldPos(0)
		t.Rows = append(t.Rows, rec)
		t.Lines = append(t.Lines, line)
	}
	return t, nil
}
