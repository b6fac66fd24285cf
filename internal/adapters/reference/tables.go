// Package reference loads emission factor tables from flat files and turns
// raw rows into validated domain.ReferenceData.
package reference

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"shipment-emissions-service/internal/domain"
)

// Column names, matched after normalizing headers (see normalizeHeader).
const (
	ColVehicleType    = "vehicle_type"
	ColCo2ePerKmPerKg = "co2e_per_km_per_kg"
	ColMaxCapacityKg  = "max_capacity_kg"
	ColMaxRangeKm     = "max_range_km"
	ColMaterial       = "material"
	ColCo2ePerKg      = "co2e_per_kg"
	ColAliases        = "aliases"
	ColDisposalMethod = "disposal_method"
)

var requiredColumns = map[string][]string{
	domain.TableVehicleEmissions: {ColVehicleType, ColCo2ePerKmPerKg},
	domain.TableVehicleSpecs:     {ColVehicleType, ColMaxCapacityKg},
	domain.TableMaterials:        {ColMaterial, ColCo2ePerKg},
	domain.TableWasteDisposal:    {ColDisposalMethod, ColCo2ePerKg},
}

// Table is one reference table as raw cells. Skip reports number row i of
// Rows as Lines[i] when set, else FirstLine+i, else i+2 (one header line).
type Table struct {
	Name      string
	Source    string
	Header    []string
	Rows      [][]string
	Lines     []int
	FirstLine int

	index map[string]int
}

func (t *Table) dataLoadError(err error) *domain.DataLoadError {
	return &domain.DataLoadError{Table: t.Name, Source: t.Source, Err: err}
}

func (t *Table) indexHeader() error {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := t.index[key]; dup {
			return t.dataLoadError(fmt.Errorf("duplicate column %q", key))
		}
		t.index[key] = i
	}
	var missing []string
	for _, col := range requiredColumns[t.Name] {
		if _, ok := t.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return t.dataLoadError(fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", ")))
	}
	return nil
}

func (t *Table) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *Table) line(i int) int {
	switch {
	case i < len(t.Lines):
		return t.Lines[i]
	case t.FirstLine > 0:
		return t.FirstLine + i
	default:
		return i + 2
	}
}

func (t *Table) blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// parseFactor returns a reason when raw is not a usable non-negative number.
func parseFactor(raw string) (float64, string) {
	if raw == "" {
		return 0, "missing value"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Sprintf("non-numeric value %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Sprintf("non-finite value %q", raw)
	}
	if v < 0 {
		return 0, fmt.Sprintf("negative value %v", v)
	}
	return v, ""
}

// Build validates the four tables and assembles the reference data. Bad rows
// are recorded in the report and skipped; a table that is absent, lacks a
// required column or keeps no valid rows fails the whole load.
func Build(tables map[string]*Table) (*domain.ReferenceData, domain.LoadReport, error) {
	var report domain.LoadReport

	for _, name := range domain.ReferenceTables {
		t, ok := tables[name]
		if !ok || t == nil {
			return nil, report, &domain.DataLoadError{Table: name, Err: errors.New("table not found")}
		}
		t.Name = name
		if err := t.indexHeader(); err != nil {
			return nil, report, err
		}
	}

	vehicles, err := buildVehicles(tables[domain.TableVehicleEmissions], tables[domain.TableVehicleSpecs], &report)
	if err != nil {
		return nil, report, err
	}
	materials, err := buildMaterials(tables[domain.TableMaterials], &report)
	if err != nil {
		return nil, report, err
	}
	waste, err := buildWaste(tables[domain.TableWasteDisposal], &report)
	if err != nil {
		return nil, report, err
	}

	ref, err := domain.NewReferenceData(vehicles, materials, waste)
	if err != nil {
		return nil, report, &domain.DataLoadError{Table: "reference", Err: err}
	}
	return ref, report, nil
}

type keyedRow struct {
	line int
	name string
}

func buildVehicles(emissions, specs *Table, report *domain.LoadReport) ([]domain.VehicleEmissionFactor, error) {
	factors := make(map[string]float64)
	var order []keyedRow
	for i, row := range emissions.Rows {
		if emissions.blank(row) {
			continue
		}
		line := emissions.line(i)
		name := emissions.cell(row, ColVehicleType)
		if name == "" {
			report.Skip(emissions.Name, line, "", "empty vehicle type")
			continue
		}
		key := domain.NormalizeKey(name)
		if _, dup := factors[key]; dup {
			report.Skip(emissions.Name, line, name, "duplicate vehicle type")
			continue
		}
		v, reason := parseFactor(emissions.cell(row, ColCo2ePerKmPerKg))
		if reason != "" {
			report.Skip(emissions.Name, line, name, ColCo2ePerKmPerKg+": "+reason)
			continue
		}
		factors[key] = v
		order = append(order, keyedRow{line: line, name: name})
	}

	type spec struct {
		line     int
		name     string
		capacity float64
		rng      *float64
	}
	specByKey := make(map[string]spec)
	var specOrder []string
	for i, row := range specs.Rows {
		if specs.blank(row) {
			continue
		}
		line := specs.line(i)
		name := specs.cell(row, ColVehicleType)
		if name == "" {
			report.Skip(specs.Name, line, "", "empty vehicle type")
			continue
		}
		key := domain.NormalizeKey(name)
		if _, dup := specByKey[key]; dup {
			report.Skip(specs.Name, line, name, "duplicate vehicle type")
			continue
		}
		capacity, reason := parseFactor(specs.cell(row, ColMaxCapacityKg))
		if reason == "" && capacity == 0 {
			reason = "must be positive"
		}
		if reason != "" {
			report.Skip(specs.Name, line, name, ColMaxCapacityKg+": "+reason)
			continue
		}
		var rng *float64
		if raw := specs.cell(row, ColMaxRangeKm); raw != "" {
			r, reason := parseFactor(raw)
			if reason != "" {
				report.Skip(specs.Name, line, name, ColMaxRangeKm+": "+reason)
				continue
			}
			rng = &r
		}
		specByKey[key] = spec{line: line, name: name, capacity: capacity, rng: rng}
		specOrder = append(specOrder, key)
	}

	vehicles := make([]domain.VehicleEmissionFactor, 0, len(order))
	matched := make(map[string]bool, len(order))
	for _, r := range order {
		key := domain.NormalizeKey(r.name)
		s, ok := specByKey[key]
		if !ok {
			report.Skip(emissions.Name, r.line, r.name, "no matching "+specs.Name+" row")
			continue
		}
		matched[key] = true
		vehicles = append(vehicles, domain.VehicleEmissionFactor{
			VehicleType:    r.name,
			Co2ePerKmPerKg: factors[key],
			MaxCapacityKg:  s.capacity,
			MaxRangeKm:     s.rng,
		})
	}
	for _, key := range specOrder {
		if !matched[key] {
			s := specByKey[key]
			report.Skip(specs.Name, s.line, s.name, "no matching "+emissions.Name+" row")
		}
	}

	if len(vehicles) == 0 {
		return nil, emissions.dataLoadError(errors.New("no valid vehicle rows"))
	}
	return vehicles, nil
}

func buildMaterials(t *Table, report *domain.LoadReport) ([]domain.MaterialFactor, error) {
	seen := make(map[string]struct{})
	var out []domain.MaterialFactor
	for i, row := range t.Rows {
		if t.blank(row) {
			continue
		}
		line := t.line(i)
		name := t.cell(row, ColMaterial)
		if name == "" {
			report.Skip(t.Name, line, "", "empty material name")
			continue
		}
		key := domain.NormalizeKey(name)
		if _, dup := seen[key]; dup {
			report.Skip(t.Name, line, name, "duplicate material")
			continue
		}
		v, reason := parseFactor(t.cell(row, ColCo2ePerKg))
		if reason != "" {
			report.Skip(t.Name, line, name, ColCo2ePerKg+": "+reason)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.MaterialFactor{
			MaterialName: name,
			Co2ePerKg:    v,
			Aliases:      splitAliases(t.cell(row, ColAliases)),
		})
	}
	if len(out) == 0 {
		return nil, t.dataLoadError(errors.New("no valid material rows"))
	}
	return out, nil
}

func buildWaste(t *Table, report *domain.LoadReport) ([]domain.WasteFactor, error) {
	seen := make(map[string]struct{})
	var out []domain.WasteFactor
	for i, row := range t.Rows {
		if t.blank(row) {
			continue
		}
		line := t.line(i)
		name := t.cell(row, ColDisposalMethod)
		if name == "" {
			report.Skip(t.Name, line, "", "empty disposal method")
			continue
		}
		key := domain.NormalizeKey(name)
		if _, dup := seen[key]; dup {
			report.Skip(t.Name, line, name, "duplicate disposal method")
			continue
		}
		v, reason := parseFactor(t.cell(row, ColCo2ePerKg))
		if reason != "" {
			report.Skip(t.Name, line, name, ColCo2ePerKg+": "+reason)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.WasteFactor{DisposalMethod: name, Co2ePerKg: v})
	}
	if len(out) == 0 {
		return nil, t.dataLoadError(errors.New("no valid disposal rows"))
	}
	return out, nil
}

func splitAliases(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, a := range strings.Split(raw, "|") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
