package reference

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"shipment-emissions-service/internal/domain"
)

// WriteWorkbook exports ref as a workbook XLSXSource can read back.
func WriteWorkbook(path string, ref *domain.ReferenceData) error {
	f := excelize.NewFile()
	defer f.Close()

	num := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	var emissions, specs [][]string
	for _, v := range ref.Vehicles() {
		emissions = append(emissions, []string{v.VehicleType, num(v.Co2ePerKmPerKg)})
		rng := ""
		if v.MaxRangeKm != nil {
			rng = num(*v.MaxRangeKm)
		}
		specs = append(specs, []string{v.VehicleType, num(v.MaxCapacityKg), rng})
	}
	var materials [][]string
	for _, m := range ref.Materials() {
		materials = append(materials, []string{m.MaterialName, num(m.Co2ePerKg), strings.Join(m.Aliases, "|")})
	}
	var waste [][]string
	for _, w := range ref.WasteMethods() {
		waste = append(waste, []string{w.DisposalMethod, num(w.Co2ePerKg)})
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{domain.TableVehicleEmissions, []string{ColVehicleType, ColCo2ePerKmPerKg}, emissions},
		{domain.TableVehicleSpecs, []string{ColVehicleType, ColMaxCapacityKg, ColMaxRangeKm}, specs},
		{domain.TableMaterials, []string{ColMaterial, ColCo2ePerKg, ColAliases}, materials},
		{domain.TableWasteDisposal, []string{ColDisposalMethod, ColCo2ePerKg}, waste},
	}
	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return fmt.Errorf("write workbook: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("write workbook: add sheet %s: %w", sh.name, err)
		}
		if err := writeRow(f, sh.name, 1, sh.header); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		for r, row := range sh.rows {
			if err := writeRow(f, sh.name, r+2, row); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook: save %q: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	vals := make([]any, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	return f.SetSheetRow(sheet, cell, &vals)
}
