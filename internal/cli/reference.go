package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shipment-emissions-service/internal/adapters/reference"
	"shipment-emissions-service/internal/api/dto"
	"shipment-emissions-service/internal/domain"
)

func newReferenceCommand(root *rootOptions) *cobra.Command {
	var (
		asJSON     bool
		exportPath string
	)
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Show the loaded emission factor tables and any skipped rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.loadApp(cmd, oneShot)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			if exportPath != "" {
				if err := reference.WriteWorkbook(exportPath, a.Reference); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportPath)
				return nil
			}

			policy := a.Calculator.Policy()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dto.NewReferenceResponse(a.Reference, a.Report, dto.DefaultsResponse{
					Material:       policy.DefaultMaterial,
					DisposalMethod: policy.DefaultDisposalMethod,
				}))
			}
			return printReference(cmd.OutOrStdout(), a.Reference, a.Report)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tables as JSON")
	cmd.Flags().StringVar(&exportPath, "export", "", "write the tables to an .xlsx workbook instead of printing")
	return cmd
}

func printReference(out io.Writer, ref *domain.ReferenceData, report domain.LoadReport) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "VEHICLE\tCO2E/KM/KG\tCAPACITY (KG)\tRANGE (KM)")
	for _, v := range ref.Vehicles() {
		rng := "unlimited"
		if v.MaxRangeKm != nil {
			rng = fmt.Sprintf("%g", *v.MaxRangeKm)
		}
		fmt.Fprintf(tw, "%s\t%g\t%g\t%s\n", v.VehicleType, v.Co2ePerKmPerKg, v.MaxCapacityKg, rng)
	}
	fmt.Fprintln(tw, "\t")

	fmt.Fprintln(tw, "MATERIAL\tCO2E/KG")
	for _, m := range ref.Materials() {
		fmt.Fprintf(tw, "%s\t%g\n", m.MaterialName, m.Co2ePerKg)
	}
	fmt.Fprintln(tw, "\t")

	fmt.Fprintln(tw, "DISPOSAL METHOD\tCO2E/KG")
	for _, w := range ref.WasteMethods() {
		fmt.Fprintf(tw, "%s\t%g\n", w.DisposalMethod, w.Co2ePerKg)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintf(out, "\nSkipped %d row(s):\n", len(report.Skipped))
		for _, s := range report.Skipped {
			fmt.Fprintf(out, "  %s\n", s.Error())
		}
	}
	return nil
}
