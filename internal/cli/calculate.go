package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shipment-emissions-service/internal/api/dto"
	"shipment-emissions-service/internal/domain"
	"shipment-emissions-service/internal/services"
)

type calculateOptions struct {
	origin      string
	destination string
	weightKg    float64
	material    string
	disposal    string
	asJSON      bool
}

func newCalculateCommand(root *rootOptions) *cobra.Command {
	opts := &calculateOptions{}
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Recommend a vehicle and total CO2e for one shipment",
		Example: `  emissions calculate --origin "51.5074,-0.1278" --destination "48.8566,2.3522" --weight 100
  emissions calculate --origin London --destination Paris --weight 250 --material Plastic --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.origin, "origin", "", `origin as "lat,lon" or a place name`)
	f.StringVar(&opts.destination, "destination", "", `destination as "lat,lon" or a place name`)
	f.Float64Var(&opts.weightKg, "weight", 0, "shipment weight in kg")
	f.StringVar(&opts.material, "material", "", "packaging material (defaults.material when empty)")
	f.StringVar(&opts.disposal, "disposal", "", "disposal method (defaults.disposal_method when empty)")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("origin")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}

func runCalculate(cmd *cobra.Command, root *rootOptions, opts *calculateOptions) error {
	a, err := root.loadApp(cmd, oneShot)
	if err != nil {
		return err
	}
	defer closeApp(cmd, a)

	ctx := commandContext(cmd)
	origin, err := services.ResolveLocation(ctx, a.Geocoder, "origin", opts.origin)
	if err != nil {
		return err
	}
	dest, err := services.ResolveLocation(ctx, a.Geocoder, "destination", opts.destination)
	if err != nil {
		return err
	}

	res, err := a.Calculator.Calculate(ctx, domain.ShipmentRequest{
		Origin:         origin,
		Destination:    dest,
		WeightKg:       opts.weightKg,
		Material:       opts.material,
		DisposalMethod: opts.disposal,
	})
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewCalculationResponse(res))
	}
	return printResult(cmd.OutOrStdout(), res)
}

func printResult(out io.Writer, res *domain.EmissionsResult) error {
	fmt.Fprintln(out, "Carbon Footprint Analysis")
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Category\tValue")
	fmt.Fprintf(tw, "Recommended Vehicle\t%s\n", res.SelectedVehicle)
	fmt.Fprintf(tw, "Packaging Material\t%s\n", res.Material)
	fmt.Fprintf(tw, "Disposal Method\t%s\n", res.DisposalMethod)
	fmt.Fprintf(tw, "Distance (km)\t%.2f\n", res.DistanceKm)
	fmt.Fprintf(tw, "Total CO2e (kg)\t%.2f\n", res.TotalCo2e)
	fmt.Fprintln(tw, "\t")
	fmt.Fprintf(tw, "Transport Emissions\t%.2f kg CO2e\n", res.TransportCo2e)
	fmt.Fprintf(tw, "Packaging Emissions\t%.2f kg CO2e\n", res.PackagingCo2e)
	fmt.Fprintf(tw, "Waste Emissions\t%.2f kg CO2e\n", res.WasteCo2e)
	return tw.Flush()
}
