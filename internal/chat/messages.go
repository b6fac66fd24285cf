package chat

import (
	"fmt"
	"strings"

	"shipment-emissions-service/internal/domain"
)

const welcomeMessage = `Hello! I'm your Carbon Footprint Assistant. I can help you:
1. Calculate shipping emissions
2. Find eco-friendly packaging options
3. Get sustainability recommendations

Would you like to calculate emissions for a shipment? (yes/no)`

const (
	notReadyMessage      = "I understand. When you're ready to calculate shipping emissions, just say 'start'."
	originPrompt         = "Great! Let's start with the origin location. Please enter a city name or coordinates (latitude,longitude):"
	locationRetryPrompt  = "I couldn't find that location. Please try entering a different city name or coordinates (like '51.5074,-0.1278'):"
	weightRetryPrompt    = "Please enter a valid number for the weight in kg:"
	weightPositivePrompt = "The weight must be greater than 0. Please enter a valid weight in kg:"
	goodbyeMessage       = "Thank you for using the Carbon Footprint Calculator! Have a great day!"
)

const optionsMenu = `Would you like to:
1. Calculate another shipment
2. Get eco-friendly recommendations
3. End conversation`

func materialMenu(materials []domain.MaterialFactor, intro string) string {
	var b strings.Builder
	b.WriteString(intro)
	b.WriteString(" Choose from:\n")
	for i, m := range materials {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.MaterialName)
	}
	b.WriteString("\nEnter the number or material name:")
	return b.String()
}

func formatResults(res *domain.EmissionsResult, speedKmh float64) string {
	hours, minutes := driveTime(res.DistanceKm, speedKmh)

	var b strings.Builder
	b.WriteString("Emission Calculation Results:\n\n")
	b.WriteString("Route Information:\n")
	fmt.Fprintf(&b, "  - Distance: %.2f km\n", res.DistanceKm)
	fmt.Fprintf(&b, "  - Estimated Time: %dh %dm\n\n", hours, minutes)
	fmt.Fprintf(&b, "Recommended Vehicle: %s\n", res.SelectedVehicle)
	fmt.Fprintf(&b, "Packaging Material: %s\n", res.Material)
	fmt.Fprintf(&b, "Total CO2e: %.2f kg\n\n", res.TotalCo2e)
	b.WriteString("Breakdown:\n")
	fmt.Fprintf(&b, "  Transport: %.2f kg CO2e\n", res.TransportCo2e)
	fmt.Fprintf(&b, "  Packaging: %.2f kg CO2e\n", res.PackagingCo2e)
	fmt.Fprintf(&b, "  Waste (%s): %.2f kg CO2e\n\n", res.DisposalMethod, res.WasteCo2e)
	b.WriteString(optionsMenu)
	return b.String()
}

// driveTime converts distance at speedKmh into whole hours and minutes.
func driveTime(distanceKm, speedKmh float64) (int, int) {
	if speedKmh <= 0 {
		return 0, 0
	}
	total := int(distanceKm / speedKmh * 60)
	return total / 60, total % 60
}

func formatRecommendations(last *domain.EmissionsResult, weightKg float64, materials []domain.MaterialFactor) string {
	var b strings.Builder
	b.WriteString("Eco-Friendly Recommendations:\n\n")

	if last != nil {
		var best *domain.MaterialFactor
		for i := range materials {
			m := &materials[i]
			if m.Co2ePerKg*weightKg < last.PackagingCo2e && (best == nil || m.Co2ePerKg < best.Co2ePerKg) {
				best = m
			}
		}
		if best != nil {
			fmt.Fprintf(&b, "For this shipment, switching packaging from %s to %s would cut packaging emissions from %.2f to %.2f kg CO2e.\n\n",
				last.Material, best.MaterialName, last.PackagingCo2e, best.Co2ePerKg*weightKg)
		} else {
			fmt.Fprintf(&b, "%s is already the lowest-emission packaging material available.\n\n", last.Material)
		}
	}

	b.WriteString(`1. Packaging Tips:
  - Use recycled cardboard when possible
  - Minimize void space in packages
  - Choose appropriate box sizes

2. Transport Options:
  - Consider consolidating shipments
  - Use electric vehicles for short distances
  - Plan routes efficiently

3. General Tips:
  - Track and offset carbon emissions
  - Use local distribution centers
  - Implement reverse logistics

`)
	b.WriteString(optionsMenu)
	return b.String()
}
