package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ReferenceData holds the read-only lookup tables used by every calculation.
// It is built once and never mutated, so it is safe to share across goroutines.
//
// Names are matched case-insensitively with whitespace collapsed. Material aliases
// never shadow a primary material name.
type ReferenceData struct {
	vehicles     []VehicleEmissionFactor
	materials    map[string]MaterialFactor
	materialKeys map[string]string
	waste        map[string]WasteFactor
}

func NewReferenceData(
	vehicles []VehicleEmissionFactor,
	materials []MaterialFactor,
	waste []WasteFactor,
) (*ReferenceData, error) {
	if len(vehicles) == 0 {
		return nil, errors.New("reference data: vehicle table is empty")
	}
	if len(materials) == 0 {
		return nil, errors.New("reference data: material table is empty")
	}
	if len(waste) == 0 {
		return nil, errors.New("reference data: waste table is empty")
	}

	ref := &ReferenceData{
		vehicles:     make([]VehicleEmissionFactor, 0, len(vehicles)),
		materials:    make(map[string]MaterialFactor, len(materials)),
		materialKeys: make(map[string]string, len(materials)),
		waste:        make(map[string]WasteFactor, len(waste)),
	}

	seenVehicles := make(map[string]struct{}, len(vehicles))
	for _, v := range vehicles {
		k := NormalizeKey(v.VehicleType)
		if k == "" {
			return nil, errors.New("reference data: vehicle with empty type")
		}
		if _, ok := seenVehicles[k]; ok {
			return nil, fmt.Errorf("reference data: duplicate vehicle %q", v.VehicleType)
		}
		seenVehicles[k] = struct{}{}
		if v.MaxRangeKm != nil {
			r := *v.MaxRangeKm
			v.MaxRangeKm = &r
		}
		ref.vehicles = append(ref.vehicles, v)
	}

	for _, m := range materials {
		k := NormalizeKey(m.MaterialName)
		if k == "" {
			return nil, errors.New("reference data: material with empty name")
		}
		if _, ok := ref.materials[k]; ok {
			return nil, fmt.Errorf("reference data: duplicate material %q", m.MaterialName)
		}
		m.Aliases = slices.Clone(m.Aliases)
		ref.materials[k] = m
		ref.materialKeys[k] = k
	}
	// Aliases resolve after every primary name is known; first alias wins on collision.
	for _, m := range materials {
		primary := NormalizeKey(m.MaterialName)
		for _, a := range m.Aliases {
			ak := NormalizeKey(a)
			if ak == "" {
				continue
			}
			if _, taken := ref.materialKeys[ak]; taken {
				continue
			}
			ref.materialKeys[ak] = primary
		}
	}

	for _, w := range waste {
		k := NormalizeKey(w.DisposalMethod)
		if k == "" {
			return nil, errors.New("reference data: disposal method with empty name")
		}
		if _, ok := ref.waste[k]; ok {
			return nil, fmt.Errorf("reference data: duplicate disposal method %q", w.DisposalMethod)
		}
		ref.waste[k] = w
	}

	return ref, nil
}

// NormalizeKey collapses whitespace and lower-cases a lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Vehicles returns a copy of the vehicle table in load order.
func (r *ReferenceData) Vehicles() []VehicleEmissionFactor {
	out := make([]VehicleEmissionFactor, len(r.vehicles))
	copy(out, r.vehicles)
	for i := range out {
		if out[i].MaxRangeKm != nil {
			rng := *out[i].MaxRangeKm
			out[i].MaxRangeKm = &rng
		}
	}
	return out
}

// Material resolves a material by name or alias.
func (r *ReferenceData) Material(name string) (MaterialFactor, error) {
	primary, ok := r.materialKeys[NormalizeKey(name)]
	if !ok {
		return MaterialFactor{}, &UnknownMaterialError{Material: name}
	}
	m := r.materials[primary]
	m.Aliases = slices.Clone(m.Aliases)
	return m, nil
}

func (r *ReferenceData) WasteMethod(name string) (WasteFactor, error) {
	w, ok := r.waste[NormalizeKey(name)]
	if !ok {
		return WasteFactor{}, &UnknownDisposalMethodError{Method: name}
	}
	return w, nil
}

// Materials returns all materials sorted by name.
func (r *ReferenceData) Materials() []MaterialFactor {
	out := make([]MaterialFactor, 0, len(r.materials))
	for _, m := range r.materials {
		m.Aliases = slices.Clone(m.Aliases)
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b MaterialFactor) int {
		return strings.Compare(a.MaterialName, b.MaterialName)
	})
	return out
}

// WasteMethods returns all disposal methods sorted by name.
func (r *ReferenceData) WasteMethods() []WasteFactor {
	out := make([]WasteFactor, 0, len(r.waste))
	for _, w := range r.waste {
		out = append(out, w)
	}
	slices.SortFunc(out, func(a, b WasteFactor) int {
		return strings.Compare(a.DisposalMethod, b.DisposalMethod)
	})
	return out
}
