// Package units converts energy values between units (kcal, kJ, MJ) and
// composition values between dry-matter and as-fed bases.
package units

import (
	"fmt"
	"math"
)

// Unit is an energy unit token.
type Unit string

// Supported energy units.
const (
	Kcal Unit = "kcal"
	KJ   Unit = "kJ"
	MJ   Unit = "MJ"
)

// Conversion factors to kcal, the base unit of the equation catalog.
// 1 kcal = 4.184 kJ = 0.004184 MJ (thermochemical calorie, exact).
var toKcal = map[Unit]float64{
	Kcal: 1.0,
	KJ:   1.0 / 4.184,
	MJ:   1.0 / 0.004184,
}

// UnsupportedUnitError reports an unrecognized energy-unit token.
type UnsupportedUnitError struct {
	Unit Unit
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("unsupported energy unit %q (supported: kcal, kJ, MJ)", string(e.Unit))
}

// InvalidDryMatterPercentError reports a dry-matter percentage outside (0,100].
// A value outside that interval is physically meaningless and must not
// silently produce a result.
type InvalidDryMatterPercentError struct {
	Value float64
}

func (e *InvalidDryMatterPercentError) Error() string {
	return fmt.Sprintf("dry matter percent %.4g outside (0,100]", e.Value)
}

// Convert converts an energy value between units. Identity when from == to.
func Convert(value float64, from, to Unit) (float64, error) {
	if from == to {
		if _, ok := toKcal[from]; !ok {
			return 0, &UnsupportedUnitError{Unit: from}
		}
		return value, nil
	}
	fromFactor, ok := toKcal[from]
	if !ok {
		return 0, &UnsupportedUnitError{Unit: from}
	}
	toFactor, ok := toKcal[to]
	if !ok {
		return 0, &UnsupportedUnitError{Unit: to}
	}
	return value * fromFactor / toFactor, nil
}

// DMToAsFed converts a dry-matter-basis value to as-fed basis given the
// dry-matter percentage. The result is rounded to decimals exactly once,
// here at the conversion boundary, so chained conversions do not accumulate
// rounding error.
func DMToAsFed(valueDM, dmPct float64, decimals int) (float64, error) {
	if err := checkDMPct(dmPct); err != nil {
		return 0, err
	}
	return roundTo(valueDM*dmPct/100, decimals), nil
}

// AsFedToDM is the inverse of DMToAsFed.
func AsFedToDM(valueAsFed, dmPct float64, decimals int) (float64, error) {
	if err := checkDMPct(dmPct); err != nil {
		return 0, err
	}
	return roundTo(valueAsFed*100/dmPct, decimals), nil
}

func checkDMPct(dmPct float64) error {
	if math.IsNaN(dmPct) || dmPct <= 0 || dmPct > 100 {
		return &InvalidDryMatterPercentError{Value: dmPct}
	}
	return nil
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	m := math.Pow(10, float64(decimals))
	return math.Round(v*m) / m
}

// Round exposes decimal rounding for result packaging.
func Round(v float64, decimals int) float64 {
	return roundTo(v, decimals)
}
