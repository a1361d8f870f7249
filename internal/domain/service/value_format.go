package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MissingValue is the sentinel statistical APIs use for an absent observation.
const MissingValue = "."

// ValueKind selects how a raw observation is turned into a display value.
type ValueKind string

const (
	KindLevel     ValueKind = "level"
	KindPctChange ValueKind = "pct_change"
	KindChange    ValueKind = "change"
)

// Unit suffixes. M and B assume the series is reported one step lower
// (thousands, millions) and divide by 1000.
const (
	UnitNone      = ""
	UnitPercent   = "%"
	UnitThousands = "K"
	UnitMillions  = "M"
	UnitBillions  = "B"
)

// UnitPolicy describes the display convention of one series.
type UnitPolicy struct {
	Kind ValueKind
	Unit string
}

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
)

// FormatValue converts a raw observation into a display string.
// It returns nil for missing or unparsable input, and for change policies
// without a usable previous value.
func FormatValue(raw, previous string, policy UnitPolicy) *string {
	v, ok := parseObservation(raw)
	if !ok {
		return nil
	}

	var out string
	switch policy.Kind {
	case KindLevel, "":
		v, unit := scale(v, policy.Unit)
		out = v.StringFixed(1) + unit

	case KindPctChange:
		prev, ok := parseObservation(previous)
		if !ok || prev.IsZero() {
			return nil
		}
		pct := v.Sub(prev).Div(prev.Abs()).Mul(hundred)
		out = signed(pct, 1) + UnitPercent

	case KindChange:
		prev, ok := parseObservation(previous)
		if !ok {
			return nil
		}
		diff, unit := scale(v.Sub(prev), policy.Unit)
		places := int32(1)
		if unit == UnitThousands {
			places = 0
		}
		out = signed(diff, places) + unit

	default:
		return nil
	}
	return &out
}

func parseObservation(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == MissingValue {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func scale(v decimal.Decimal, unit string) (decimal.Decimal, string) {
	switch unit {
	case UnitMillions, UnitBillions:
		return v.Div(thousand), unit
	}
	return v, unit
}

// signed renders v with an explicit plus sign for positive values.
func signed(v decimal.Decimal, places int32) string {
	s := v.StringFixed(places)
	if v.Round(places).IsPositive() {
		return "+" + s
	}
	if strings.HasPrefix(s, "-") && decimal.RequireFromString(s).IsZero() {
		return s[1:]
	}
	return s
}
