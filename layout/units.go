package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe helpers for page pixels, points and millimeters.

// Unit represents the original unit of a length value as written in config.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as pixels
	UnitPX               // raster pixels
	UnitPT               // points
	UnitMM               // millimeters
	UnitIN               // inches
)

// RasterDPI is the pixel density of the page raster. At 72 DPI one point is one pixel,
// so a 30pt handwriting face has a 30px em.
const RasterDPI = 72.0

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitIN:
		return "in"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// inches converts the length to inches; unit-less values count as pixels.
func (l Length) inches() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value / 72
	case UnitMM:
		return l.Value / 25.4
	case UnitIN:
		return l.Value
	default:
		return l.Value / RasterDPI
	}
}

// To converts this length to the target unit.
func (l Length) To(target Unit) float64 {
	if l.Unit == target {
		return l.Value
	}
	in := l.inches()
	switch target {
	case UnitPT:
		return in * 72
	case UnitMM:
		return in * 25.4
	case UnitIN:
		return in
	default:
		return in * RasterDPI
	}
}

func (l Length) ToPX() float64 { return l.To(UnitPX) }

// String 以配置文件中的写法输出，例如 "30px"。
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses a length string such as "30px", "22.5pt" or "10mm".
// A bare number keeps UnitNone and is later read as pixels.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	unit := UnitNone
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"in", UnitIN}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}
