package wbf

import "fmt"

// TemperatureRange is a half-open Celsius interval [Lower, Upper)
type TemperatureRange struct {
	Lower uint8
	Upper uint8
}

// Contains reports whether celsius falls inside the range
func (r TemperatureRange) Contains(celsius int) bool {
	return celsius >= int(r.Lower) && celsius < int(r.Upper)
}

// String returns the range in interval notation
func (r TemperatureRange) String() string {
	return fmt.Sprintf("[%d, %d) °C", r.Lower, r.Upper)
}

// parseTemperatureRanges reads TRC+2 boundaries directly after the fixed header
func parseTemperatureRanges(data []byte, h *Header) ([]TemperatureRange, error) {
	count := h.RangeCount()
	end := TemperatureTableOffset + count + 1
	if end > len(data) {
		return nil, newTruncated("temperature table", TemperatureTableOffset, end, len(data))
	}

	bounds := data[TemperatureTableOffset:end]
	ranges := make([]TemperatureRange, count)
	for i := range ranges {
		ranges[i] = TemperatureRange{Lower: bounds[i], Upper: bounds[i+1]}
	}
	return ranges, nil
}

// RangeFor returns the index of the first range containing celsius.
// Ranges are searched in file order, never sorted.
func RangeFor(ranges []TemperatureRange, celsius int) (int, bool) {
	for i, r := range ranges {
		if r.Contains(celsius) {
			return i, true
		}
	}
	return -1, false
}
