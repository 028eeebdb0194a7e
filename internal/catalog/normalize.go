package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// NormalizeKind names a normalization rule in the strategy table. Using a
// closed table instead of per-field switch statements means a typo in a
// fixture fails at load, not silently at extraction time.
type NormalizeKind string

const (
	NormalizeTrim   NormalizeKind = "trim"   // trim surrounding whitespace
	NormalizeArea   NormalizeKind = "area"   // strip thousands separators, append ㎡
	NormalizeRatio  NormalizeKind = "ratio"  // convert fraction ratios to %
	NormalizeFloors NormalizeKind = "floors" // canonical 地上N階/地下M階 phrasing
	NormalizeNumber NormalizeKind = "number" // strip thousands separators
)

var normalizers = map[NormalizeKind]func(string) string{
	NormalizeTrim:   strings.TrimSpace,
	NormalizeArea:   normalizeArea,
	NormalizeRatio:  normalizeRatio,
	NormalizeFloors: normalizeFloors,
	NormalizeNumber: normalizeNumber,
}

// Apply runs the field's normalization rule over a raw captured value.
// Empty input stays empty.
func (f *FieldSpec) Apply(raw string) string {
	if raw == "" {
		return ""
	}
	return normalizers[f.Normalize](raw)
}

func normalizeNumber(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
}

func normalizeArea(raw string) string {
	return normalizeNumber(raw) + "㎡"
}

// normalizeRatio converts "60" to "60%" and fraction forms like "6/10" to
// their percentage.
func normalizeRatio(raw string) string {
	raw = strings.TrimSpace(raw)
	if num, den, ok := strings.Cut(raw, "/"); ok {
		n, errN := strconv.Atoi(strings.TrimSpace(num))
		d, errD := strconv.Atoi(strings.TrimSpace(den))
		if errN == nil && errD == nil && d != 0 {
			return strconv.Itoa(int(math.Round(float64(n)/float64(d)*100))) + "%"
		}
	}
	return raw + "%"
}

var floorDigits = regexp.MustCompile(`\d+`)

// normalizeFloors canonicalizes floor-count phrasing. The first number is
// the above-ground count, the second (if any) below-ground:
// "地上10階地下2階" → "地上10階/地下2階", "10階建" → "地上10階".
func normalizeFloors(raw string) string {
	nums := floorDigits.FindAllString(raw, 2)
	if len(nums) == 0 {
		return strings.TrimSpace(raw)
	}
	above := nums[0]
	below := "0"
	if len(nums) > 1 {
		below = nums[1]
	}
	if below != "0" {
		return "地上" + above + "階/地下" + below + "階"
	}
	return "地上" + above + "階"
}
