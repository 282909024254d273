package analytics

// Heatmap color tokens, from no activity to the densest bucket.
const (
	ColorNone   = "#ebedf0"
	ColorLight  = "#9be9a8"
	ColorMedium = "#40c463"
	ColorDark   = "#216e39"
)

var palette = [...]string{ColorNone, ColorLight, ColorMedium, ColorDark}

// ColorFor maps a day's check-in count to its heatmap color.
// Counts are never negative in practice; anything below 1 is treated as empty.
func ColorFor(count int) string {
	switch {
	case count <= 0:
		return ColorNone
	case count <= 2:
		return ColorLight
	case count <= 4:
		return ColorMedium
	default:
		return ColorDark
	}
}

// Intensity returns the bucket index of a color token, 0 (empty) to 3
// (densest), or -1 for a token that is not part of the palette.
func Intensity(color string) int {
	for i, c := range palette {
		if c == color {
			return i
		}
	}
	return -1
}
