package imagery

import (
	"fmt"
	"image"
	"strings"
	"time"
)

// Full-disk imagery is published as a fixed grid of tiles.
const (
	GridRows = 8
	GridCols = 8
)

// TimestampLayout is the compact numeric form used by the tile server,
// e.g. 20230601120000.
const TimestampLayout = "20060102150405"

// dayPathLayout is the date prefix of planet tile paths.
const dayPathLayout = "2006/01/02"

// BorderEpoch is the fixed date the tile server uses for border overlays.
// It is a placeholder path segment, not a capture time.
var BorderEpoch = time.Date(1970, time.January, 1, 1, 0, 0, 0, time.UTC)

// TileKind selects which tile layer a URL points to.
type TileKind int

const (
	KindPlanet TileKind = iota
	KindBorder
)

func (k TileKind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindBorder:
		return "border"
	default:
		return fmt.Sprintf("TileKind(%d)", int(k))
	}
}

// ParseTileKind maps "planet" or "border" to a TileKind.
func ParseTileKind(s string) (TileKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "planet":
		return KindPlanet, nil
	case "border":
		return KindBorder, nil
	default:
		return 0, fmt.Errorf("unknown tile kind %q (want planet or border)", s)
	}
}

// Coord is a zero-indexed (row, column) position in the tile grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Composite is a stitched full-disk image for one capture time.
type Composite struct {
	Image     *image.NRGBA
	Satellite string
	Timestamp time.Time // always UTC
}

// ParseTimestamp parses a compact YYYYMMDDhhmmss string as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) != len(TimestampLayout) {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYYMMDDhhmmss", ErrParse, raw)
	}
	ts, err := time.ParseInLocation(TimestampLayout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrParse, raw, err)
	}
	return ts, nil
}

// FormatTimestamp renders t in the compact YYYYMMDDhhmmss form (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
