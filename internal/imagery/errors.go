package imagery

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrRemoteUnavailable is returned when the tile server does not answer
	// with a success status (or cannot be reached at all).
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrMalformedResponse is returned when a metadata body is not the expected JSON shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrParse is returned for timestamps that are not YYYYMMDDhhmmss.
	ErrParse = errors.New("invalid timestamp")

	// ErrNoDates is returned when the server publishes no capture times for a satellite.
	ErrNoDates = errors.New("no imagery dates available")
)

// TileFetchError reports a grid tile that could not be downloaded.
// The fetcher's error already names the URL, so Error leaves it out.
type TileFetchError struct {
	Coord Coord
	URL   string
	Err   error
}

func (e *TileFetchError) Error() string {
	return fmt.Sprintf("tile %s missing: %v", e.Coord, e.Err)
}

func (e *TileFetchError) Unwrap() error { return e.Err }

// TileDecodeError reports a downloaded payload that is not a decodable image.
type TileDecodeError struct {
	Coord Coord
	Err   error
}

func (e *TileDecodeError) Error() string {
	return fmt.Sprintf("tile %s: decode: %v", e.Coord, e.Err)
}

func (e *TileDecodeError) Unwrap() error { return e.Err }

// DimensionMismatchError reports tiles that do not line up into a rectangle.
type DimensionMismatchError struct {
	Coord  Coord
	Reason string
	Want   image.Point
	Got    image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("tile %s: %s: want %dx%d, got %dx%d",
		e.Coord, e.Reason, e.Want.X, e.Want.Y, e.Got.X, e.Got.Y)
}
