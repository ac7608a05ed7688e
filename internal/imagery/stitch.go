package imagery

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Stitch concatenates each row of tiles left to right, then stacks the rows
// top to bottom. Every tile in a row must share one height and every row must
// add up to the same width.
func Stitch(grid [][]image.Image) (*image.NRGBA, error) {
	if len(grid) == 0 {
		return nil, errors.New("stitch: empty grid")
	}

	rowHeights := make([]int, len(grid))
	width, height := 0, 0

	for r, row := range grid {
		if len(row) == 0 {
			return nil, errors.New("stitch: empty grid row")
		}
		rowWidth := 0
		for c, tile := range row {
			if tile == nil {
				return nil, errors.New("stitch: nil tile at " + Coord{Row: r, Col: c}.String())
			}
			size := tile.Bounds().Size()
			if c == 0 {
				rowHeights[r] = size.Y
			} else if size.Y != rowHeights[r] {
				first := row[0].Bounds().Size()
				return nil, &DimensionMismatchError{
					Coord:  Coord{Row: r, Col: c},
					Reason: "height differs from row",
					Want:   image.Pt(size.X, first.Y),
					Got:    size,
				}
			}
			rowWidth += size.X
		}

		if r == 0 {
			width = rowWidth
		} else if rowWidth != width {
			return nil, &DimensionMismatchError{
				Coord:  Coord{Row: r, Col: len(row) - 1},
				Reason: "row width differs from first row",
				Want:   image.Pt(width, rowHeights[r]),
				Got:    image.Pt(rowWidth, rowHeights[r]),
			}
		}
		height += rowHeights[r]
	}

	canvas := imaging.New(width, height, color.NRGBA{})

	y := 0
	for r, row := range grid {
		x := 0
		for _, tile := range row {
			b := tile.Bounds()
			dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
			draw.Draw(canvas, dst, tile, b.Min, draw.Src)
			x += b.Dx()
		}
		y += rowHeights[r]
	}

	return canvas, nil
}

// DecodeTile decodes a PNG/JPEG/GIF/TIFF/BMP tile payload.
func DecodeTile(coord Coord, data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &TileDecodeError{Coord: coord, Err: err}
	}
	return img, nil
}
