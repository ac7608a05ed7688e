package imagery

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://rammb-slider.cira.colostate.edu"
	DefaultProduct   = "geocolor"
	DefaultSatellite = "meteosat-11"

	// datesProduct is the product whose timestamp list drives discovery.
	datesProduct = "natural_color"
)

// URLBuilder formats tile and metadata URLs for the tile server.
// It does no I/O.
type URLBuilder struct {
	BaseURL string
	Product string
}

// NewURLBuilder returns a builder, filling empty fields with the public defaults.
func NewURLBuilder(baseURL, product string) URLBuilder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	product = strings.TrimSpace(product)
	if product == "" {
		product = DefaultProduct
	}
	return URLBuilder{BaseURL: baseURL, Product: product}
}

// TileURL returns the URL of one tile. Border tiles ignore at and always use BorderEpoch.
func (b URLBuilder) TileURL(kind TileKind, row, col int, at time.Time, scale int, satellite string) string {
	cell := fmt.Sprintf("%02d/%03d_%03d.png", scale, row, col)

	if kind == KindBorder {
		return fmt.Sprintf("%s/data/maps/%s/full_disk/borders/white/%s/%s",
			b.base(), satellite, FormatTimestamp(BorderEpoch), cell)
	}

	at = at.UTC()
	return fmt.Sprintf("%s/data/imagery/%s/%s---full_disk/%s/%s/%s",
		b.base(), at.Format(dayPathLayout), satellite, b.product(), FormatTimestamp(at), cell)
}

// TileURLRaw is TileURL for a compact YYYYMMDDhhmmss timestamp.
func (b URLBuilder) TileURLRaw(kind TileKind, row, col int, raw string, scale int, satellite string) (string, error) {
	at, err := ParseTimestamp(raw)
	if err != nil {
		return "", err
	}
	return b.TileURL(kind, row, col, at, scale, satellite), nil
}

// GridURLs returns the GridRows x GridCols tile URLs in row-major order.
func (b URLBuilder) GridURLs(kind TileKind, at time.Time, scale int, satellite string) []string {
	urls := make([]string, 0, GridRows*GridCols)
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			urls = append(urls, b.TileURL(kind, row, col, at, scale, satellite))
		}
	}
	return urls
}

// DatesURL returns the metadata endpoint listing available capture times.
func (b URLBuilder) DatesURL(satellite string) string {
	return fmt.Sprintf("%s/data/json/%s/full_disk/%s/latest_times.json", b.base(), satellite, datesProduct)
}

func (b URLBuilder) base() string {
	if b.BaseURL == "" {
		return DefaultBaseURL
	}
	return b.BaseURL
}

func (b URLBuilder) product() string {
	if b.Product == "" {
		return DefaultProduct
	}
	return b.Product
}
