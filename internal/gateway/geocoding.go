package gateway

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mmcloughlin/geohash"
)

// geohashPrecision 9 is roughly a 5m cell, enough to pin a storefront.
const geohashPrecision = 9

const msgAddressNotFound = "address not found"

// Geocode resolves a free-text address to coordinates.
func (cl *Client) Geocode(ctx context.Context, cred *Credential, address string) (*GeocodeResult, error) {
	var out GeocodeResult
	_, err := cl.do(ctx, cred, call{
		op:       "Geocode",
		resource: "geocoding",
		action:   "look up address",
		method:   http.MethodGet,
		path:     withQuery("/geocoding/search", P("address", address)),
		notFound: msgAddressNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}
	out.Geohash = geohash.EncodeWithPrecision(out.Latitude, out.Longitude, geohashPrecision)
	return &out, nil
}

// ReverseGeocode resolves coordinates to the nearest address.
func (cl *Client) ReverseGeocode(ctx context.Context, cred *Credential, lat, lng float64) (*GeocodeResult, error) {
	var out GeocodeResult
	_, err := cl.do(ctx, cred, call{
		op:       "ReverseGeocode",
		resource: "geocoding",
		action:   "look up coordinates",
		method:   http.MethodGet,
		path: withQuery("/geocoding/reverse",
			P("lat", strconv.FormatFloat(lat, 'f', -1, 64)),
			P("lng", strconv.FormatFloat(lng, 'f', -1, 64)),
		),
		notFound: msgAddressNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Latitude == 0 && out.Longitude == 0 {
		out.Latitude, out.Longitude = lat, lng
	}
	out.Geohash = geohash.EncodeWithPrecision(out.Latitude, out.Longitude, geohashPrecision)
	return &out, nil
}
