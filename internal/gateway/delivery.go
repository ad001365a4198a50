package gateway

import (
	"context"
	"net/http"
)

type DeliverySettingsInput struct {
	DeliveryEnabled     bool     `json:"deliveryEnabled"`
	PickupEnabled       bool     `json:"pickupEnabled"`
	DeliveryRadiusKm    float64  `json:"deliveryRadiusKm"`
	DeliveryFee         float64  `json:"deliveryFee"`
	FreeDeliveryOver    *float64 `json:"freeDeliveryOver,omitempty"`
	MinimumOrderValue   float64  `json:"minimumOrderValue"`
	EstimatedMinutesMin int      `json:"estimatedTimeMin"`
	EstimatedMinutesMax int      `json:"estimatedTimeMax"`
}

func (cl *Client) GetDeliverySettings(ctx context.Context, cred *Credential, marketID string) (*DeliverySettings, error) {
	var out DeliverySettings
	_, err := cl.do(ctx, cred, call{
		op:       "GetDeliverySettings",
		resource: "delivery_settings",
		action:   "load delivery settings",
		method:   http.MethodGet,
		path:     "/markets/" + escape(marketID) + "/delivery-settings",
		notFound: "delivery settings not found for this market",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveDeliverySettings creates or replaces the market's delivery settings.
func (cl *Client) SaveDeliverySettings(ctx context.Context, cred *Credential, marketID string, in DeliverySettingsInput) (*DeliverySettings, error) {
	var out DeliverySettings
	_, err := cl.do(ctx, cred, call{
		op:        "SaveDeliverySettings",
		resource:  "delivery_settings",
		action:    "save delivery settings",
		method:    http.MethodPost,
		path:      "/markets/" + escape(marketID) + "/delivery-settings",
		body:      in,
		forbidden: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
