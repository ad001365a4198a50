package gateway

import (
	"context"
	"net/http"
)

// MarketFilter narrows ListMarkets and ListPublicMarkets.
type MarketFilter struct {
	Page        *int
	Size        *int
	Name        string
	City        string
	OwnerID     string
	ManagersIDs []string
	Active      *bool
}

func (f MarketFilter) params() []Param {
	return []Param{
		P("page", f.Page),
		P("size", f.Size),
		P("name", f.Name),
		P("city", f.City),
		P("ownerId", f.OwnerID),
		P("managersIds", f.ManagersIDs),
		P("active", f.Active),
	}
}

// CreateMarketInput is the body of CreateMarket.
type CreateMarketInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	LogoURL     string   `json:"logoUrl,omitempty"`
	ManagersIDs []string `json:"managersIds,omitempty"`
	Address     *Address `json:"address,omitempty"`
}

const msgMarketNotFound = "market not found"

// ListMarkets returns the markets visible to cred.
func (cl *Client) ListMarkets(ctx context.Context, cred *Credential, f MarketFilter) (*Page[Market], error) {
	var out Page[Market]
	_, err := cl.do(ctx, cred, call{
		op:       "ListMarkets",
		resource: "market",
		action:   "load markets",
		method:   http.MethodGet,
		path:     withQuery("/markets", f.params()...),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMarket returns one market. A missing market is a KindNotFound failure.
func (cl *Client) GetMarket(ctx context.Context, cred *Credential, id string) (*Market, error) {
	var out Market
	_, err := cl.do(ctx, cred, call{
		op:       "GetMarket",
		resource: "market",
		action:   "load market",
		method:   http.MethodGet,
		path:     "/markets/" + escape(id),
		notFound: msgMarketNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMarket registers a new market owned by cred's subject.
func (cl *Client) CreateMarket(ctx context.Context, cred *Credential, in CreateMarketInput) (*Market, error) {
	var out Market
	_, err := cl.do(ctx, cred, call{
		op:        "CreateMarket",
		resource:  "market",
		action:    "create market",
		method:    http.MethodPost,
		path:      "/markets",
		body:      in,
		forbidden: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPublicMarkets reads the public market catalogue. It needs no credential
// and sends no auth or content headers.
func (cl *Client) ListPublicMarkets(ctx context.Context, f MarketFilter) (*Page[Market], error) {
	var out Page[Market]
	_, err := cl.do(ctx, nil, call{
		op:       "ListPublicMarkets",
		resource: "market",
		action:   "load markets",
		method:   http.MethodGet,
		path:     withQuery("/markets/public", f.params()...),
		public:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPublicMarket reads one market from the public catalogue.
func (cl *Client) GetPublicMarket(ctx context.Context, id string) (*Market, error) {
	var out Market
	_, err := cl.do(ctx, nil, call{
		op:       "GetPublicMarket",
		resource: "market",
		action:   "load market",
		method:   http.MethodGet,
		path:     "/markets/public/" + escape(id),
		public:   true,
		notFound: msgMarketNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
