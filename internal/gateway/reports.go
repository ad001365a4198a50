package gateway

import (
	"context"
	"net/http"
	"time"
)

// ReportsFilter scopes the dashboard summary. Zero times are left to the
// backend's default window.
type ReportsFilter struct {
	MarketID string
	From     time.Time
	To       time.Time
}

func (f ReportsFilter) params() []Param {
	return []Param{
		P("marketId", f.MarketID),
		P("from", f.From),
		P("to", f.To),
	}
}

// GetReportsSummary returns the aggregated dashboard figures.
func (cl *Client) GetReportsSummary(ctx context.Context, cred *Credential, f ReportsFilter) (*ReportsSummary, error) {
	var out ReportsSummary
	_, err := cl.do(ctx, cred, call{
		op:       "GetReportsSummary",
		resource: "reports",
		action:   "load reports summary",
		method:   http.MethodGet,
		path:     withQuery("/reports/summary", f.params()...),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
