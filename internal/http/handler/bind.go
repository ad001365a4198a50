package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/edirooss/market-admin/internal/principal"
	"github.com/edirooss/market-admin/pkg/jsonx"
	"github.com/gin-gonic/gin"
)

func bind[T any](req *http.Request, obj *T) error {
	return jsonx.ParseStrictJSONBody(req, obj)
}

// credential returns the gateway credential of the authenticated principal.
// A nil result makes every gateway call fail as unauthenticated.
func credential(c *gin.Context) *gateway.Credential {
	return principal.GetPrincipal(c).Credential()
}

func queryInt(c *gin.Context, key string) (*int, error) {
	s, ok := c.GetQuery(key)
	if !ok || s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &n, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	s, ok := c.GetQuery(key)
	if !ok || s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &b, nil
}

// queryTime accepts RFC 3339 or a plain YYYY-MM-DD date.
func queryTime(c *gin.Context, key string) (time.Time, error) {
	s := c.Query(key)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s", key)
}

// queryList accepts both ?k=a&k=b and ?k=a,b.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// pageFilter reads the page and size query parameters.
func pageFilter(c *gin.Context) (gateway.PageFilter, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return gateway.PageFilter{}, err
	}
	size, err := queryInt(c, "size")
	if err != nil {
		return gateway.PageFilter{}, err
	}
	return gateway.PageFilter{Page: page, Size: size}, nil
}

// respondPage writes a paginated result with X-Total-Count.
func respondPage[T any](c *gin.Context, page *gateway.Page[T]) {
	c.Header("X-Total-Count", strconv.Itoa(page.Total))
	c.JSON(http.StatusOK, page)
}
