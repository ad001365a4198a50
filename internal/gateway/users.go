package gateway

import (
	"context"
	"net/http"

	"github.com/edirooss/market-admin/pkg/jsonx"
)

type UserFilter struct {
	Page      *int
	Size      *int
	Name      string
	Email     string
	Role      string
	MarketIDs []string
}

func (f UserFilter) params() []Param {
	return []Param{
		P("page", f.Page),
		P("size", f.Size),
		P("name", f.Name),
		P("email", f.Email),
		P("role", f.Role),
		P("marketIds", f.MarketIDs),
	}
}

// UpdateUserInput is a partial update: only fields whose key was present
// are sent, and an explicit null is forwarded as null.
type UpdateUserInput struct {
	Name      jsonx.Field[string]   `json:"name"`
	Email     jsonx.Field[string]   `json:"email"`
	Phone     jsonx.Field[string]   `json:"phone"`
	Role      jsonx.Field[string]   `json:"role"`
	Active    jsonx.Field[bool]     `json:"active"`
	MarketIDs jsonx.Field[[]string] `json:"marketIds"`
}

// patchBody renders only the fields that were set.
func (in UpdateUserInput) patchBody() map[string]any {
	body := make(map[string]any)
	jsonx.Put(body, "name", in.Name)
	jsonx.Put(body, "email", in.Email)
	jsonx.Put(body, "phone", in.Phone)
	jsonx.Put(body, "role", in.Role)
	jsonx.Put(body, "active", in.Active)
	jsonx.Put(body, "marketIds", in.MarketIDs)
	return body
}

const msgUserNotFound = "user not found"

func (cl *Client) ListUsers(ctx context.Context, cred *Credential, f UserFilter) (*Page[User], error) {
	var out Page[User]
	_, err := cl.do(ctx, cred, call{
		op:        "ListUsers",
		resource:  "user",
		action:    "load users",
		method:    http.MethodGet,
		path:      withQuery("/users", f.params()...),
		forbidden: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser returns one user. A missing user is a KindNotFound failure.
func (cl *Client) GetUser(ctx context.Context, cred *Credential, id string) (*User, error) {
	var out User
	_, err := cl.do(ctx, cred, call{
		op:       "GetUser",
		resource: "user",
		action:   "load user",
		method:   http.MethodGet,
		path:     "/users/" + escape(id),
		notFound: msgUserNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser patches a user. 409 (e.g. duplicate email) surfaces as
// KindConflict carrying the backend message.
func (cl *Client) UpdateUser(ctx context.Context, cred *Credential, id string, in UpdateUserInput) (*User, error) {
	var out User
	_, err := cl.do(ctx, cred, call{
		op:        "UpdateUser",
		resource:  "user",
		action:    "update user",
		method:    http.MethodPatch,
		path:      "/users/" + escape(id),
		body:      in.patchBody(),
		notFound:  msgUserNotFound,
		forbidden: true,
		conflict:  true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
