package gateway

import (
	"context"
	"net/http"
)

type ChatFilter struct {
	MarketID   string
	Page       *int
	Size       *int
	UnreadOnly *bool
	Search     string
}

func (f ChatFilter) params() []Param {
	return []Param{
		P("marketId", f.MarketID),
		P("page", f.Page),
		P("size", f.Size),
		P("unreadOnly", f.UnreadOnly),
		P("search", f.Search),
	}
}

type SendMessageInput struct {
	Content string `json:"content"`
}

const msgChatNotFound = "chat not found"

func (cl *Client) ListChats(ctx context.Context, cred *Credential, f ChatFilter) (*Page[Chat], error) {
	var out Page[Chat]
	_, err := cl.do(ctx, cred, call{
		op:       "ListChats",
		resource: "chat",
		action:   "load chats",
		method:   http.MethodGet,
		path:     withQuery("/chats", f.params()...),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetChat returns the chat, or (nil, nil) when the backend has no such chat.
func (cl *Client) GetChat(ctx context.Context, cred *Credential, id string) (*Chat, error) {
	var out Chat
	found, err := cl.do(ctx, cred, call{
		op:       "GetChat",
		resource: "chat",
		action:   "load chat",
		method:   http.MethodGet,
		path:     "/chats/" + escape(id),
		nilOn404: true,
	}, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (cl *Client) ListMessages(ctx context.Context, cred *Credential, chatID string, f PageFilter) (*Page[Message], error) {
	var out Page[Message]
	_, err := cl.do(ctx, cred, call{
		op:       "ListMessages",
		resource: "message",
		action:   "load messages",
		method:   http.MethodGet,
		path:     withQuery("/chats/"+escape(chatID)+"/messages", f.params()...),
		notFound: msgChatNotFound,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (cl *Client) SendMessage(ctx context.Context, cred *Credential, chatID string, in SendMessageInput) (*Message, error) {
	var out Message
	_, err := cl.do(ctx, cred, call{
		op:        "SendMessage",
		resource:  "message",
		action:    "send message",
		method:    http.MethodPost,
		path:      "/chats/" + escape(chatID) + "/messages",
		body:      in,
		notFound:  msgChatNotFound,
		forbidden: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkChatAsRead marks every message of the chat as read by cred's subject.
func (cl *Client) MarkChatAsRead(ctx context.Context, cred *Credential, chatID string) (*MarkReadResult, error) {
	out := MarkReadResult{ChatID: chatID}
	_, err := cl.do(ctx, cred, call{
		op:        "MarkChatAsRead",
		resource:  "chat",
		action:    "mark chat as read",
		method:    http.MethodPost,
		path:      "/chats/" + escape(chatID) + "/read",
		notFound:  msgChatNotFound,
		forbidden: true,
		emptyOK:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
