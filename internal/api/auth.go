package api

import (
	"context"
	"encoding/json"
	"net/http"

	"quickcart/internal/model"
)

// Session es el resultado de verificar el OTP.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) SendOTP(ctx context.Context, phone string) error {
	return c.do(ctx, http.MethodPost, "/auth/send-otp", map[string]string{"phone": phone}, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (*Session, error) {
	var raw json.RawMessage
	body := map[string]string{"phone": phone, "otp": otp}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", body, &raw); err != nil {
		return nil, err
	}
	var s Session
	if err := unwrapObject(raw, "session", &s); err != nil {
		return nil, err
	}
	if s.User.Phone == "" {
		s.User.Phone = phone
	}
	return &s, nil
}

// CurrentUser valida el token contra /users/current.
func (c *Client) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, &Error{StatusCode: http.StatusUnauthorized, Message: "missing token"}
	}
	var raw json.RawMessage
	if err := c.do(WithToken(ctx, token), http.MethodGet, "/users/current", nil, &raw); err != nil {
		return nil, err
	}
	var u model.User
	if err := unwrapObject(raw, "user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
