package clients

import (
	"context"
	"net/http"
	"strings"
)

type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Email
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserClient struct{ c *Client }

func NewUserClient(c *Client) *UserClient { return &UserClient{c: c} }

func (uc *UserClient) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var out User
	if err := uc.c.doJSON(ctx, http.MethodPost, "/api/users/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *UserClient) Login(ctx context.Context, creds Credentials) (*User, error) {
	var out User
	if err := uc.c.doJSON(ctx, http.MethodPost, "/api/users/login", "", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
