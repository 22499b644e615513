package client

import (
	"strings"

	"github.com/dentallab/backend/internal/domain/shared"
)

// Client is a dental practice or practitioner the lab bills. The price group
// selects which pricing rules apply to the client's works.
type Client struct {
	shared.BaseAggregateRoot
	Name       string
	Email      string
	Phone      string
	PriceGroup string
	Active     bool
}

// NewClient creates a new client
func NewClient(name, priceGroup string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	priceGroup = strings.TrimSpace(priceGroup)
	if priceGroup == "" {
		return nil, shared.NewDomainError("INVALID_PRICE_GROUP", "Price group cannot be empty")
	}
	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		PriceGroup:        priceGroup,
		Active:            true,
	}, nil
}

// WithContact sets the contact details
func (c *Client) WithContact(email, phone string) *Client {
	c.Email = email
	c.Phone = phone
	return c
}

// Deactivate marks the client inactive. Inactive clients keep their history
// but cannot receive new payments or balance movements.
func (c *Client) Deactivate() {
	c.Active = false
	c.Touch()
}

// Activate re-enables the client
func (c *Client) Activate() {
	c.Active = true
	c.Touch()
}
