package client

import (
	"context"
	"net/http"
	"strconv"
)

// Products wraps the inventory service.
type Products struct {
	c *Client
}

func NewProducts(c *Client) *Products { return &Products{c: c} }

func (s *Products) List(ctx context.Context) ([]Product, error) {
	var out []Product
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil), nil, &out)
	return out, err
}

func (s *Products) Get(ctx context.Context, id int64) (Product, error) {
	var out Product
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, strconv.FormatInt(id, 10)), nil, &out)
	return out, err
}

func (s *Products) Create(ctx context.Context, in Product) (Product, error) {
	var out Product
	err := s.c.do(ctx, http.MethodPost, s.c.endpoint(nil), in, &out)
	return out, err
}

func (s *Products) Update(ctx context.Context, id int64, in Product) (Product, error) {
	var out Product
	err := s.c.do(ctx, http.MethodPut, s.c.endpoint(nil, strconv.FormatInt(id, 10)), in, &out)
	return out, err
}

func (s *Products) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodDelete, s.c.endpoint(nil, strconv.FormatInt(id, 10)), nil, nil)
}
