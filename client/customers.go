package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Customers wraps the customer service.
type Customers struct {
	c *Client
}

func NewCustomers(c *Client) *Customers { return &Customers{c: c} }

func (s *Customers) List(ctx context.Context) ([]Customer, error) {
	var out []Customer
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil), nil, &out)
	return out, err
}

func (s *Customers) Get(ctx context.Context, id int64) (Customer, error) {
	var out Customer
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, strconv.FormatInt(id, 10)), nil, &out)
	return out, err
}

func (s *Customers) Create(ctx context.Context, in Customer) (Customer, error) {
	var out Customer
	err := s.c.do(ctx, http.MethodPost, s.c.endpoint(nil), in, &out)
	return out, err
}

func (s *Customers) Update(ctx context.Context, id int64, in Customer) (Customer, error) {
	var out Customer
	err := s.c.do(ctx, http.MethodPut, s.c.endpoint(nil, strconv.FormatInt(id, 10)), in, &out)
	return out, err
}

func (s *Customers) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodDelete, s.c.endpoint(nil, strconv.FormatInt(id, 10)), nil, nil)
}

// Search returns one page of customers matching keyword. Pages are zero-based.
func (s *Customers) Search(ctx context.Context, keyword string, page, size int) (Page[Customer], error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out Page[Customer]
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(q, "search"), nil, &out)
	return out, err
}

func (s *Customers) Stats(ctx context.Context) (CustomerStats, error) {
	var out CustomerStats
	err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, "stats"), nil, &out)
	return out, err
}
