package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
)

// Bills wraps the billing service. Every payload arrives in an APIResponse.
type Bills struct {
	c *Client
}

func NewBills(c *Client) *Bills { return &Bills{c: c} }

func (s *Bills) List(ctx context.Context) ([]BillSummary, error) {
	var out APIResponse[[]BillSummary]
	if err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, envelopeErr(out.Success, out.Message)
}

func (s *Bills) Get(ctx context.Context, id int64) (BillDetail, error) {
	var out APIResponse[BillDetail]
	if err := s.c.do(ctx, http.MethodGet, s.c.endpoint(nil, strconv.FormatInt(id, 10)), nil, &out); err != nil {
		return BillDetail{}, err
	}
	return out.Data, envelopeErr(out.Success, out.Message)
}

func (s *Bills) Create(ctx context.Context, in CreateBill) (BillDetail, error) {
	var out APIResponse[BillDetail]
	if err := s.c.do(ctx, http.MethodPost, s.c.endpoint(nil), in, &out); err != nil {
		return BillDetail{}, err
	}
	return out.Data, envelopeErr(out.Success, out.Message)
}

func (s *Bills) Delete(ctx context.Context, id int64) error {
	var out APIResponse[struct{}]
	if err := s.c.do(ctx, http.MethodDelete, s.c.endpoint(nil, strconv.FormatInt(id, 10)), nil, &out); err != nil {
		return err
	}
	return envelopeErr(out.Success, out.Message)
}

func envelopeErr(success bool, message string) error {
	if success {
		return nil
	}
	if message == "" {
		message = "billing service reported failure"
	}
	return errors.New(message)
}
