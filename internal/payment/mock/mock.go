// Package mock implements an in-process payment channel for development and
// automated tests. Charges settle immediately unless failure simulation is
// turned on.
package mock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrSimulatedFailure = errors.New("mock payment failed")

// Config holds the mock channel settings.
type Config struct {
	SimulateFailure bool   `json:"simulate_failure"`
	FailureMessage  string `json:"failure_message"`
	LatencyMS       int    `json:"latency_ms"`
}

// CreateInput describes a charge to simulate.
type CreateInput struct {
	OrderNumber string
	Amount      string
	Currency    string
}

// CreateResult is a settled mock charge.
type CreateResult struct {
	TransactionID string
	PaidAt        time.Time
}

// RefundResult is a settled mock refund.
type RefundResult struct {
	RefundID string
}

// CreatePayment simulates a charge. The transaction id is stable-prefixed so
// mock transactions are recognizable in order history.
func CreatePayment(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg != nil && cfg.LatencyMS > 0 {
		select {
		case <-time.After(time.Duration(cfg.LatencyMS) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if strings.TrimSpace(input.OrderNumber) == "" {
		return nil, errors.New("mock payment: order_number is required")
	}
	if cfg != nil && cfg.SimulateFailure {
		message := strings.TrimSpace(cfg.FailureMessage)
		if message == "" {
			return nil, ErrSimulatedFailure
		}
		return nil, fmt.Errorf("%w: %s", ErrSimulatedFailure, message)
	}
	return &CreateResult{
		TransactionID: "MOCK-" + strings.ToUpper(uuid.NewString()[:12]),
		PaidAt:        time.Now(),
	}, nil
}

// RefundPayment simulates a full refund of a mock transaction.
func RefundPayment(ctx context.Context, cfg *Config, transactionID string) (*RefundResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, errors.New("mock refund: transaction_id is required")
	}
	return &RefundResult{
		RefundID: "MOCK-RF-" + strings.ToUpper(uuid.NewString()[:12]),
	}, nil
}
