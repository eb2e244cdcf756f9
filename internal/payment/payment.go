// Package payment abstracts the configured payment channel behind a single
// Provider interface. Channel mechanics live in the per-provider subpackages;
// this package only adapts them to a common shape.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkfolio-shop/internal/config"
	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/payment/etsy"
	"github.com/inkfolio-shop/internal/payment/mock"
	"github.com/inkfolio-shop/internal/payment/stripe"
)

var (
	ErrProviderUnknown    = errors.New("payment provider unknown")
	ErrWebhookUnsupported = errors.New("payment provider has no webhook")
)

// ChargeInput describes the order to charge.
type ChargeInput struct {
	OrderNumber string
	Amount      string
	Currency    string
	Description string
}

// ChargeResult is the outcome of a charge attempt. Success means the payment
// settled synchronously; a RedirectURL means settlement continues off-site.
type ChargeResult struct {
	Success       bool
	TransactionID string
	RedirectURL   string
	Message       string
}

// RefundResult is the outcome of a refund attempt.
type RefundResult struct {
	Success  bool
	RefundID string
	Message  string
}

// WebhookEvent is a verified provider callback.
type WebhookEvent struct {
	OrderNumber   string
	TransactionID string
	Status        string
	Amount        string
	Currency      string
	PaidAt        *time.Time
}

// Provider is a payment channel.
type Provider interface {
	Name() string
	ProcessPayment(ctx context.Context, input ChargeInput) (*ChargeResult, error)
	RefundPayment(ctx context.Context, transactionID string) (*RefundResult, error)
	ValidateWebhook(headers map[string]string, body []byte) (*WebhookEvent, error)
}

// New builds the provider selected in config.
func New(cfg *config.PaymentConfig) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: empty config", ErrProviderUnknown)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case constants.PaymentProviderMock, "":
		return &mockProvider{cfg: &mock.Config{
			SimulateFailure: cfg.Mock.SimulateFailure,
			FailureMessage:  cfg.Mock.FailureMessage,
			LatencyMS:       cfg.Mock.LatencyMS,
		}}, nil
	case constants.PaymentProviderStripe:
		stripeCfg := &stripe.Config{
			SecretKey:               cfg.Stripe.SecretKey,
			WebhookSecret:           cfg.Stripe.WebhookSecret,
			SuccessURL:              cfg.Stripe.SuccessURL,
			CancelURL:               cfg.Stripe.CancelURL,
			APIBaseURL:              cfg.Stripe.APIBaseURL,
			WebhookToleranceSeconds: cfg.Stripe.WebhookToleranceSeconds,
		}
		stripeCfg.Normalize()
		if err := stripe.ValidateConfig(stripeCfg); err != nil {
			return nil, err
		}
		return &stripeProvider{cfg: stripeCfg}, nil
	case constants.PaymentProviderEtsy:
		etsyCfg := &etsy.Config{ShopURL: cfg.Etsy.ShopURL}
		if err := etsy.ValidateConfig(etsyCfg); err != nil {
			return nil, err
		}
		return &etsyProvider{cfg: etsyCfg}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrProviderUnknown, cfg.Provider)
	}
}

type mockProvider struct {
	cfg *mock.Config
}

func (p *mockProvider) Name() string {
	return constants.PaymentProviderMock
}

func (p *mockProvider) ProcessPayment(ctx context.Context, input ChargeInput) (*ChargeResult, error) {
	result, err := mock.CreatePayment(ctx, p.cfg, mock.CreateInput{
		OrderNumber: input.OrderNumber,
		Amount:      input.Amount,
		Currency:    input.Currency,
	})
	if err != nil {
		if errors.Is(err, mock.ErrSimulatedFailure) {
			return &ChargeResult{Success: false, Message: err.Error()}, nil
		}
		return nil, err
	}
	return &ChargeResult{Success: true, TransactionID: result.TransactionID}, nil
}

func (p *mockProvider) RefundPayment(ctx context.Context, transactionID string) (*RefundResult, error) {
	result, err := mock.RefundPayment(ctx, p.cfg, transactionID)
	if err != nil {
		return nil, err
	}
	return &RefundResult{Success: true, RefundID: result.RefundID}, nil
}

func (p *mockProvider) ValidateWebhook(headers map[string]string, body []byte) (*WebhookEvent, error) {
	return nil, ErrWebhookUnsupported
}

type stripeProvider struct {
	cfg *stripe.Config
}

func (p *stripeProvider) Name() string {
	return constants.PaymentProviderStripe
}

// ProcessPayment creates a checkout session; the charge stays pending until
// the webhook confirms it.
func (p *stripeProvider) ProcessPayment(ctx context.Context, input ChargeInput) (*ChargeResult, error) {
	result, err := stripe.CreatePayment(ctx, p.cfg, stripe.CreateInput{
		OrderNumber: input.OrderNumber,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}
	return &ChargeResult{
		Success:       false,
		TransactionID: result.SessionID,
		RedirectURL:   result.URL,
		Message:       "awaiting checkout completion",
	}, nil
}

func (p *stripeProvider) RefundPayment(ctx context.Context, transactionID string) (*RefundResult, error) {
	result, err := stripe.RefundPayment(ctx, p.cfg, transactionID)
	if err != nil {
		return nil, err
	}
	return &RefundResult{Success: true, RefundID: result.RefundID, Message: result.Status}, nil
}

func (p *stripeProvider) ValidateWebhook(headers map[string]string, body []byte) (*WebhookEvent, error) {
	result, err := stripe.VerifyAndParseWebhook(p.cfg, headers, body, time.Now())
	if err != nil {
		return nil, err
	}
	transactionID := result.PaymentIntentID
	if transactionID == "" {
		transactionID = result.SessionID
	}
	return &WebhookEvent{
		OrderNumber:   result.OrderNumber,
		TransactionID: transactionID,
		Status:        result.Status,
		Amount:        result.Amount,
		Currency:      result.Currency,
		PaidAt:        result.PaidAt,
	}, nil
}

type etsyProvider struct {
	cfg *etsy.Config
}

func (p *etsyProvider) Name() string {
	return constants.PaymentProviderEtsy
}

// ProcessPayment never settles: the buyer completes the purchase on Etsy.
func (p *etsyProvider) ProcessPayment(ctx context.Context, input ChargeInput) (*ChargeResult, error) {
	redirect, err := etsy.RedirectURL(p.cfg)
	if err != nil {
		return nil, err
	}
	return &ChargeResult{
		Success:     false,
		RedirectURL: redirect,
		Message:     "purchase continues on Etsy",
	}, nil
}

func (p *etsyProvider) RefundPayment(ctx context.Context, transactionID string) (*RefundResult, error) {
	return &RefundResult{Success: false, Message: etsy.ErrRefundUnsupported.Error()}, nil
}

func (p *etsyProvider) ValidateWebhook(headers map[string]string, body []byte) (*WebhookEvent, error) {
	return nil, etsy.ErrWebhookUnsupported
}
