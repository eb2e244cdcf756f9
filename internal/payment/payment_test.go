package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/inkfolio-shop/internal/config"
)

func TestNewDefaultsToMock(t *testing.T) {
	provider, err := New(&config.PaymentConfig{})
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}
	if provider.Name() != "mock" {
		t.Fatalf("default provider want mock got %s", provider.Name())
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	if _, err := New(&config.PaymentConfig{Provider: "paypal"}); err == nil {
		t.Fatalf("unknown provider should fail")
	}
}

func TestMockProviderCharges(t *testing.T) {
	provider, err := New(&config.PaymentConfig{Provider: "mock"})
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}

	result, err := provider.ProcessPayment(context.Background(), ChargeInput{
		OrderNumber: "ORD-00000001",
		Amount:      "25.00",
		Currency:    "USD",
	})
	if err != nil {
		t.Fatalf("process payment failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("mock charge should settle")
	}
	if !strings.HasPrefix(result.TransactionID, "MOCK-") {
		t.Fatalf("unexpected transaction id: %s", result.TransactionID)
	}

	refund, err := provider.RefundPayment(context.Background(), result.TransactionID)
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if !refund.Success {
		t.Fatalf("mock refund should settle")
	}
}

func TestMockProviderSimulatedFailure(t *testing.T) {
	provider, err := New(&config.PaymentConfig{
		Provider: "mock",
		Mock: config.MockPaymentConfig{
			SimulateFailure: true,
			FailureMessage:  "card declined",
		},
	})
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}

	result, err := provider.ProcessPayment(context.Background(), ChargeInput{
		OrderNumber: "ORD-00000002",
		Amount:      "10.00",
		Currency:    "USD",
	})
	if err != nil {
		t.Fatalf("simulated failure should not error: %v", err)
	}
	if result.Success {
		t.Fatalf("simulated failure should not settle")
	}
	if !strings.Contains(result.Message, "card declined") {
		t.Fatalf("failure message missing: %s", result.Message)
	}
}

func TestEtsyProviderRedirects(t *testing.T) {
	provider, err := New(&config.PaymentConfig{
		Provider: "etsy",
		Etsy:     config.EtsyPaymentConfig{ShopURL: "https://www.etsy.com/shop/inkfolio"},
	})
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}

	result, err := provider.ProcessPayment(context.Background(), ChargeInput{
		OrderNumber: "ORD-00000003",
		Amount:      "30.00",
		Currency:    "USD",
	})
	if err != nil {
		t.Fatalf("process payment failed: %v", err)
	}
	if result.Success {
		t.Fatalf("etsy charge should stay pending")
	}
	if result.RedirectURL != "https://www.etsy.com/shop/inkfolio" {
		t.Fatalf("unexpected redirect: %s", result.RedirectURL)
	}

	refund, err := provider.RefundPayment(context.Background(), "any")
	if err != nil {
		t.Fatalf("refund should not error: %v", err)
	}
	if refund.Success {
		t.Fatalf("etsy refund should be refused")
	}

	if _, err := provider.ValidateWebhook(nil, nil); err == nil {
		t.Fatalf("etsy webhook should be unsupported")
	}
}

func TestEtsyProviderRequiresShopURL(t *testing.T) {
	if _, err := New(&config.PaymentConfig{Provider: "etsy"}); err == nil {
		t.Fatalf("missing shop_url should fail")
	}
}
