package stripe

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeAndValidateConfig(t *testing.T) {
	cfg := &Config{
		SecretKey:     " sk_test_123 ",
		WebhookSecret: " whsec_123 ",
		SuccessURL:    "https://example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "https://example.com/checkout/cancel",
	}
	cfg.Normalize()
	if cfg.SecretKey != "sk_test_123" {
		t.Fatalf("unexpected secret key: %s", cfg.SecretKey)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected default api base url: %s", cfg.APIBaseURL)
	}
	if cfg.WebhookToleranceSeconds != defaultWebhookToleranceS {
		t.Fatalf("unexpected default tolerance: %d", cfg.WebhookToleranceSeconds)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("validate config failed: %v", err)
	}
}

func TestValidateConfigRejectsMissingSecret(t *testing.T) {
	cfg := &Config{
		WebhookSecret: "whsec_123",
		SuccessURL:    "https://example.com/success",
		CancelURL:     "https://example.com/cancel",
	}
	cfg.Normalize()
	if err := ValidateConfig(cfg); err == nil {
		t.Fatalf("missing secret_key should fail validation")
	}
}

func webhookBody(t *testing.T, now time.Time) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"id":   "evt_test_1",
		"type": "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"object":         "checkout.session",
				"id":             "cs_test_123",
				"payment_intent": "pi_test_456",
				"payment_status": "paid",
				"currency":       "usd",
				"amount_total":   4250,
				"created":        now.Unix(),
				"metadata": map[string]interface{}{
					"order_number": "ORD-00000042",
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return body
}

func TestVerifyAndParseWebhookCheckoutCompleted(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := &Config{
		WebhookSecret:           "whsec_test_abc",
		WebhookToleranceSeconds: 300,
	}
	body := webhookBody(t, now)
	sig := computeSignature(cfg.WebhookSecret, now.Unix(), body)
	headers := map[string]string{
		"Stripe-Signature": "t=1760000000,v1=" + sig,
	}

	result, err := VerifyAndParseWebhook(cfg, headers, body, now)
	if err != nil {
		t.Fatalf("verify webhook failed: %v", err)
	}
	if result.EventType != "checkout.session.completed" {
		t.Fatalf("unexpected event type: %s", result.EventType)
	}
	if result.OrderNumber != "ORD-00000042" {
		t.Fatalf("unexpected order number: %s", result.OrderNumber)
	}
	if result.PaymentIntentID != "pi_test_456" {
		t.Fatalf("unexpected payment intent: %s", result.PaymentIntentID)
	}
	if result.Status != "success" {
		t.Fatalf("unexpected status: %s", result.Status)
	}
	if result.Amount != "42.50" {
		t.Fatalf("unexpected amount: %s", result.Amount)
	}
	if result.Currency != "USD" {
		t.Fatalf("unexpected currency: %s", result.Currency)
	}
}

func TestVerifyAndParseWebhookRejectsBadSignature(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := &Config{
		WebhookSecret:           "whsec_test_abc",
		WebhookToleranceSeconds: 300,
	}
	body := webhookBody(t, now)
	headers := map[string]string{
		"Stripe-Signature": "t=1760000000,v1=deadbeef",
	}
	if _, err := VerifyAndParseWebhook(cfg, headers, body, now); err == nil {
		t.Fatalf("bad signature should fail")
	}
}

func TestVerifyAndParseWebhookRejectsStaleTimestamp(t *testing.T) {
	signedAt := time.Unix(1760000000, 0)
	cfg := &Config{
		WebhookSecret:           "whsec_test_abc",
		WebhookToleranceSeconds: 300,
	}
	body := webhookBody(t, signedAt)
	sig := computeSignature(cfg.WebhookSecret, signedAt.Unix(), body)
	headers := map[string]string{
		"Stripe-Signature": "t=1760000000,v1=" + sig,
	}
	now := signedAt.Add(10 * time.Minute)
	if _, err := VerifyAndParseWebhook(cfg, headers, body, now); err == nil {
		t.Fatalf("stale timestamp should fail")
	}
}

func TestMinorAmountConversion(t *testing.T) {
	minor, err := toMinorAmount("42.50", "USD")
	if err != nil {
		t.Fatalf("to minor failed: %v", err)
	}
	if minor != 4250 {
		t.Fatalf("minor want 4250 got %d", minor)
	}

	minor, err = toMinorAmount("500", "JPY")
	if err != nil {
		t.Fatalf("to minor jpy failed: %v", err)
	}
	if minor != 500 {
		t.Fatalf("jpy minor want 500 got %d", minor)
	}

	if got := fromMinorAmount(4250, "USD"); got != "42.50" {
		t.Fatalf("from minor want 42.50 got %s", got)
	}
	if got := fromMinorAmount(500, "JPY"); got != "500" {
		t.Fatalf("from minor jpy want 500 got %s", got)
	}
}

func TestToMinorAmountRejectsNonPositive(t *testing.T) {
	if _, err := toMinorAmount("0", "USD"); err == nil {
		t.Fatalf("zero amount should fail")
	}
	if _, err := toMinorAmount("-1", "USD"); err == nil {
		t.Fatalf("negative amount should fail")
	}
}
