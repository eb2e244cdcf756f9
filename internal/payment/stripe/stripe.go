// Package stripe talks to the Stripe Checkout API directly over HTTP: one
// form-encoded call per operation, no SDK. Webhooks are verified against the
// Stripe-Signature scheme (t/v1 HMAC-SHA256 over "<timestamp>.<body>").
package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("stripe config invalid")
	ErrRequestFailed    = errors.New("stripe request failed")
	ErrResponseInvalid  = errors.New("stripe response invalid")
	ErrSignatureInvalid = errors.New("stripe signature invalid")
)

const (
	defaultAPIBaseURL        = "https://api.stripe.com"
	defaultWebhookToleranceS = 300
)

var httpClient = &http.Client{Timeout: 12 * time.Second}

// Currencies whose minor unit equals the major unit.
var zeroDecimalCurrencies = func() map[string]bool {
	set := map[string]bool{}
	for _, code := range []string{
		"BIF", "CLP", "DJF", "GNF", "JPY", "KMF", "KRW", "MGA",
		"PYG", "RWF", "UGX", "VND", "VUV", "XAF", "XOF", "XPF",
	} {
		set[code] = true
	}
	return set
}()

// Config holds the Stripe channel settings.
type Config struct {
	SecretKey               string `json:"secret_key"`
	WebhookSecret           string `json:"webhook_secret"`
	SuccessURL              string `json:"success_url"`
	CancelURL               string `json:"cancel_url"`
	APIBaseURL              string `json:"api_base_url"`
	WebhookToleranceSeconds int    `json:"webhook_tolerance_seconds"`
}

// CreateInput describes a checkout session to create.
type CreateInput struct {
	OrderNumber string
	Amount      string
	Currency    string
	Description string
}

// CreateResult is a created checkout session.
type CreateResult struct {
	SessionID       string
	PaymentIntentID string
	URL             string
	Status          string
	Raw             map[string]interface{}
}

// RefundResult is a created refund.
type RefundResult struct {
	RefundID string
	Status   string
	Raw      map[string]interface{}
}

// WebhookResult is a verified, parsed webhook event.
type WebhookResult struct {
	EventID         string
	EventType       string
	OrderNumber     string
	SessionID       string
	PaymentIntentID string
	Status          string
	Amount          string
	Currency        string
	PaidAt          *time.Time
	Raw             map[string]interface{}
}

// Normalize fills defaults and trims fields in place.
func (c *Config) Normalize() {
	c.SecretKey = strings.TrimSpace(c.SecretKey)
	c.WebhookSecret = strings.TrimSpace(c.WebhookSecret)
	c.SuccessURL = strings.TrimSpace(c.SuccessURL)
	c.CancelURL = strings.TrimSpace(c.CancelURL)
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.WebhookToleranceSeconds <= 0 {
		c.WebhookToleranceSeconds = defaultWebhookToleranceS
	}
}

// ValidateConfig checks that the channel is usable.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	required := map[string]string{
		"secret_key":     cfg.SecretKey,
		"webhook_secret": cfg.WebhookSecret,
		"success_url":    cfg.SuccessURL,
		"cancel_url":     cfg.CancelURL,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", ErrConfigInvalid, name)
		}
	}
	urls := map[string]string{
		"api_base_url": cfg.APIBaseURL,
		// The session id placeholder is not a valid URL character sequence,
		// substitute it before parsing.
		"success_url": strings.ReplaceAll(cfg.SuccessURL, "{CHECKOUT_SESSION_ID}", "cs_test_placeholder"),
		"cancel_url":  strings.ReplaceAll(cfg.CancelURL, "{CHECKOUT_SESSION_ID}", "cs_test_placeholder"),
	}
	for name, value := range urls {
		if _, err := url.ParseRequestURI(strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("%w: %s is invalid", ErrConfigInvalid, name)
		}
	}
	return nil
}

// CreatePayment creates a Stripe Checkout Session for an order.
func CreatePayment(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	orderNumber := strings.TrimSpace(input.OrderNumber)
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: order_number is required", ErrConfigInvalid)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	minor, err := toMinorAmount(input.Amount, currency)
	if err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(input.Description)
	if subject == "" {
		subject = orderNumber
	}

	form := url.Values{
		"mode":                                  {"payment"},
		"success_url":                           {cfg.SuccessURL},
		"cancel_url":                            {cfg.CancelURL},
		"client_reference_id":                   {orderNumber},
		"payment_method_types[]":                {"card"},
		"line_items[0][quantity]":               {"1"},
		"line_items[0][price_data][currency]":   {strings.ToLower(currency)},
		"line_items[0][price_data][unit_amount]": {strconv.FormatInt(minor, 10)},
		"line_items[0][price_data][product_data][name]": {subject},
		"metadata[order_number]":                        {orderNumber},
		"payment_intent_data[metadata][order_number]":   {orderNumber},
	}

	session, err := postForm(ctx, cfg, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, err
	}
	result := &CreateResult{
		Raw:             session,
		SessionID:       session.str("id"),
		URL:             session.str("url"),
		Status:          session.str("status"),
		PaymentIntentID: session.paymentIntentID(),
	}
	if result.SessionID == "" || result.URL == "" {
		return nil, fmt.Errorf("%w: missing session id or url", ErrResponseInvalid)
	}
	return result, nil
}

// RefundPayment refunds a captured payment intent in full.
func RefundPayment(ctx context.Context, cfg *Config, paymentIntentID string) (*RefundResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	paymentIntentID = strings.TrimSpace(paymentIntentID)
	if paymentIntentID == "" {
		return nil, fmt.Errorf("%w: payment_intent is required", ErrConfigInvalid)
	}

	refund, err := postForm(ctx, cfg, "/v1/refunds", url.Values{"payment_intent": {paymentIntentID}})
	if err != nil {
		return nil, err
	}
	result := &RefundResult{
		Raw:      refund,
		RefundID: refund.str("id"),
		Status:   refund.str("status"),
	}
	if result.RefundID == "" {
		return nil, fmt.Errorf("%w: missing refund id", ErrResponseInvalid)
	}
	return result, nil
}

// VerifyAndParseWebhook checks the Stripe-Signature header against the body
// and extracts the event fields relevant to order settlement.
func VerifyAndParseWebhook(cfg *Config, headers map[string]string, body []byte, now time.Time) (*WebhookResult, error) {
	if cfg == nil || strings.TrimSpace(cfg.WebhookSecret) == "" {
		return nil, fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrResponseInvalid)
	}
	if now.IsZero() {
		now = time.Now()
	}

	if err := verifySignature(cfg, headerLookup(headers, "Stripe-Signature"), body, now); err != nil {
		return nil, err
	}

	var event obj
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: decode event failed", ErrResponseInvalid)
	}
	eventType := event.str("type")
	if eventType == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrResponseInvalid)
	}
	object := event.sub("data").sub("object")
	if object == nil {
		return nil, fmt.Errorf("%w: missing event object", ErrResponseInvalid)
	}

	result := &WebhookResult{
		EventID:     event.str("id"),
		EventType:   eventType,
		OrderNumber: object.sub("metadata").str("order_number"),
		Currency:    strings.ToUpper(object.str("currency")),
		Raw:         event,
	}
	if created := object.num("created"); created > 0 {
		paidAt := time.Unix(created, 0)
		result.PaidAt = &paidAt
	}

	switch object.str("object") {
	case "checkout.session":
		result.SessionID = object.str("id")
		result.PaymentIntentID = object.paymentIntentID()
		result.Status = statusForEvent(eventType, func() string {
			return checkoutSessionStatus(object.str("payment_status"), object.str("status"))
		})
		if minor := object.num("amount_total"); minor > 0 && result.Currency != "" {
			result.Amount = fromMinorAmount(minor, result.Currency)
		}
	case "payment_intent":
		result.PaymentIntentID = object.str("id")
		result.Status = statusForEvent(eventType, func() string {
			return paymentIntentStatus(object.str("status"))
		})
		minor := object.num("amount_received")
		if minor <= 0 {
			minor = object.num("amount")
		}
		if minor > 0 && result.Currency != "" {
			result.Amount = fromMinorAmount(minor, result.Currency)
		}
	default:
		result.Status = statusForEvent(eventType, func() string { return "" })
	}
	return result, nil
}

func verifySignature(cfg *Config, header string, body []byte, now time.Time) error {
	if strings.TrimSpace(header) == "" {
		return fmt.Errorf("%w: Stripe-Signature is required", ErrSignatureInvalid)
	}
	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}
	if tolerance := int64(cfg.WebhookToleranceSeconds); tolerance > 0 {
		delta := now.Unix() - timestamp
		if delta < 0 {
			delta = -delta
		}
		if delta > tolerance {
			return fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureInvalid)
		}
	}

	expected := computeSignature(cfg.WebhookSecret, timestamp, body)
	for _, sig := range signatures {
		if hmac.Equal([]byte(strings.ToLower(sig)), []byte(expected)) {
			return nil
		}
	}
	return fmt.Errorf("%w: verify failed", ErrSignatureInvalid)
}

// statusForEvent maps the event type to an order status, falling back to the
// object's own state for event types without a fixed meaning.
func statusForEvent(eventType string, fromObject func() string) string {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded", "payment_intent.succeeded":
		return "success"
	case "checkout.session.expired":
		return "expired"
	case "checkout.session.async_payment_failed", "payment_intent.payment_failed", "payment_intent.canceled":
		return "failed"
	case "payment_intent.processing":
		return "pending"
	case "charge.refunded":
		return "refunded"
	}
	return fromObject()
}

func checkoutSessionStatus(paymentStatus, sessionStatus string) string {
	paymentStatus = strings.ToLower(paymentStatus)
	switch {
	case paymentStatus == "paid":
		return "success"
	case strings.ToLower(sessionStatus) == "expired":
		return "expired"
	case strings.ToLower(sessionStatus) == "complete" && paymentStatus == "no_payment_required":
		return "success"
	}
	return "pending"
}

func paymentIntentStatus(status string) string {
	switch strings.ToLower(status) {
	case "succeeded":
		return "success"
	case "canceled", "requires_payment_method":
		return "failed"
	}
	return "pending"
}

func toMinorAmount(amount string, currency string) (int64, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: amount is invalid", ErrConfigInvalid)
	}
	if !parsed.IsPositive() {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	return parsed.Shift(currencyScale(currency)).Round(0).IntPart(), nil
}

func fromMinorAmount(minor int64, currency string) string {
	scale := currencyScale(currency)
	return decimal.NewFromInt(minor).Shift(-scale).StringFixed(scale)
}

func currencyScale(currency string) int32 {
	if zeroDecimalCurrencies[strings.ToUpper(strings.TrimSpace(currency))] {
		return 0
	}
	return 2
}

func postForm(ctx context.Context, cfg *Config, path string, form url.Values) (obj, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s status %d", ErrResponseInvalid, path, resp.StatusCode)
	}

	var raw obj
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func computeSignature(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, body)
	return strings.ToLower(hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil || parsed <= 0 {
				return 0, nil, fmt.Errorf("%w: invalid timestamp", ErrSignatureInvalid)
			}
			timestamp = parsed
		case "v1":
			if value != "" {
				signatures = append(signatures, strings.ToLower(value))
			}
		}
	}
	if timestamp <= 0 {
		return 0, nil, fmt.Errorf("%w: timestamp is missing", ErrSignatureInvalid)
	}
	if len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: v1 signature is missing", ErrSignatureInvalid)
	}
	return timestamp, signatures, nil
}

func headerLookup(headers map[string]string, key string) string {
	for name, value := range headers {
		if strings.EqualFold(strings.TrimSpace(name), key) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// obj is a decoded JSON object with tolerant field accessors.
type obj map[string]interface{}

func (o obj) str(key string) string {
	switch v := o[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}

func (o obj) num(key string) int64 {
	switch v := o[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		parsed, _ := v.Int64()
		return parsed
	case string:
		parsed, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return parsed
	}
	return 0
}

func (o obj) sub(key string) obj {
	if nested, ok := o[key].(map[string]interface{}); ok {
		return obj(nested)
	}
	return nil
}

// paymentIntentID handles both the string form and the expanded object form
// Stripe uses for the payment_intent field.
func (o obj) paymentIntentID() string {
	switch v := o["payment_intent"].(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		return obj(v).str("id")
	}
	return ""
}
