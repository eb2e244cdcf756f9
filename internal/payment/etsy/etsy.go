// Package etsy implements the Etsy redirect channel. There is no API
// integration: checkout simply hands the buyer off to the configured Etsy
// shop, so charges stay pending and refunds and webhooks are unsupported.
package etsy

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrConfigInvalid      = errors.New("etsy config invalid")
	ErrRefundUnsupported  = errors.New("etsy refunds are handled on etsy.com")
	ErrWebhookUnsupported = errors.New("etsy does not deliver webhooks")
)

// Config holds the Etsy channel settings.
type Config struct {
	ShopURL string `json:"shop_url"`
}

// ValidateConfig checks that the channel is usable.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	shopURL := strings.TrimSpace(cfg.ShopURL)
	if shopURL == "" {
		return fmt.Errorf("%w: shop_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(shopURL); err != nil {
		return fmt.Errorf("%w: shop_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// RedirectURL returns the shop URL the buyer is sent to.
func RedirectURL(cfg *Config) (string, error) {
	if err := ValidateConfig(cfg); err != nil {
		return "", err
	}
	return strings.TrimSpace(cfg.ShopURL), nil
}
