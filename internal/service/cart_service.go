package service

import (
	"strings"
	"time"

	"github.com/inkfolio-shop/internal/config"
	"github.com/inkfolio-shop/internal/constants"
	"github.com/inkfolio-shop/internal/logger"
	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/queue"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/shopspring/decimal"
)

// AddCartItemInput adds a product (optionally a variant) to a session cart.
type AddCartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// ApplyDiscountInput sets a flat discount on a cart. The code is stored as
// given; authenticity is the caller's problem.
type ApplyDiscountInput struct {
	Code   string       `json:"code" binding:"required"`
	Amount models.Money `json:"amount"`
}

// CartTotals is the computed price breakdown of a cart. Unit prices come from
// the current catalog; the per-line snapshots are display-only.
type CartTotals struct {
	Subtotal       models.Money `json:"subtotal"`
	TaxAmount      models.Money `json:"tax_amount"`
	DiscountAmount models.Money `json:"discount_amount"`
	Total          models.Money `json:"total"`
	Currency       string       `json:"currency"`
	ItemCount      int          `json:"item_count"`
}

// CartView is a cart with its computed totals.
type CartView struct {
	Cart   *models.Cart `json:"cart"`
	Totals CartTotals   `json:"totals"`
}

// CartService manages session carts.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	queueClient *queue.Client
	currency    string
	taxRate     decimal.Decimal
	ttl         time.Duration
}

// NewCartService creates a cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, queueClient *queue.Client, shopCfg *config.ShopConfig) *CartService {
	currency := "USD"
	taxRate := decimal.Zero
	ttl := 24 * time.Hour
	if shopCfg != nil {
		if trimmed := strings.ToUpper(strings.TrimSpace(shopCfg.Currency)); trimmed != "" {
			currency = trimmed
		}
		if shopCfg.TaxRate > 0 {
			taxRate = decimal.NewFromFloat(shopCfg.TaxRate)
		}
		if shopCfg.CartTTLMinutes > 0 {
			ttl = time.Duration(shopCfg.CartTTLMinutes) * time.Minute
		}
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		queueClient: queueClient,
		currency:    currency,
		taxRate:     taxRate,
		ttl:         ttl,
	}
}

// Get returns the session's cart with totals. A missing or expired cart
// yields an empty view rather than an error.
func (s *CartService) Get(sessionToken string) (*CartView, error) {
	cart, err := s.liveCart(sessionToken)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.emptyView(sessionToken), nil
	}
	totals, err := s.CalculateTotals(cart)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: cart, Totals: totals}, nil
}

// AddItem adds quantity of a product/variant to the cart, creating the cart
// on first use. Lines merge on the (product, variant) pair; the price
// snapshot is taken only when the line is first inserted.
func (s *CartService) AddItem(sessionToken string, input AddCartItemInput) (*CartView, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, variant, err := s.resolveSellable(input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}

	cart, err := s.liveCart(sessionToken)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{
			SessionToken: strings.TrimSpace(sessionToken),
			ExpiresAt:    time.Now().Add(s.ttl),
		}
		if err := s.cartRepo.Create(cart); err != nil {
			return nil, err
		}
	}

	existing, err := s.cartRepo.GetItem(cart.ID, input.ProductID, input.VariantID)
	if err != nil {
		return nil, err
	}
	newQuantity := input.Quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if variant != nil && newQuantity > variant.Stock {
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		existing.Quantity = newQuantity
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, err
		}
	} else {
		item := &models.CartItem{
			CartID:      cart.ID,
			ProductID:   input.ProductID,
			VariantID:   input.VariantID,
			Quantity:    input.Quantity,
			PriceAtTime: UnitPrice(product, variant),
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}

	if err := s.touch(cart); err != nil {
		return nil, err
	}
	return s.Get(sessionToken)
}

// UpdateItemQuantity sets a line's quantity; zero removes the line.
func (s *CartService) UpdateItemQuantity(sessionToken string, itemID uint, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	cart, item, err := s.ownedItem(sessionToken, itemID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := s.cartRepo.DeleteItem(item.ID); err != nil {
			return nil, err
		}
	} else {
		if item.VariantID > 0 {
			variant, err := s.productRepo.GetVariant(item.VariantID)
			if err != nil {
				return nil, err
			}
			if variant == nil {
				return nil, ErrVariantNotFound
			}
			if quantity > variant.Stock {
				return nil, ErrInsufficientStock
			}
		}
		item.Quantity = quantity
		if err := s.cartRepo.UpdateItem(item); err != nil {
			return nil, err
		}
	}

	if err := s.touch(cart); err != nil {
		return nil, err
	}
	return s.Get(sessionToken)
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(sessionToken string, itemID uint) (*CartView, error) {
	cart, item, err := s.ownedItem(sessionToken, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}
	if err := s.touch(cart); err != nil {
		return nil, err
	}
	return s.Get(sessionToken)
}

// Clear empties the cart.
func (s *CartService) Clear(sessionToken string) error {
	cart, err := s.liveCart(sessionToken)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return err
	}
	return s.touch(cart)
}

// ApplyDiscount sets a flat discount amount and code on the cart. The code
// is not validated here.
func (s *CartService) ApplyDiscount(sessionToken string, input ApplyDiscountInput) (*CartView, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" || input.Amount.Decimal.IsNegative() {
		return nil, ErrInvalidDiscount
	}
	cart, err := s.liveCart(sessionToken)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if err := s.cartRepo.UpdateDiscount(cart.ID, code, input.Amount); err != nil {
		return nil, err
	}
	if err := s.touch(cart); err != nil {
		return nil, err
	}
	return s.Get(sessionToken)
}

// RemoveDiscount clears the cart's discount code and amount.
func (s *CartService) RemoveDiscount(sessionToken string) (*CartView, error) {
	cart, err := s.liveCart(sessionToken)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if err := s.cartRepo.UpdateDiscount(cart.ID, "", models.NewMoneyFromDecimal(decimal.Zero)); err != nil {
		return nil, err
	}
	if err := s.touch(cart); err != nil {
		return nil, err
	}
	return s.Get(sessionToken)
}

// CalculateTotals prices a cart from the current catalog. Lines whose
// product has vanished or been unpublished are skipped.
func (s *CartService) CalculateTotals(cart *models.Cart) (CartTotals, error) {
	totals := CartTotals{Currency: s.currency}
	subtotal := decimal.Zero
	itemCount := 0

	for i := range cart.Items {
		item := &cart.Items[i]
		product, variant, err := s.lookupSellable(item.ProductID, item.VariantID)
		if err != nil {
			return totals, err
		}
		if product == nil {
			continue
		}
		if item.VariantID > 0 && variant == nil {
			continue
		}
		unit := UnitPrice(product, variant)
		subtotal = subtotal.Add(unit.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
		itemCount += item.Quantity
	}

	tax := subtotal.Mul(s.taxRate).Round(2)
	discount := cart.DiscountAmount.Decimal
	total := subtotal.Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	totals.Subtotal = models.NewMoneyFromDecimal(subtotal)
	totals.TaxAmount = models.NewMoneyFromDecimal(tax)
	totals.DiscountAmount = models.NewMoneyFromDecimal(discount)
	totals.Total = models.NewMoneyFromDecimal(total)
	totals.ItemCount = itemCount
	return totals, nil
}

// ExpireCart drops a cart if its expiry has passed. Used by the worker.
func (s *CartService) ExpireCart(cartID uint) error {
	cart, err := s.cartRepo.GetByID(cartID, false)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	if cart.ExpiresAt.After(time.Now()) {
		return nil
	}
	logger.Infow("cart_expired", "cart_id", cartID, "session_token", cart.SessionToken)
	return s.cartRepo.Delete(cartID)
}

// PurgeExpired removes every expired cart. Used by the worker as a sweep.
func (s *CartService) PurgeExpired() (int64, error) {
	return s.cartRepo.DeleteExpired(time.Now())
}

// TTL exposes the configured idle window.
func (s *CartService) TTL() time.Duration {
	return s.ttl
}

// liveCart loads the session's cart, lazily dropping it when expired.
func (s *CartService) liveCart(sessionToken string) (*models.Cart, error) {
	token := strings.TrimSpace(sessionToken)
	if token == "" {
		return nil, ErrCartNotFound
	}
	cart, err := s.cartRepo.GetBySessionToken(token, true)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, nil
	}
	if !cart.ExpiresAt.IsZero() && cart.ExpiresAt.Before(time.Now()) {
		if err := s.cartRepo.Delete(cart.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return cart, nil
}

func (s *CartService) ownedItem(sessionToken string, itemID uint) (*models.Cart, *models.CartItem, error) {
	cart, err := s.liveCart(sessionToken)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, ErrCartNotFound
	}
	item, err := s.cartRepo.GetItemByID(itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil || item.CartID != cart.ID {
		return nil, nil, ErrCartItemNotFound
	}
	return cart, item, nil
}

// touch refreshes the idle window and schedules the delayed expiry task.
func (s *CartService) touch(cart *models.Cart) error {
	expiresAt := time.Now().Add(s.ttl)
	if err := s.cartRepo.Touch(cart.ID, expiresAt); err != nil {
		return err
	}
	if err := s.queueClient.EnqueueCartExpire(queue.CartExpirePayload{CartID: cart.ID}, s.ttl); err != nil {
		logger.Warnw("cart_expire_enqueue_failed", "cart_id", cart.ID, "error", err)
	}
	return nil
}

func (s *CartService) resolveSellable(productID, variantID uint) (*models.Product, *models.ProductVariant, error) {
	product, variant, err := s.lookupSellable(productID, variantID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, ErrProductNotFound
	}
	if variantID > 0 && variant == nil {
		return nil, nil, ErrVariantNotFound
	}
	return product, variant, nil
}

// lookupSellable returns the published product and its active variant, or
// nils when either is unavailable.
func (s *CartService) lookupSellable(productID, variantID uint) (*models.Product, *models.ProductVariant, error) {
	product, err := s.productRepo.GetByID(productID, false)
	if err != nil {
		return nil, nil, err
	}
	if product == nil || product.Status != constants.ProductStatusPublished {
		return nil, nil, nil
	}
	if variantID == 0 {
		return product, nil, nil
	}
	variant, err := s.productRepo.GetVariant(variantID)
	if err != nil {
		return nil, nil, err
	}
	if variant == nil || variant.ProductID != product.ID || !variant.IsActive {
		return product, nil, nil
	}
	return product, variant, nil
}

func (s *CartService) emptyView(sessionToken string) *CartView {
	return &CartView{
		Cart: &models.Cart{
			SessionToken: strings.TrimSpace(sessionToken),
			Items:        []models.CartItem{},
		},
		Totals: CartTotals{
			Subtotal:       models.NewMoneyFromDecimal(decimal.Zero),
			TaxAmount:      models.NewMoneyFromDecimal(decimal.Zero),
			DiscountAmount: models.NewMoneyFromDecimal(decimal.Zero),
			Total:          models.NewMoneyFromDecimal(decimal.Zero),
			Currency:       s.currency,
		},
	}
}
