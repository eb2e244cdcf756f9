// Package provider wires repositories and services into one container that
// handlers and workers share.
package provider

import (
	"github.com/inkfolio-shop/internal/authz"
	"github.com/inkfolio-shop/internal/cache"
	"github.com/inkfolio-shop/internal/config"
	"github.com/inkfolio-shop/internal/logger"
	"github.com/inkfolio-shop/internal/models"
	"github.com/inkfolio-shop/internal/payment"
	"github.com/inkfolio-shop/internal/queue"
	"github.com/inkfolio-shop/internal/repository"
	"github.com/inkfolio-shop/internal/service"
)

// Container is the dependency injection container.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	ProductRepo      repository.ProductRepository
	CategoryRepo     repository.CategoryRepository
	CartRepo         repository.CartRepository
	OrderRepo        repository.OrderRepository
	CounterRepo      repository.CounterRepository
	NotificationRepo repository.NotificationRepository
	CharacterRepo    repository.CharacterRepository
	ComicRepo        repository.ComicRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	ProductService      *service.ProductService
	CategoryService     *service.CategoryService
	CartService         *service.CartService
	OrderService        *service.OrderService
	NotificationService *service.NotificationService
	CharacterService    *service.CharacterService
	ComicService        *service.ComicService
	UploadService       *service.UploadService
	PaymentProvider     payment.Provider
}

// NewContainer initializes the container. Redis and the queue degrade to
// no-ops when disabled; a broken payment config falls back to no provider,
// which settles orders immediately.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CounterRepo = repository.NewCounterRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.CharacterRepo = repository.NewCharacterRepository(db)
	c.ComicRepo = repository.NewComicRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
	} else {
		c.AuthzService = authzService
		if err := authzService.BootstrapBuiltinRoles(); err != nil {
			logger.Errorw("provider_bootstrap_roles_failed", "error", err)
		}
		c.syncAdminRoles()
	}

	paymentProvider, err := payment.New(&c.Config.Payment)
	if err != nil {
		logger.Errorw("provider_init_payment_failed", "provider", c.Config.Payment.Provider, "error", err)
	} else {
		c.PaymentProvider = paymentProvider
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.Config.Shop.Currency)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.QueueClient, &c.Config.Shop)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.QueueClient)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.CartRepo,
		c.ProductRepo,
		c.CounterRepo,
		c.CartService,
		c.NotificationService,
		c.PaymentProvider,
	)
	c.CharacterService = service.NewCharacterService(c.CharacterRepo)
	c.ComicService = service.NewComicService(c.ComicRepo)
	c.UploadService = service.NewUploadService(c.Config)
}

// syncAdminRoles mirrors each admin's role column into the enforcer so
// accounts created before a restart keep their grants.
func (c *Container) syncAdminRoles() {
	admins, err := c.AdminRepo.List()
	if err != nil {
		logger.Errorw("provider_sync_admin_roles_failed", "error", err)
		return
	}
	for _, admin := range admins {
		if admin.Role == "" {
			continue
		}
		if err := c.AuthzService.AssignRole(admin.ID, admin.Role); err != nil {
			logger.Warnw("provider_assign_role_failed", "admin_id", admin.ID, "role", admin.Role, "error", err)
		}
	}
}
