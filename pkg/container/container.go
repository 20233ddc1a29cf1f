package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"catalog-backend/internal/config"
	infraCache "catalog-backend/internal/infrastructure/cache"
	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/internal/infrastructure/events"
	"catalog-backend/internal/infrastructure/queue"
	"catalog-backend/internal/infrastructure/storage"
	"catalog-backend/pkg/cache"
	txdb "catalog-backend/pkg/database"
	"catalog-backend/pkg/jwt"

	"catalog-backend/internal/domains/category"
	categoryHandler "catalog-backend/internal/domains/category/handler"
	categoryRepo "catalog-backend/internal/domains/category/repository"
	categoryService "catalog-backend/internal/domains/category/service"

	"catalog-backend/internal/domains/product"
	productHandler "catalog-backend/internal/domains/product/handler"
	productRepo "catalog-backend/internal/domains/product/repository"
	productService "catalog-backend/internal/domains/product/service"

	"catalog-backend/internal/domains/image"
	imageHandler "catalog-backend/internal/domains/image/handler"
	imageRepo "catalog-backend/internal/domains/image/repository"
	imageService "catalog-backend/internal/domains/image/service"

	"catalog-backend/internal/domains/migration"
	migrationHandler "catalog-backend/internal/domains/migration/handler"
	migrationService "catalog-backend/internal/domains/migration/service"

	"catalog-backend/internal/domains/employee"
	employeeHandler "catalog-backend/internal/domains/employee/handler"
	employeeRepo "catalog-backend/internal/domains/employee/repository"
	employeeService "catalog-backend/internal/domains/employee/service"

	"catalog-backend/internal/domains/seed"

	"github.com/hibiken/asynq"
)

// Container holds the dependency graph of the catalog. It is built once
// per process by NewContainer and torn down with Cleanup.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Cache      cache.Cache
	Tx         txdb.TxManager
	JWTManager *jwt.Manager
	Storage    storage.Backends
	Processor  *storage.ImageProcessor
	Publisher  events.Publisher
	Queue      *asynq.Client
	Enqueuer   queue.Enqueuer

	// Repositories
	CategoryRepo category.Repository
	ProductRepo  product.Repository
	ImageRepo    image.Repository
	EmployeeRepo employee.Repository

	// Services
	CategoryService  category.Service
	ProductService   product.Service
	ImageService     image.Service
	MigrationService migration.Service
	AuthService      employee.Service
	Seeder           *seed.Seeder

	// Handlers
	CategoryHandler  *categoryHandler.CategoryHandler
	ProductHandler   *productHandler.ProductHandler
	ImageHandler     *imageHandler.ImageHandler
	MigrationHandler *migrationHandler.MigrationHandler
	AuthHandler      *employeeHandler.AuthHandler
}

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("[CONTAINER] Initializing...")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("[CONTAINER] Config loaded (environment: %s)", cfg.App.Environment)

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initCache()
	if err := c.initStorage(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initQueue()
	c.initEvents()

	c.Tx = txdb.NewTxManager(c.DB.Pool)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)

	if err := c.initRepositories(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	if err := c.initServices(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	c.initHandlers()

	log.Println("[CONTAINER] Initialized")
	return c, nil
}

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Pool.Close()
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	return nil
}

// initCache falls back to a no-op cache when Redis is down. The catalog
// reads straight from PostgreSQL in that case.
func (c *Container) initCache() {
	rc := infraCache.NewRedisClient(c.Config.Redis)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		log.Printf("[REDIS] Connection failed (non-critical), caching disabled: %v", err)
		_ = rc.Close()
		c.Cache = cache.Noop{}
		return
	}

	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc.Client)
}

func (c *Container) initStorage() error {
	cfg := c.Config

	c.Storage = storage.Backends{
		Local:        storage.NewLocalStorage(cfg.Storage.UploadPath),
		PreferRemote: cfg.Storage.Driver == storage.KindS3,
	}
	c.Processor = storage.NewImageProcessor(cfg.Storage.MaxUploadBytes)

	if !cfg.S3Enabled() {
		log.Printf("[STORAGE] Local storage at %s", cfg.Storage.UploadPath)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s3, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		if c.Storage.PreferRemote {
			return fmt.Errorf("failed to init s3 storage: %w", err)
		}
		// S3 is only the migration target here; uploads keep working.
		log.Printf("[STORAGE] S3 unavailable, migration to S3 disabled: %v", err)
		return nil
	}
	c.Storage.Remote = s3
	log.Printf("[STORAGE] S3 bucket %s (primary: %t)", cfg.S3.Bucket, c.Storage.PreferRemote)
	return nil
}

// initQueue needs Redis. Without it Enqueuer stays a nil interface and
// async migrations are rejected.
func (c *Container) initQueue() {
	if c.Redis == nil {
		return
	}
	c.Queue = asynq.NewClient(c.RedisOpt())
	c.Enqueuer = queue.NewAsynqEnqueuer(c.Queue)
}

func (c *Container) initEvents() {
	if !c.Config.KafkaEnabled() {
		c.Publisher = events.Nop{}
		return
	}
	c.Publisher = events.NewKafkaPublisher(c.Config.Kafka.Brokers, c.Config.Kafka.Topic)
}

// RedisOpt is the asynq connection shared by the API and the worker.
func (c *Container) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

func (c *Container) initRepositories() error {
	pool := c.DB.Pool

	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.ProductRepo = productRepo.NewPostgresRepository(pool)
	c.ImageRepo = imageRepo.NewPostgresRepository(pool)
	c.EmployeeRepo = employeeRepo.NewPostgresRepository(pool)

	return nil
}

func (c *Container) initServices() error {
	ttl := c.Config.Redis.CacheTTL

	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo, c.Tx, c.Cache, ttl, c.Publisher)

	c.ImageService = imageService.NewImageService(
		c.ImageRepo,
		c.Storage,
		c.Processor,
		c.Tx,
		c.Cache,
		c.Publisher,
	)

	c.ProductService = productService.NewProductService(
		c.ProductRepo,
		c.CategoryService,
		c.ImageService,
		c.Tx,
		c.Cache,
		ttl,
		c.Publisher,
	)

	c.MigrationService = migrationService.NewMigrationService(
		c.ImageRepo,
		c.ImageService,
		c.ProductRepo,
		c.Storage,
		c.Enqueuer,
		c.Cache,
		c.Config.Migration,
	)

	c.AuthService = employeeService.NewAuthService(c.EmployeeRepo, c.JWTManager)

	catalog, err := seed.DefaultCatalog()
	if err != nil {
		return err
	}
	c.Seeder = seed.NewSeeder(c.EmployeeRepo, c.CategoryRepo, c.ProductRepo, c.Tx, c.Cache, catalog)

	return nil
}

func (c *Container) initHandlers() {
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.ImageHandler = imageHandler.NewImageHandler(c.ImageService)
	c.MigrationHandler = migrationHandler.NewMigrationHandler(c.MigrationService)
	c.AuthHandler = employeeHandler.NewAuthHandler(c.AuthService)
}

// Cleanup releases connections. Safe on a partially built container.
func (c *Container) Cleanup() {
	log.Println("[CONTAINER] Cleaning up...")

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Printf("[QUEUE] Failed to close client: %v", err)
		}
	}

	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			log.Printf("[KAFKA] Failed to close writer: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("[REDIS] Failed to close: %v", err)
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("[DATABASE] Connections closed")
	}
}
