package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"oglasnik/importer/internal/ai"
	"oglasnik/importer/internal/api"
	"oglasnik/importer/internal/config"
	"oglasnik/importer/internal/domain"
	"oglasnik/importer/internal/fetch"
	"oglasnik/importer/internal/queue"
	"oglasnik/importer/internal/repository"
	"oglasnik/importer/internal/resolve"
	"oglasnik/importer/internal/service"
	"oglasnik/importer/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Taxonomy     *domain.Taxonomy
	Fetcher      fetch.PageFetcher
	Repository   repository.ListingRepository
	Queue        queue.Queue
	StateManager state.StateManager

	Service *service.Service
	Server  *api.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	taxonomy, err := domain.LoadTaxonomy(cfg.Taxonomy.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	container.Taxonomy = taxonomy
	log.Infof("Loaded taxonomy with %d categories from %s", len(taxonomy.Categories), cfg.Taxonomy.Path)

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}
	container.db = db
	container.Repository = repository.NewListingRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	// Test connection
	_, err = rdb.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(rdb, cfg.Redis)
	if err != nil {
		return nil, err
	}
	container.Queue = redisQueue

	container.redis = rdb
	stateManager := state.NewRedisStateManager(rdb)
	container.StateManager = stateManager

	fetcher := fetch.NewFetcher(cfg.Fetcher)
	container.Fetcher = fetcher

	// A nil *Gemini must stay a nil interface, otherwise every nil check
	// downstream passes and the AI stages run against a dead provider.
	var provider ai.Provider
	if gemini := ai.NewGemini(cfg.Gemini); gemini != nil {
		provider = gemini
	}

	resolver := resolve.NewResolver(taxonomy, provider)

	svc := service.NewService(
		fetcher,
		provider,
		resolver,
		taxonomy,
		redisQueue,
		stateManager,
		container.Repository,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)
	container.Service = svc

	container.Server = api.NewServer(cfg.Server, svc)

	return container, nil
}

// Run serves the HTTP API and the batch workers until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Run(ctx)
	})

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Fetcher.MaxWorkers)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	c.redis.Close()

	log.Info("Container shut down successfully")
	return nil
}
