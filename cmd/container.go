package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/intake/pkg/config"
	"github.com/Abraxas-365/intake/pkg/fsx"
	"github.com/Abraxas-365/intake/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/intake/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/intake/pkg/iam/auth"
	"github.com/Abraxas-365/intake/pkg/logx"
	"github.com/Abraxas-365/intake/pkg/metrics"
	"github.com/Abraxas-365/intake/pkg/validatex"
	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/Abraxas-365/intake/recruitment/applicant/applicantapi"
	"github.com/Abraxas-365/intake/recruitment/applicant/applicantinfra"
	"github.com/Abraxas-365/intake/recruitment/applicant/applicantsrv"
	"github.com/Abraxas-365/intake/recruitment/applicant/worker"
	"github.com/Abraxas-365/intake/recruitment/identity"
	"github.com/Abraxas-365/intake/recruitment/identity/identityapi"
	"github.com/Abraxas-365/intake/recruitment/project/projectapi"
	"github.com/Abraxas-365/intake/recruitment/project/projectinfra"
	"github.com/Abraxas-365/intake/recruitment/project/projectsrv"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics

	// Events
	Queue          *applicantinfra.RedisQueue
	KafkaPublisher *applicantinfra.KafkaPublisher
	Publisher      applicant.EventPublisher

	// Services
	TokenService     *auth.JWTService
	ProjectService   *projectsrv.ProjectService
	ApplicantService *applicantsrv.Service

	// Workers
	NotificationWorker *worker.NotificationWorker

	// API Handlers
	IdentityHandlers  *identityapi.Handlers
	ProjectHandlers   *projectapi.Handlers
	ApplicantHandlers *applicantapi.Handlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initEvents()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	cfg := c.Config

	// 1. Database Connection
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	c.DB = db

	// 2. Redis Connection
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := c.Redis.Ping(context.Background()).Err(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. Object storage
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.Storage.Region))
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(awsCfg), cfg.Storage.Bucket, cfg.Storage.BasePath)
	default:
		logx.Warnf("Using local storage at %s", cfg.Storage.LocalRoot)
		c.FileSystem = fsxlocal.NewLocalFileSystem(cfg.Storage.LocalRoot)
	}

	// 4. Metrics
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.New(c.Registry)
}

func (c *Container) initEvents() {
	cfg := c.Config.Events

	c.Queue = applicantinfra.NewRedisQueue(c.Redis, cfg.QueueName)

	switch cfg.Backend {
	case config.EventsBackendKafka:
		publisher, err := applicantinfra.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logx.Fatalf("Failed to create Kafka publisher: %v", err)
		}
		c.KafkaPublisher = publisher
		c.Publisher = publisher
		logx.Infof("Publishing applicant events to Kafka topic %s", cfg.KafkaTopic)
	default:
		c.Publisher = c.Queue
	}

	if cfg.Backend == config.EventsBackendRedis && !cfg.WorkerDisabled {
		c.NotificationWorker = worker.NewNotificationWorker(
			c.Queue,
			applicantinfra.NewConsoleNotifier(),
			c.Metrics,
			worker.Config{
				Workers:     cfg.Workers,
				PollTimeout: cfg.PollTimeout,
				MaxAttempts: cfg.MaxAttempts,
				RetryDelay:  cfg.RetryDelay,
				MoveEvery:   30 * time.Second,
			},
		)
	}
}

func (c *Container) initServices() {
	// --- Repositories ---
	projectRepo := projectinfra.NewPostgresProjectRepository(c.DB)
	applicantRepo := applicantinfra.NewPostgresApplicantRepository(c.DB)

	// --- Infrastructure Services ---
	locker := applicantinfra.NewRedisLocker(c.Redis, "intake:lock:", c.Config.Intake.LockTTL, c.Config.Intake.LockWait)
	validator := validatex.MustNew(identity.RegisterValidations)

	c.TokenService = auth.NewJWTServiceFromConfig(c.Config.Auth.JWT)

	// --- Domain Services ---
	c.ProjectService = projectsrv.NewProjectService(projectRepo, validator)
	c.ApplicantService = applicantsrv.NewService(
		applicantRepo,
		projectRepo,
		locker,
		c.Publisher,
		c.FileSystem,
		validator,
		c.Metrics,
	)

	// --- Handlers ---
	c.IdentityHandlers = identityapi.NewHandlers(c.Metrics)
	c.ProjectHandlers = projectapi.NewHandlers(c.ProjectService)
	c.ApplicantHandlers = applicantapi.NewHandlers(c.ApplicantService)

	// --- Middleware ---
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)
}

// Close releases connections in reverse order of creation
func (c *Container) Close() {
	if c.KafkaPublisher != nil {
		c.KafkaPublisher.Close()
	}
	if err := c.Redis.Close(); err != nil {
		logx.Warnf("Failed to close Redis: %v", err)
	}
	if err := c.DB.Close(); err != nil {
		logx.Warnf("Failed to close database: %v", err)
	}
}
