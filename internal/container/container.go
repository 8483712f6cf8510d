package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/bluestock/ipo-api/config"
	"github.com/bluestock/ipo-api/internal/application"
	"github.com/bluestock/ipo-api/internal/domain/repository"
	"github.com/bluestock/ipo-api/internal/infrastructure/messaging"
	pginfra "github.com/bluestock/ipo-api/internal/infrastructure/postgres"
	"github.com/bluestock/ipo-api/internal/infrastructure/search"
	gcsinfra "github.com/bluestock/ipo-api/internal/infrastructure/storage"
	"github.com/bluestock/ipo-api/internal/interface/middleware"
	"github.com/bluestock/ipo-api/pkg/helpers"
)

// Container holds the components constructed in main and shared by the router.
// Store is required. Redis, RabbitPub, ES and GCS are optional and the
// features depending on them degrade when nil.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  *pginfra.Store
	JWT    *helpers.JWTManager

	Redis     *redis.Client
	RabbitPub *helpers.RabbitPublisher
	ES        *elasticsearch.Client
	GCS       *storage.Client

	// Users and IPOs default to the postgres repositories over Store.
	Users repository.UserRepository
	IPOs  repository.IPORepository
}

func (c *Container) users() repository.UserRepository {
	if c.Users == nil {
		c.Users = pginfra.NewUserRepository(c.Store.DB)
	}
	return c.Users
}

func (c *Container) ipos() repository.IPORepository {
	if c.IPOs == nil {
		c.IPOs = pginfra.NewIPORepository(c.Store.DB)
	}
	return c.IPOs
}

func (c *Container) Cookies() *helpers.CookieManager {
	return helpers.NewCookie(c.Config.CookieDomain, c.Config.CookieSecure)
}

// RateStore is nil when rate limiting is off or Redis is absent.
func (c *Container) RateStore() middleware.RateStore {
	if c.Redis == nil || !c.Config.RateLimitEnabled {
		return nil
	}
	return middleware.NewRedisRateStore(c.Redis)
}

func (c *Container) Notifier() application.ResetNotifier {
	if c.RabbitPub != nil && c.Config.MailSendEnabled {
		return messaging.NewEmailResetNotifier(c.RabbitPub, c.Config.ResetPasswordURL, c.Config.AppName)
	}
	return messaging.LogResetNotifier{Logger: c.Logger}
}

func (c *Container) Index() application.IPOIndex {
	if c.ES == nil {
		return nil
	}
	return search.NewIPOIndex(c.ES, c.Config.ESIPOIndex)
}

func (c *Container) Documents() application.DocumentStore {
	if c.GCS == nil || c.Config.GCSBucket == "" {
		return nil
	}
	return gcsinfra.NewGCSDocuments(c.GCS, c.Config.GCSBucket)
}

func (c *Container) AuthService() *application.AuthService {
	return application.NewAuthService(
		c.users(),
		helpers.NewBcryptHasher(c.Config.BcryptCost),
		helpers.NewResetTokenGenerator(),
		c.Notifier(),
		c.Logger,
	)
}

func (c *Container) IPOService() *application.IPOService {
	return application.NewIPOService(c.ipos(), c.Index(), c.Documents(), c.Logger)
}

// Close releases the optional clients, then drains the pool.
func (c *Container) Close() {
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}
