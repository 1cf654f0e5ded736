package api

import (
	"net"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	_ "github.com/sirpyerre/postboard/docs"
	"github.com/sirpyerre/postboard/internal/api/handler"
	"github.com/sirpyerre/postboard/internal/api/middleware"
	"github.com/sirpyerre/postboard/internal/core/ports"
	"github.com/sirpyerre/postboard/internal/core/service"
	mongorepo "github.com/sirpyerre/postboard/internal/infrastructure/db/mongo"
	rediscache "github.com/sirpyerre/postboard/internal/infrastructure/db/redis"
	"github.com/sirpyerre/postboard/internal/infrastructure/http/handlers"
	"github.com/sirpyerre/postboard/internal/pkg/config"
)

const rateLimiterExpiry = 3 * time.Minute

// Dependencies are the services the router dispatches to.
type Dependencies struct {
	Auth     ports.AuthService
	Posts    ports.PostService
	Comments ports.CommentService
	// Readiness may be nil, in which case /health/ready is not registered.
	Readiness *handlers.HealthDependenciesHandler
}

// Options controls router behaviour that is not a service.
type Options struct {
	APIPrefix     string
	AssetsDir     string
	AuthRateLimit float64
	AuthRateBurst int
	// TrustedProxies are the ranges whose X-Forwarded-For is believed. When
	// empty the client address is the TCP peer and forwarding headers are
	// ignored.
	TrustedProxies []*net.IPNet
	// MetricsEnabled registers the Prometheus middleware and /metrics. The
	// collectors are process-global, so only one router per process may set it.
	MetricsEnabled bool
	Logger         zerolog.Logger
}

// NewDependencies wires the MongoDB repositories, the Redis post cache and
// the core services.
func NewDependencies(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (Dependencies, error) {
	users := mongorepo.NewUserRepository(db)
	posts := mongorepo.NewPostRepository(db)
	comments := mongorepo.NewCommentRepository(db)
	cache := rediscache.NewPostCache(rdb, cfg.Redis.PostCacheTTL)

	tokens := service.NewTokenIssuer(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	})

	auth, err := service.NewAuthService(users, tokens, cfg.Auth.BcryptCost, log.With().Str("component", "auth").Logger())
	if err != nil {
		return Dependencies{}, err
	}

	return Dependencies{
		Auth:     auth,
		Posts:    service.NewPostService(posts, cache, log.With().Str("component", "posts").Logger()),
		Comments: service.NewCommentService(comments, posts, log.With().Str("component", "comments").Logger()),
		Readiness: handlers.NewHealthDependenciesHandler(map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		}),
	}, nil
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, opts Options) *echo.Echo {
	log := opts.Logger

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = clientIPExtractor(opts.TrustedProxies)
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	if opts.MetricsEnabled {
		e.Use(echoprometheus.NewMiddleware("postboard"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	postHandler := handler.NewPostHandler(deps.Posts)
	commentHandler := handler.NewCommentHandler(deps.Comments)
	requireLogin := middleware.Auth(deps.Auth, log.With().Str("component", "auth_gate").Logger())
	throttle := authRateLimiter(opts.AuthRateLimit, opts.AuthRateBurst)

	api := e.Group(opts.APIPrefix)

	// --- Public routes ---
	api.POST("/users", authHandler.Register, throttle)
	api.POST("/auth", authHandler.Login, throttle)
	api.POST("/create-post", postHandler.Seed)

	// --- Protected routes ---
	api.GET("/users/me", authHandler.Me, requireLogin)
	api.GET("/posts", postHandler.List, requireLogin)
	api.GET("/posts/:postId", postHandler.Get, requireLogin)
	api.GET("/post/comment", commentHandler.List, requireLogin)
	api.PUT("/post/:postId/comment", commentHandler.Upsert, requireLogin)
	api.DELETE("/post/:postId/comment", commentHandler.Delete, requireLogin)

	// --- Health checks and docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	if deps.Readiness != nil {
		e.GET("/health/ready", deps.Readiness.Readiness)
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if opts.AssetsDir != "" {
		e.Static("/", opts.AssetsDir)
	}

	return e
}

// clientIPExtractor decides what c.RealIP returns. Forwarding headers are
// honoured only when the peer is one of the trusted proxies.
func clientIPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipNet := range trusted {
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// authRateLimiter throttles credential endpoints per client IP. A
// non-positive limit disables throttling.
func authRateLimiter(limit float64, burst int) echo.MiddlewareFunc {
	if limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(limit),
			Burst:     burst,
			ExpiresIn: rateLimiterExpiry,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
	})
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var evt *zerolog.Event
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Error != nil:
				evt = log.Warn().Err(v.Error)
			default:
				evt = log.Info()
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
