package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edirooss/market-admin/internal/config"
	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/edirooss/market-admin/internal/http/handler"
	mw "github.com/edirooss/market-admin/internal/http/middleware"
	"github.com/edirooss/market-admin/internal/principal"
	"github.com/edirooss/market-admin/internal/repo"
	"github.com/edirooss/market-admin/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var configPath string

func init() {
	// Handle version display
	parseFlags()
}

func main() {
	// Read env
	isDev := os.Getenv("ENV") == "dev"

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Create Zap logger
	log := buildLogger(cfg.LogLevel)
	defer log.Sync()
	log = log.Named("main")

	// Create Gin router
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = zap.NewStdLog(log.Named("gin")).Writer() // Configure Gin's logger to use Zap
	r := gin.New()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Backend gateway
	gw, err := gateway.NewClient(log, cfg.BackendBaseURL, gateway.WithMetrics(gateway.NewMetrics(reg)))
	if err != nil {
		log.Fatal("gateway client creation failed", zap.Error(err))
	}

	// Redis-backed state: sessions and token revocations
	rp := repo.NewRepository(log, cfg.RedisAddr)
	defer rp.Close()
	if err := rp.Ping(context.Background()); err != nil {
		log.Warn("redis unreachable at startup", zap.Error(err))
	}

	usersess, err := service.NewUserSessionService(isDev, cfg.RedisAddr, []byte(cfg.SessionSecret))
	if err != nil {
		log.Fatal("user session service creation failed", zap.Error(err))
	}
	authsvc := service.NewAuthService(log, usersess, rp.Revocations, gw, cfg.IdentityJWTSecret)

	{
		r.Use(gin.Recovery()) // Recovery first (outermost)
		r.Use(mw.RequestID()) // Attach request ID for tracing; early in the chain so it's available everywhere

		if isDev { // Enable CORS for local Vite dev
			origins := cfg.AllowedOrigins
			if len(origins) == 0 {
				origins = []string{"http://localhost:5173", "http://localhost:4173", "http://localhost:3000", "http://127.0.0.1:3000"}
			}
			r.Use(cors.New(cors.Config{
				AllowOrigins:     origins,
				AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"X-Request-ID", "Content-Type", "X-CSRF-Token"},
				ExposeHeaders:    []string{"X-Request-ID", "X-Total-Count", "Location"},
				AllowCredentials: true, // Allow cookies in dev
				MaxAge:           12 * time.Hour,
			}))
		} else { // Behind Nginx + TLS
			r.SetTrustedProxies([]string{"127.0.0.1"})
			r.Use(secure.New(secure.Config{
				SSLProxyHeaders: map[string]string{
					"X-Forwarded-Proto": "https", // Fix scheme for secure cookies
				},
				FrameDeny:          true,
				ContentTypeNosniff: true,
			}))
		}

		r.Use(usersess.Middleware()) // Attach user cookie-based session for auth

		r.Use(accessLog(log.Named("access"), authsvc)) // Observability (logger, tracing)

		r.Use(func(c *gin.Context) {
			// Enforce a hard max request body; the largest legitimate body is an upload.
			// Protects against oversized or drip-fed request body ("slow body" / RUDY DoS)
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, handler.UploadBodyLimit)
			c.Next()
		})
	}

	// Register route handlers
	{
		mkth := handler.NewMarketsHandler(log, gw)

		// --- Public endpoints (no auth) ---
		{
			r.GET("/api/ping", handler.Ping)
			r.GET("/api/ready", handler.Ready(log, rp))
			r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
			r.GET("/api/public/markets", mkth.ListPublicMarkets)
			r.GET("/api/public/markets/:id", mw.RequireValidID(), mkth.GetPublicMarket)

			{
				usrsesshndler := handler.NewUserSessionsHandler(log, authsvc)
				r.POST("/api/login", mw.RateLimitByClientIP(cfg.LoginRatePerSec, cfg.LoginBurst), usrsesshndler.Login)
				r.POST("/api/logout", usrsesshndler.Logout)

				// --- Protected endpoints (auth required) ---
				authed := r.Group("", mw.Authentication(authsvc), mw.ValidateSessionCSRF(usersess), mw.LimitConcurrentRequests(cfg.MaxConcurrentRequests))
				authed.GET("/api/me", usrsesshndler.Me)
				authed.GET("/api/csrf", handler.IssueSessionCSRF(usersess))

				registerResourceRoutes(authed, log, gw, mkth)
			}
		}
	}

	httpsrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 2 * time.Second,  // kills header-drip Slowloris
		ReadTimeout:       30 * time.Second, // full request read (incl. a 5MB upload)
		WriteTimeout:      30 * time.Second, // avoid forever-hangs on writes
		IdleTimeout:       60 * time.Second, // keep-alive cap
		MaxHeaderBytes:    1 << 20,          // 1MB cap
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("running HTTP server", zap.String("addr", httpsrv.Addr), zap.String("version", config.Version))
		if err := httpsrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpsrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
	log.Info("server closed")
}

// registerResourceRoutes mounts the marketplace resources on the authenticated group.
func registerResourceRoutes(authed *gin.RouterGroup, log *zap.Logger, gw *gateway.Client, mkth *handler.MarketsHandler) {
	requireValidID := mw.RequireValidID()
	managers := mw.Authorization(principal.Owner, principal.Admin) // owners and platform admins

	// --- Markets ---
	authed.GET("/api/markets", mkth.ListMarkets)
	authed.POST("/api/markets", mkth.CreateMarket)
	authed.GET("/api/markets/:id", requireValidID, mkth.GetMarket)
	authed.GET("/api/markets/:id/delivery-settings", requireValidID, mkth.GetDeliverySettings)
	authed.POST("/api/markets/:id/delivery-settings", requireValidID, mkth.SaveDeliverySettings)
	authed.GET("/api/markets/:id/opening-hours", requireValidID, mkth.GetOpeningHours)
	authed.PUT("/api/markets/:id/opening-hours", requireValidID, mkth.UpdateOpeningHours)

	// --- Users ---
	usrhndlr := handler.NewUsersHandler(log, gw)
	authed.GET("/api/users", managers, usrhndlr.ListUsers)
	authed.GET("/api/users/:id", requireValidID, usrhndlr.GetUser)
	authed.PATCH("/api/users/:id", managers, requireValidID, usrhndlr.UpdateUser)

	// --- Chats ---
	chthndlr := handler.NewChatsHandler(log, gw)
	authed.GET("/api/chats", chthndlr.ListChats)
	authed.GET("/api/chats/:id", requireValidID, chthndlr.GetChat)
	authed.GET("/api/chats/:id/messages", requireValidID, chthndlr.ListMessages)
	authed.POST("/api/chats/:id/messages", requireValidID, chthndlr.SendMessage)
	authed.POST("/api/chats/:id/read", requireValidID, chthndlr.MarkAsRead)

	// --- Reports, uploads, geocoding ---
	authed.GET("/api/reports/summary", handler.NewReportsHandler(log, gw).Summary)
	authed.POST("/api/uploads", handler.NewUploadsHandler(log, gw).Upload)
	geohndlr := handler.NewGeocodingHandler(log, gw)
	authed.GET("/api/geocoding/search", geohndlr.Search)
	authed.GET("/api/geocoding/reverse", geohndlr.Reverse)
}

// parseFlags prints build metadata and exits when -v/--version is provided.
func parseFlags() {
	v := flag.Bool("v", false, "print version and exit")
	flag.BoolVar(v, "version", false, "print version and exit")
	flag.StringVar(&configPath, "config", "market-admin.yaml", "path to the YAML config file")
	flag.Parse()

	if *v {
		fmt.Printf("market-admin %s (commit %s, built %s)\n", config.Version, config.GitCommit, config.BuildDate)
		os.Exit(0)
	}
}

// accessLog is a Gin middleware that records HTTP request/response details with Zap after handling.
func accessLog(log *zap.Logger, authsvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		// collect all errors from Gin context
		var errs []error
		for _, ge := range c.Errors {
			if ge.Err != nil {
				errs = append(errs, ge.Err)
			}
		}
		// errors.Join returns nil if errs is empty
		joinedErr := errors.Join(errs...)

		fields := []zap.Field{
			zap.String("request_id", mw.GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Duration("latency", latency),
		}
		if p := authsvc.WhoAmI(c); p != nil {
			fields = append(fields, zap.Dict("auth",
				zap.String("id", p.ID),
				zap.String("kind", p.PrincipalType.String()),
				zap.String("credential", p.CredentialType.String()),
			))
		}
		if joinedErr != nil {
			fields = append(fields, zap.Error(joinedErr))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// helpers

func buildLogger(level string) *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zap.InfoLevel
	}
	logConfig.Level.SetLevel(lvl)
	return zap.Must(logConfig.Build())
}
