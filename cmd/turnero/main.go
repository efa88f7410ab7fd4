package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/nahuel-dev/turnero/internal/booking"
	"github.com/nahuel-dev/turnero/internal/handlers"
	"github.com/nahuel-dev/turnero/internal/outbox"
	"github.com/nahuel-dev/turnero/internal/storage"
	"github.com/nahuel-dev/turnero/libs/auth"
	"github.com/nahuel-dev/turnero/libs/config"
	"github.com/nahuel-dev/turnero/libs/db"
	"github.com/nahuel-dev/turnero/libs/httpx"
	"github.com/nahuel-dev/turnero/libs/kafkax"
	otelx "github.com/nahuel-dev/turnero/libs/otel"
	"github.com/nahuel-dev/turnero/libs/runtime"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "turnero")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	jwtSecret, err := config.RequiredString("JWT_SECRET")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	appts := storage.NewAppointmentRepository(pool)
	clients := storage.NewClientRepository(pool)
	rules := storage.NewRuleRepository(pool)
	services := storage.NewServiceRepository(pool)
	staff := storage.NewStaffRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	guard := booking.NewGuard(appts)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: config.Duration("OUTBOX_POLL_EVERY", 2*time.Second),
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	go outboxPublisher.Run(ctx)

	bookingHandler := handlers.NewBookingHandler(appts, clients, rules, services, outboxRepo, guard, logger)
	staffHandler := handlers.NewStaffHandler(appts, clients, rules, services, outboxRepo, logger)
	authHandler := handlers.NewAuthHandler(staff, jwtSecret, config.Duration("TOKEN_TTL", 12*time.Hour), logger)

	// Public booking endpoints are rate limited per client IP; Redis keeps the
	// window consistent across instances, with an in-process fallback.
	publicLimit := config.Int("PUBLIC_RATE_LIMIT", 60)
	publicWindow := config.Duration("PUBLIC_RATE_WINDOW", time.Minute)
	var limit httpx.Middleware
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		limit = httpx.NewRedisRateLimiter(rdb, publicLimit, publicWindow, "turnero:public").Middleware(logger, true)
	} else {
		limit = httpx.NewRateLimiter(publicLimit, publicWindow).Middleware()
	}

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if brokers := config.String("KAFKA_BROKERS", ""); brokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	mux.Handle("/api/v1/public/slots", httpx.Chain(http.HandlerFunc(bookingHandler.Slots), limit))
	mux.Handle("/api/v1/public/book", httpx.Chain(http.HandlerFunc(bookingHandler.Book), limit))
	mux.Handle("/api/v1/public/cancel", httpx.Chain(http.HandlerFunc(bookingHandler.Cancel), limit))
	mux.Handle("/api/v1/auth/login", httpx.Chain(http.HandlerFunc(authHandler.Login), limit))

	requireStaff := auth.RequireRole(jwtSecret, "ADMIN", "STAFF")
	requireAdmin := auth.RequireRole(jwtSecret, "ADMIN")
	mux.Handle("/api/v1/appointments", requireStaff(http.HandlerFunc(staffHandler.Appointments)))
	mux.Handle("/api/v1/appointments/status", requireStaff(http.HandlerFunc(staffHandler.UpdateStatus)))
	mux.Handle("/api/v1/clients", requireStaff(http.HandlerFunc(staffHandler.Clients)))
	mux.Handle("/api/v1/services", requireStaff(http.HandlerFunc(staffHandler.Services)))
	mux.Handle("/api/v1/services/rules", requireStaff(http.HandlerFunc(staffHandler.Rules)))
	mux.Handle("/api/v1/services/rules/delete", requireStaff(http.HandlerFunc(staffHandler.DeleteRule)))
	mux.Handle("/api/v1/admin/appointments/delete", requireAdmin(http.HandlerFunc(staffHandler.DeleteAppointment)))

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithRecover(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: strings.Split(config.String("CORS_ALLOWED_ORIGINS", ""), ","),
			MaxAge:         10 * time.Minute,
		}),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "turnero")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
