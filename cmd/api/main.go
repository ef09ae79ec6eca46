package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/analytics"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/auth"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/blog"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/cache"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/config"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/consultations"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/db"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/inquiries"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/middleware"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/notifications"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/orders"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/products"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/programs"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/settings"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/storage"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/users"
	"github.com/innovationimperial/serum-sculpt-sub000/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err == nil {
			err = redisCache.Ping(ctx)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisCache.Close()
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	tokens := &auth.Manager{
		Secret:    []byte(cfg.JWTSecret),
		AccessTTL: time.Duration(cfg.AccessTTLMinutes) * time.Minute,
		Issuer:    "serum-sculpt",
	}

	var (
		orderNotifier   orders.Notifier
		inquiryNotifier inquiries.Notifier
	)
	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.NotifyEmail, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		orderNotifier = mailer
		inquiryNotifier = mailer
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	val := validation.New()
	loc := cfg.Timezone
	urls := storage.NewRewriter(cfg.StorageInternalOrigin, cfg.StoragePublicOrigin)

	blobs, err := storage.NewGridFS(cols.Database)
	if err != nil {
		logger.Error("gridfs bucket failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	storageService := storage.NewService(storage.NewTicketStore(cols.UploadTickets), blobs, urls, cfg.StorageInternalOrigin, time.Duration(cfg.UploadTTLMinutes)*time.Minute)
	storageHandler := storage.NewHandler(storageService, logger)

	usersService := users.NewService(users.NewRepository(cols.Users), loc)
	usersHandler := users.NewHandler(usersService, tokens, val, logger, cfg.CookieSecure)
	if cfg.AdminPassword != "" {
		if _, err := usersService.EnsureAdmin(ctx, "Administrator", cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("admin bootstrap failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("admin account ready", slog.String("email", cfg.AdminEmail))
	}

	productsRepo := products.NewRepository(cols.Products)
	productsService := products.NewService(productsRepo, cacheStore, cfg.CacheTTL(), urls, loc)
	productsHandler := products.NewHandler(productsService, val, logger)

	blogService := blog.NewService(blog.NewRepository(cols.BlogPosts), urls, loc)
	blogHandler := blog.NewHandler(blogService, val, logger)

	consultationsService := consultations.NewService(consultations.NewRepository(cols.Consultations), loc)
	consultationsHandler := consultations.NewHandler(consultationsService, val, logger)

	programsService := programs.NewService(programs.NewRepository(cols.Programs), loc)
	programsHandler := programs.NewHandler(programsService, val, logger)

	ordersService := orders.NewService(orders.NewRepository(cols.Orders), productsService, usersService, orderNotifier, loc)
	ordersHandler := orders.NewHandler(ordersService, val, logger)

	settingsService := settings.NewService(settings.NewRepository(cols.StoreSettings), cacheStore, cfg.CacheTTL(), urls, loc)
	settingsHandler := settings.NewHandler(settingsService, val, logger)

	inquiriesService := inquiries.NewService(inquiries.NewRepository(cols.ContactInquiries), inquiryNotifier, loc)
	inquiriesHandler := inquiries.NewHandler(inquiriesService, val, logger)

	analyticsService := analytics.NewService(analytics.Sources{
		Products:      productsRepo,
		Posts:         blogService,
		Consultations: consultationsService,
		Orders:        ordersService,
		Programs:      programsService,
		Users:         usersService,
	}, loc)
	analyticsHandler := analytics.NewHandler(analyticsService, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	window := time.Duration(cfg.RateLimitWindowSec) * time.Second
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, window)
	checkoutLimiter := middleware.NewRateLimiter(cfg.RateLimitCheckout, window)
	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, window)

	requireAdmin := middleware.RequireAdmin(cfg.AdminAPIKey, tokens, usersService)

	registerRoutes := func(api chi.Router) {
		api.Route("/auth", func(a chi.Router) {
			a.Use(authLimiter.Middleware)
			a.Post("/register", usersHandler.Register)
			a.Post("/login", usersHandler.Login)
			a.Post("/logout", usersHandler.Logout)
		})
		api.Get("/users/{id}", usersHandler.Get)

		api.Get("/products", productsHandler.List)
		api.Get("/products/{id}", productsHandler.Get)
		api.Post("/products/{id}/view", productsHandler.RecordView)
		api.Post("/products/{id}/add-to-cart", productsHandler.RecordAddToCart)

		api.Get("/blog", blogHandler.List)
		api.Get("/blog/{id}", blogHandler.Get)
		api.Post("/blog/{id}/view", blogHandler.RecordView)

		api.Get("/programs", programsHandler.List)
		api.Get("/programs/{id}", programsHandler.Get)

		api.Get("/settings", settingsHandler.Get)

		api.With(contactLimiter.Middleware).Post("/contact", inquiriesHandler.Create)
		api.With(contactLimiter.Middleware).Post("/consultations", consultationsHandler.Book)
		api.With(checkoutLimiter.Middleware, middleware.OptionalUser(tokens)).Post("/orders", ordersHandler.Create)
		api.With(middleware.RequireUser(tokens)).Get("/orders/mine", ordersHandler.Mine)

		api.Get("/storage/files/{id}", storageHandler.File)
		api.Get("/storage/images/{id}", storageHandler.ImageURL)
		api.Post("/storage/upload/{token}", storageHandler.Upload)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(requireAdmin)

			admin.Post("/products", productsHandler.AdminCreate)
			admin.Patch("/products/{id}", productsHandler.AdminUpdate)
			admin.Post("/products/{id}/toggle", productsHandler.AdminToggle)
			admin.Delete("/products/{id}", productsHandler.AdminDelete)

			admin.Post("/blog", blogHandler.AdminCreate)
			admin.Patch("/blog/{id}", blogHandler.AdminUpdate)
			admin.Delete("/blog/{id}", blogHandler.AdminDelete)

			admin.Post("/programs", programsHandler.AdminCreate)
			admin.Patch("/programs/{id}", programsHandler.AdminUpdate)
			admin.Post("/programs/{id}/toggle", programsHandler.AdminToggle)
			admin.Delete("/programs/{id}", programsHandler.AdminDelete)

			admin.Get("/consultations", consultationsHandler.AdminList)
			admin.Get("/consultations/{id}", consultationsHandler.AdminGet)
			admin.Patch("/consultations/{id}", consultationsHandler.AdminUpdate)
			admin.Patch("/consultations/{id}/status", consultationsHandler.AdminStatus)
			admin.Put("/consultations/{id}/notes", consultationsHandler.AdminPreNotes)
			admin.Post("/consultations/{id}/notes", consultationsHandler.AdminAddNote)
			admin.Delete("/consultations/{id}", consultationsHandler.AdminDelete)

			admin.Get("/orders", ordersHandler.AdminList)
			admin.Get("/orders/with-users", ordersHandler.AdminListWithUsers)
			admin.Get("/orders/{id}", ordersHandler.AdminGet)
			admin.Patch("/orders/{id}/status", ordersHandler.AdminStatus)
			admin.Patch("/orders/{id}/payment", ordersHandler.AdminPayment)

			admin.Put("/settings", settingsHandler.AdminUpdate)
			admin.Get("/inquiries", inquiriesHandler.AdminList)

			admin.Get("/users", usersHandler.AdminList)
			admin.Patch("/users/{id}", usersHandler.AdminUpdate)

			admin.Post("/storage/upload-url", storageHandler.AdminUploadURL)

			admin.Get("/analytics/dashboard", analyticsHandler.Dashboard)
			admin.Get("/analytics/revenue", analyticsHandler.Revenue)
			admin.Get("/analytics/operations", analyticsHandler.Operations)
			admin.Get("/analytics/customers", analyticsHandler.Customers)
		})
	}

	r.Route("/api", registerRoutes)
	r.Route("/api/v1", registerRoutes)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
