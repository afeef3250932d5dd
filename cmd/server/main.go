package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"quickcart/internal/api"
	"quickcart/internal/config"
	"quickcart/internal/controller"
	"quickcart/internal/invoice"
	"quickcart/internal/logger"
	"quickcart/internal/pricing"
	"quickcart/internal/rabbit"
	"quickcart/internal/repository"
	"quickcart/internal/scheduler"
	"quickcart/internal/server"
	"quickcart/internal/service"
	"quickcart/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Conexión a MongoDB (historial y, opcionalmente, caché)
	db := connectMongo(ctx, cfg, log)
	if db == nil && cfg.StoreDriver == "mongo" {
		log.Fatal("STORE_DRIVER=mongo requiere MongoDB")
	}

	st := newStore(ctx, cfg, db, log)

	var history service.HistoryRepository = repository.NewMemoryHistoryRepository()
	if db != nil {
		history = repository.NewMongoHistoryRepository(db)
	}

	// Conexión a RabbitMQ (opcional)
	var notifier service.Notifier = service.NewLogNotifier(log)
	var ch *amqp091.Channel
	if cfg.RabbitURL != "" {
		conn, err := amqp091.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatal("error conectando a RabbitMQ", zap.Error(err))
		}
		defer conn.Close()
		if ch, err = conn.Channel(); err != nil {
			log.Fatal("error creando canal en RabbitMQ", zap.Error(err))
		}
		pub, err := rabbit.NewPublisher(ch, cfg.NotifyExchange)
		if err != nil {
			log.Fatal("error declarando exchange de notificaciones", zap.Error(err))
		}
		notifier = pub
	}

	// Servicios
	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, cfg.ServiceToken)
	calc := pricing.NewCalculator(pricing.Config{
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		DeliveryFee:           cfg.DeliveryFee,
		HandlingFee:           cfg.HandlingFee,
	})
	assembler := invoice.NewAssembler(invoice.Merchant{
		Name:    cfg.MerchantName,
		Address: cfg.MerchantAddress,
		Email:   cfg.MerchantEmail,
		Phone:   cfg.MerchantPhone,
	}, calc)

	orderService := service.NewOrderService(client, st, history, notifier, calc, assembler, log)
	checkoutService := service.NewCheckoutService(client, orderService, notifier, calc, cfg.OfflineOrders, log)
	addressService := service.NewAddressService(client, st, log)
	catalogService := service.NewCatalogService(client, st, !cfg.IsProduction(), log)
	authService := service.NewAuthService(client, st, log)

	if ch != nil {
		ex := rabbit.Exchanges{OrdersPlaced: cfg.OrdersExchange, StatusChanged: cfg.StatusExchange}
		if err := rabbit.SetupConsumers(ctx, ch, orderService, ex, log); err != nil {
			log.Fatal("error configurando consumidores", zap.Error(err))
		}
	}

	// Polling
	sched := scheduler.New(log)
	sched.Add(scheduler.Task{Name: "orders", Interval: cfg.PollInterval, Timeout: cfg.PollTimeout, Run: orderService.Refresh})
	sched.Add(scheduler.Task{Name: "catalog", Interval: cfg.PollInterval, Timeout: cfg.PollTimeout, Run: catalogService.Refresh})
	if err := sched.Start(ctx); err != nil {
		log.Fatal("error arrancando el scheduler", zap.Error(err))
	}

	// Router
	r := server.NewRouter(server.Controllers{
		Orders:    controller.NewOrderController(orderService),
		Checkout:  controller.NewCheckoutController(checkoutService),
		Addresses: controller.NewAddressController(addressService),
		Catalog:   controller.NewCatalogController(catalogService),
		Auth:      controller.NewAuthController(authService),
	}, authService, cfg.AllowedOrigins, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("QuickCart ejecutándose", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("error del servidor HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("apagando servidor")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("cierre forzado del servidor", zap.Error(err))
	}
}

// connectMongo devuelve nil si Mongo no responde: el servicio sigue con el
// historial en memoria.
func connectMongo(ctx context.Context, cfg *config.Config, log *zap.Logger) *mongo.Database {
	if cfg.MongoURI == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err == nil {
		err = client.Ping(ctx, nil)
	}
	if err != nil {
		log.Warn("MongoDB no disponible, historial en memoria", zap.Error(err))
		return nil
	}
	return client.Database(cfg.MongoDBName)
}

func newStore(ctx context.Context, cfg *config.Config, db *mongo.Database, log *zap.Logger) store.Store {
	switch cfg.StoreDriver {
	case "redis":
		rs, err := store.NewRedisStore(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Fatal("REDIS_URL inválida", zap.Error(err))
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			log.Fatal("Redis no disponible", zap.Error(err))
		}
		return rs
	case "mongo":
		return store.NewMongoStore(db)
	default:
		return store.NewMemoryStore()
	}
}
