package main

import (
	"log"
	"os"
	"time"

	"joyeria-backend/internal/controllers/http"
	"joyeria-backend/internal/domain"
	mmysql "joyeria-backend/internal/infra/mysql"
	"joyeria-backend/internal/infra/payment"
	"joyeria-backend/internal/infra/rabbitmq"
	mysqlrepo "joyeria-backend/internal/repository/mysql"
	"joyeria-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	productRepo := mysqlrepo.NewProductRepository(db)
	orderRepo := mysqlrepo.NewOrderRepository(db)
	configRepo := mysqlrepo.NewConfigRepository(db)

	fallback := domain.DefaultConfig()
	fallback.GatewayAccessToken = os.Getenv("GATEWAY_ACCESS_TOKEN")
	fallback.GatewayPublicKey = os.Getenv("GATEWAY_PUBLIC_KEY")
	configService := services.NewConfigService(configRepo, fallback)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "store.events")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	gateway := payment.NewClient(os.Getenv("GATEWAY_URL"), 10*time.Second)

	catalogService := services.NewCatalogService(productRepo)
	orderService := services.NewOrderService(orderRepo, configService, publisher)
	checkoutService := services.NewCheckoutService(productRepo, configService, gateway, os.Getenv("PUBLIC_URL"))

	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	catalogService.SetRedisClient(redisClient)

	auth := http.NewSharedSecretAuthorizer(os.Getenv("ADMIN_TOKEN"))

	handler := http.NewHandler(catalogService, orderService, checkoutService, configService, auth)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting store backend on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
