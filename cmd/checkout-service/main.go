package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/checkout-ecom/internal/catalog"
	"github.com/MikeMC777/checkout-ecom/internal/checkout"
	"github.com/MikeMC777/checkout-ecom/internal/config"
	"github.com/MikeMC777/checkout-ecom/internal/httpx"
	"github.com/MikeMC777/checkout-ecom/internal/kafka"
	"github.com/MikeMC777/checkout-ecom/internal/logging"
	"github.com/MikeMC777/checkout-ecom/internal/metrics"
	"github.com/MikeMC777/checkout-ecom/internal/order"
	"github.com/MikeMC777/checkout-ecom/internal/payment"
	"github.com/MikeMC777/checkout-ecom/internal/postgres"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.ServiceName)

	fee, err := decimal.NewFromString(cfg.ShippingFlatFee)
	if err != nil {
		log.Fatalf("bad SHIPPING_FLAT_FEE %q: %v", cfg.ShippingFlatFee, err)
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer db.Close()

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() { _ = producer.Close() }()

	ordersRepo := order.NewPGRepo()
	svc := checkout.NewService(checkout.Deps{
		DB:          db,
		Catalog:     catalog.NewPGRepo(),
		Payments:    payment.NewPGRegistry(),
		Orders:      ordersRepo,
		Events:      producer,
		Metrics:     metrics.NewCheckoutMetrics(cfg.ServiceName),
		ShippingFee: fee,
		Log:         logger,
	})

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(logger))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/orders", createOrderHandler(svc))
	r.GET("/orders", listOrdersHandler(ordersRepo, db.Pool))
	r.GET("/orders/:order_id", getOrderHandler(ordersRepo, db.Pool))

	logger.Info("checkout-service listening", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
