package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	log "github.com/sirupsen/logrus"

	"schoolfee_backend/internals/configs"
	database "schoolfee_backend/internals/databases"
	"schoolfee_backend/internals/features/finance/storage"
	middlewares "schoolfee_backend/internals/middlewares"
	routes "schoolfee_backend/internals/route"
	"schoolfee_backend/internals/scheduler"
)

func main() {
	configs.LoadEnv()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// request timeout guard, aligned with the DB statement_timeout
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	middlewares.SetupMiddlewares(app)

	database.ConnectDB()
	database.TunePool()

	// nightly overdue sweep, after the DB is up
	sched := scheduler.New(storage.NewGormStore(database.DB), configs.GetEnv("SWEEP_CRON_SPEC"))
	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler start failed: %v", err)
	}

	routes.SetupRoutes(app, database.DB)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Infof("listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
