package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"crop_calendar/calendar"
	"crop_calendar/sos"

	"github.com/gofiber/fiber/v3"

	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

func main() {
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	setupShutdownListener(appCancel)

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	container, err := NewApp(appCtx, WithConfig(cfg))
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}

	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	mapRoutes(app, container)

	go func() {
		<-appCtx.Done()
		log.Println("Shutting down HTTP server...")
		app.Shutdown()
		container.Shutdown()
	}()

	log.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.Port)))
}

func setupShutdownListener(appCancel context.CancelFunc) {
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutdown signal received")
		appCancel()
	}()
}

func mapRoutes(app *fiber.App, container *App) {
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	api := app.Group("/api")

	calendarHandler := calendar.NewCalendarHandler(container.calendar)
	calendar.RegisterCalendarRoutes(api, calendarHandler)

	sosHandler := sos.NewSOSHandler(container.emergency)
	sos.RegisterSOSRoutes(api, sosHandler)
}
