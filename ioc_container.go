package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"crop_calendar/advisory"
	"crop_calendar/calendar"
	"crop_calendar/crops"
	"crop_calendar/database"
	"crop_calendar/environment"
	"crop_calendar/sos"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// IOC container
type App struct {
	db        *gorm.DB
	crops     *crops.Repository
	env       environment.Provider
	advisor   advisory.Generator
	calendar  *calendar.Service
	broker    sos.Broker
	registry  *sos.ResponderRegistry
	emergency *sos.Service
	appCtx    context.Context
	config    *AppConfig
}

type AppConfig struct {
	AppName        string
	Port           int
	DBPath         string
	AutoMigrate    bool
	Environment    string
	AdvisoryAPIKey string
	AdvisoryModel  string
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		AppName:     "Crop Calendar",
		Port:        3000,
		DBPath:      "cropcal.db",
		AutoMigrate: true,
		Environment: "dev",
	}
}

// LoadConfig layers an optional config file and CROPCAL_* environment
// variables over the defaults.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("appname", defaults.AppName)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("dbpath", defaults.DBPath)
	v.SetDefault("automigrate", defaults.AutoMigrate)
	v.SetDefault("environment", defaults.Environment)
	v.SetDefault("advisory.apikey", "")
	v.SetDefault("advisory.model", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CROPCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional, anything else is a real problem.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &AppConfig{
		AppName:        v.GetString("appname"),
		Port:           v.GetInt("port"),
		DBPath:         v.GetString("dbpath"),
		AutoMigrate:    v.GetBool("automigrate"),
		Environment:    v.GetString("environment"),
		AdvisoryAPIKey: v.GetString("advisory.apikey"),
		AdvisoryModel:  v.GetString("advisory.model"),
	}, nil
}

type AppOption func(*App) error

func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	broker := sos.NewDispatchBroker()
	registry := sos.NewResponderRegistry(ctx, broker)
	app := &App{
		broker:   broker,          // Default broker
		registry: registry,        // Default registry
		config:   DefaultConfig(), // Default config
		appCtx:   ctx,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// Initialize database if not provided
	if app.db == nil {
		db, err := database.InitDatabase(app.config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
	}

	// Auto-migrate if enabled
	if app.config.AutoMigrate {
		if err := database.AutoMigrate(app.db, &sos.EmergencyRequest{}, &sos.RegisteredResponder{}); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if app.crops == nil {
		repo, err := crops.NewRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to load crop profiles: %w", err)
		}
		app.crops = repo
	}

	if app.env == nil {
		app.env = environment.NewSimulatedProvider()
	}

	// The advisor is optional: without an API key the engine runs rule-based only.
	if app.advisor == nil && app.config.AdvisoryAPIKey != "" {
		advisor, err := advisory.NewGeminiGenerator(ctx, app.config.AdvisoryAPIKey, app.config.AdvisoryModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize advisory client: %w", err)
		}
		app.advisor = advisor
	}
	if app.advisor == nil {
		log.Println("[INFO] No advisory API key configured, running rule-based only")
	}

	app.calendar = calendar.NewService(app.crops, app.env, app.advisor)
	app.emergency = sos.NewService(app.db, app.broker, app.registry, ctx)

	return app, nil
}

// Shutdown stops the live responders first so the broker's ack listener is
// still running while they drain.
func (a *App) Shutdown() {
	a.registry.ShutdownAll()
	a.broker.Shutdown()
}

func WithDatabase(db *gorm.DB) AppOption {
	return func(app *App) error {
		app.db = db
		return nil
	}
}

func WithConfig(cfg *AppConfig) AppOption {
	return func(app *App) error {
		app.config = cfg
		return nil
	}
}

func WithEnvironmentProvider(p environment.Provider) AppOption {
	return func(app *App) error {
		app.env = p
		return nil
	}
}

func WithAdvisor(g advisory.Generator) AppOption {
	return func(app *App) error {
		app.advisor = g
		return nil
	}
}
