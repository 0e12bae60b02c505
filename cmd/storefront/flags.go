package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	Address            string        `env:"RUN_ADDRESS" envDefault:"localhost:8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"INFO"`
	DatabaseConnection string        `env:"DATABASE_URI"`
	GatewayAddress     string        `env:"GATEWAY_ADDRESS"`
	GatewayEnvironment string        `env:"GATEWAY_ENV" envDefault:"sandbox"`
	SimulatePayments   bool          `env:"GATEWAY_SIMULATION" envDefault:"true"`
	APITimeout         time.Duration `env:"GATEWAY_API_TIMEOUT" envDefault:"15s"`
	CheckoutTimeout    time.Duration `env:"CHECKOUT_TIMEOUT" envDefault:"30s"`
	SessionDelay       time.Duration `env:"SIM_SESSION_DELAY" envDefault:"0s"`
	ReturnURL          string        `env:"GATEWAY_RETURN_URL"`
	NotifierAddress    string        `env:"NOTIFIER_ADDRESS"`
	ProbeURL           string        `env:"PROBE_URL" envDefault:"https://clients3.google.com/generate_204"`

	FreeDeliveryThreshold float64 `env:"FREE_DELIVERY_THRESHOLD" envDefault:"1000"`
	DeliveryFee           float64 `env:"DELIVERY_FEE" envDefault:"99"`
	PackagingFee          float64 `env:"PACKAGING_FEE" envDefault:"29"`
	DiscountPercent       float64 `env:"DISCOUNT_PERCENT" envDefault:"5"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"dontexposethis"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("ENV JWT_SECRET must be set")
	}

	address := flag.String("a", cfg.Address, "{Host:port} for server")
	loglevel := flag.String("l", cfg.LogLevel, "Log level for server")
	databaseConnection := flag.String("d", cfg.DatabaseConnection, "Database connection string")
	gatewayAddress := flag.String("g", cfg.GatewayAddress, "Payment gateway base address")
	simulate := flag.Bool("s", cfg.SimulatePayments, "Simulate payments (no real gateway calls)")
	apiTimeout := flag.Duration("t", cfg.APITimeout, "Gateway API timeout")
	checkoutTimeout := flag.Duration("c", cfg.CheckoutTimeout, "Checkout inactivity timeout")
	notifierAddress := flag.String("n", cfg.NotifierAddress, "Notification service address")

	flag.Parse()

	cfg.Address = *address
	cfg.LogLevel = *loglevel
	cfg.DatabaseConnection = *databaseConnection
	cfg.GatewayAddress = *gatewayAddress
	cfg.SimulatePayments = *simulate
	cfg.APITimeout = *apiTimeout
	cfg.CheckoutTimeout = *checkoutTimeout
	cfg.NotifierAddress = *notifierAddress

	if !cfg.SimulatePayments && cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("GATEWAY_ADDRESS must be set when simulation is off")
	}
	if !cfg.SimulatePayments && cfg.DatabaseConnection == "" {
		return nil, fmt.Errorf("DATABASE_URI must be set when simulation is off")
	}

	return cfg, nil
}
