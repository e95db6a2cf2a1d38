package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage   `yaml:"storage"`
	Retry      Retry     `yaml:"retry"`
	Cache      Cache     `yaml:"cache"`
	Capacity   Capacity  `yaml:"capacity"`
	RateLimit  RateLimit `yaml:"rate_limit"`
	CORS       CORS      `yaml:"cors"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Storage selects the tabular backend: "excel" (workbook file), "mysql",
// "postgres" or "memory".
type Storage struct {
	Driver       string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"excel"`
	WorkbookPath string `yaml:"workbook_path" env:"WORKBOOK_PATH" env-default:"./data/agency.xlsx"`
	DBUser       string `yaml:"db_user" env:"DB_USER"`
	DBPassword   string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost       string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort       int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName       string `yaml:"db_name" env:"DB_NAME"`
	PostgresDSN  string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
}

type Retry struct {
	BaseDelay  time.Duration `yaml:"base_delay" env-default:"2s"`
	MaxDelay   time.Duration `yaml:"max_delay" env-default:"10s"`
	MaxRetries int           `yaml:"max_retries" env-default:"3"`
}

type Cache struct {
	MetricsTTL time.Duration `yaml:"metrics_ttl" env-default:"60s"`
	SheetTTL   time.Duration `yaml:"sheet_ttl" env-default:"30s"`
}

type Capacity struct {
	HoursPerDay   float64 `yaml:"hours_per_day" env-default:"6"`
	DaysPerWeek   float64 `yaml:"days_per_week" env-default:"5"`
	WeeksPerMonth float64 `yaml:"weeks_per_month" env-default:"4"`
}

// HoursPerMonth is the monthly capacity of one employee.
func (c Capacity) HoursPerMonth() float64 {
	return c.HoursPerDay * c.DaysPerWeek * c.WeeksPerMonth
}

type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"20"`
	Burst int     `yaml:"burst" env-default:"40"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000,http://localhost:5173"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
