package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/library-api/pkg/circuit_breaker"
	"github.com/Astemirdum/library-api/pkg/kafka"
	"github.com/Astemirdum/library-api/pkg/logger"
	"github.com/Astemirdum/library-api/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

const (
	NotifyDriverKafka = "kafka"
	NotifyDriverLog   = "log"
)

type Notify struct {
	Driver  string                 `envconfig:"NOTIFY_DRIVER" default:"log"`
	Breaker circuit_breaker.Config `json:"breaker"`
}

type Sweep struct {
	Enabled     bool          `envconfig:"SWEEP_ENABLED" default:"true"`
	Interval    time.Duration `envconfig:"SWEEP_INTERVAL"`
	Jitter      time.Duration `envconfig:"SWEEP_JITTER" default:"0s"`
	OverdueDays int           `envconfig:"SWEEP_OVERDUE_DAYS" default:"4"`
	Subject     string        `envconfig:"SWEEP_SUBJECT" default:"Attention! You have an overdue loan. Please return the book."`
	Renotify    bool          `envconfig:"SWEEP_RENOTIFY" default:"true"`
	RunOnStart  bool          `envconfig:"SWEEP_RUN_ON_START" default:"false"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	Kafka    kafka.Config `yaml:"kafka"`
	Notify   Notify       `yaml:"notify"`
	Sweep    Sweep        `yaml:"sweep"`
	Log      logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		if config.Sweep.Interval <= 0 {
			config.Sweep.Interval = 24 * time.Hour
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	masked := *cfg
	masked.Database.Password = "***"
	jscfg, _ := json.MarshalIndent(masked, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
