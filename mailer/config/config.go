package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/library-api/pkg/kafka"
	"github.com/Astemirdum/library-api/pkg/logger"
)

const (
	MailDriverSMTP = "smtp"
	MailDriverLog  = "log"
)

type Mail struct {
	Driver   string `envconfig:"MAIL_DRIVER" default:"log"`
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     int    `envconfig:"SMTP_PORT" default:"25"`
	User     string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASSWORD" json:"-"`
	From     string `envconfig:"MAIL_FROM" default:"library@localhost"`
}

type Config struct {
	Kafka kafka.Config `yaml:"kafka"`
	Mail  Mail         `yaml:"mail"`
	Log   logger.Log   `yaml:"log"`
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
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
