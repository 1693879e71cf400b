package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/mac0206/library-system/pkg/kafka"
	"github.com/mac0206/library-system/pkg/logger"
	"github.com/mac0206/library-system/pkg/postgres"
	"github.com/mac0206/library-system/pkg/server"
	"github.com/mac0206/library-system/reporting/internal/service/catalog"
	"github.com/mac0206/library-system/reporting/internal/service/circulation"
)

const defaultPort = "3003"

type Config struct {
	Server      server.Config
	Database    postgres.Config
	Catalog     catalog.Config
	Circulation circulation.Config
	Kafka       kafka.Config
	Log         logger.Log
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

var (
	once sync.Once
	cfg  Config
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
		// the shared HTTP_PORT default is 8080; this service listens
		// on 3003 unless the env says otherwise
		if _, ok := os.LookupEnv("HTTP_PORT"); !ok {
			config.Server.Port = defaultPort
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
