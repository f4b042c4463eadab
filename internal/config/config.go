package config

import (
	"fmt"
	"time"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type Config struct {
	App      AppConfig      `env-prefix:"APP_"`
	HTTP     HTTPConfig     `env-prefix:"HTTP_"`
	GRPC     GRPCConfig     `env-prefix:"GRPC_"`
	Store    StoreConfig    `env-prefix:"STORE_"`
	Database DatabaseConfig `env-prefix:"DB_"`
	Mongo    MongoConfig    `env-prefix:"MONGO_"`
	Auth     AuthConfig     `env-prefix:"AUTH_"`
}

type AppConfig struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Pretty   bool   `env:"PRETTY" env-default:"false"`
}

type HTTPConfig struct {
	Addr               string   `env:"ADDR" env-default:":3001"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type GRPCConfig struct {
	Addr                 string        `env:"ADDR" env-default:":50051"`
	MaxConnIdle          time.Duration `env:"MAX_CONN_IDLE" env-default:"5m"`
	KeepaliveTime        time.Duration `env:"KEEPALIVE_TIME" env-default:"60s"`
	KeepaliveTimeout     time.Duration `env:"KEEPALIVE_TIMEOUT" env-default:"30s"`
	MaxConcurrentStreams uint32        `env:"MAX_CONCURRENT_STREAMS" env-default:"50"`
}

type StoreConfig struct {
	Driver          string `env:"DRIVER" env-default:"postgres"`
	ConnectAttempts uint   `env:"CONNECT_ATTEMPTS" env-default:"3"`
}

type DatabaseConfig struct {
	Port     string `env:"PORT" env-default:"5432"`
	Host     string `env:"HOST" env-default:"localhost"`
	Name     string `env:"NAME" env-default:"postgres"`
	User     string `env:"USER" env-default:"user"`
	Password string `env:"PASSWORD"`
}

type MongoConfig struct {
	URI          string `env:"URI" env-default:"mongodb://localhost:27017"`
	Database     string `env:"DATABASE" env-default:"noteApp"`
	Transactions bool   `env:"TRANSACTIONS" env-default:"false"`
}

type AuthConfig struct {
	Secret     string        `env:"SECRET" env-required:"true"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" env-default:"0s"`
	BcryptCost int           `env:"BCRYPT_COST" env-default:"10"`
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMongo:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Store.ConnectAttempts == 0 {
		return fmt.Errorf("store connect attempts must be positive")
	}

	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("negative auth token ttl %s", c.Auth.TokenTTL)
	}

	return nil
}
