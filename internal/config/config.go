package config

import (
	"bytes"
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
	defaultRegion     = "us-east-1"
	defaultTable      = "portfolio-content"
	defaultScanLimit  = 100
	defaultCacheTTL   = 60
	defaultSiteURL    = "http://localhost:2323"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Timezone       string             `yaml:"timezone"`
	SiteURL        string             `yaml:"site_url"`
	Redis          RedisRuntimeConfig `yaml:"redis"`
	DynamoDB       DynamoDBConfig     `yaml:"dynamodb"`
	CacheTTLSec    int                `yaml:"cache_ttl_sec"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type DynamoDBConfig struct {
	Table           string `yaml:"table"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"` // non-empty for local development
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	ScanPageLimit   int    `yaml:"scan_page_limit"`
}

// Load reads and validates the YAML config file at path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	cfg.normalize()

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("invalid redis.port %d in %q, expected 1-65535", cfg.Redis.Port, path)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid redis.db %d in %q, expected >= 0", cfg.Redis.DB, path)
	}
	if cfg.DynamoDB.Table == "" {
		return nil, fmt.Errorf("dynamodb.table must not be empty in %q", path)
	}
	if cfg.DynamoDB.ScanPageLimit < 1 {
		return nil, fmt.Errorf("invalid dynamodb.scan_page_limit %d in %q, expected >= 1", cfg.DynamoDB.ScanPageLimit, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:    defaultPort,
		Env:     defaultEnv,
		SiteURL: defaultSiteURL,
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		DynamoDB: DynamoDBConfig{
			Table:         defaultTable,
			Region:        defaultRegion,
			ScanPageLimit: defaultScanLimit,
		},
		CacheTTLSec: defaultCacheTTL,
	}
}

func (c *AppConfig) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = defaultEnv
	}
	c.SiteURL = strings.TrimRight(strings.TrimSpace(c.SiteURL), "/")
	if c.SiteURL == "" {
		c.SiteURL = defaultSiteURL
	}
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	c.AllowedOrigins = origins
	c.DynamoDB.Table = strings.TrimSpace(c.DynamoDB.Table)
	c.DynamoDB.Region = strings.TrimSpace(c.DynamoDB.Region)
	if c.DynamoDB.Region == "" {
		c.DynamoDB.Region = defaultRegion
	}
	c.DynamoDB.Endpoint = strings.TrimSpace(c.DynamoDB.Endpoint)
	if c.CacheTTLSec <= 0 {
		c.CacheTTLSec = defaultCacheTTL
	}
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// RedisURL builds the connection URL for go-redis from the redis section.
func (c *AppConfig) RedisURL() string {
	if u := strings.TrimSpace(c.Redis.URL); u != "" {
		if strings.HasPrefix(u, "redis://") || strings.HasPrefix(u, "rediss://") {
			return u
		}
		return "redis://" + u
	}

	host := c.Redis.Host
	if host == "" {
		host = defaultRedisHost
	}
	port := c.Redis.Port
	if port == 0 {
		port = defaultRedisPort
	}
	scheme := "redis"
	if c.Redis.TLS {
		scheme = "rediss"
	}

	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + strconv.Itoa(c.Redis.DB),
	}
	username := strings.TrimSpace(c.Redis.Username)
	password := strings.TrimSpace(c.Redis.Password)
	if username != "" {
		if password != "" {
			u.User = neturl.UserPassword(username, password)
		} else {
			u.User = neturl.User(username)
		}
	} else if password != "" {
		u.User = neturl.UserPassword("", password)
	}
	return u.String()
}
