package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	GeoIP    GeoIPConfig    `yaml:"geoip"`
	Scan     ScanConfig     `yaml:"scan"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port    string `yaml:"port"`
	Mode    string `yaml:"mode"`     // debug, release
	BaseURL string `yaml:"base_url"` // public origin used to build scan URLs
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// RedisConfig is optional; an empty Addr disables the short-code lookup cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      int    `yaml:"ttl"` // cached entry lifetime in seconds
}

type GeoIPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // lookup URL, %s replaced with the IP
	Timeout  int    `yaml:"timeout"`  // per-lookup timeout in seconds
}

type ScanConfig struct {
	QueueSize int `yaml:"queue_size"` // pending scan jobs before drops start
	Workers   int `yaml:"workers"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireTime int    `yaml:"expire_time"` // seconds
}

type LogConfig struct {
	Level    string `yaml:"level"`     // debug, info, warn, error, fatal
	Format   string `yaml:"format"`    // json, text
	Output   string `yaml:"output"`    // console, file, both
	FilePath string `yaml:"file_path"` // log file path when output includes file
}

// Load reads and parses the YAML config file at path, then fills defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %v", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %v", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:" + c.Server.Port
	}
	if c.Redis.TTL <= 0 {
		c.Redis.TTL = 300
	}
	if c.GeoIP.Endpoint == "" {
		c.GeoIP.Endpoint = "https://ipapi.co/%s/json/"
	}
	if c.GeoIP.Timeout <= 0 {
		c.GeoIP.Timeout = 5
	}
	if c.Scan.QueueSize <= 0 {
		c.Scan.QueueSize = 1024
	}
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = 4
	}
	if c.JWT.ExpireTime <= 0 {
		c.JWT.ExpireTime = int((24 * time.Hour).Seconds())
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "console"
	}
	if c.Log.FilePath == "" {
		c.Log.FilePath = "logs/app.log"
	}
}
