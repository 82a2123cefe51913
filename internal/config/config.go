package config

import (
	"fmt"
	"os"
	"strconv"

	pkglogger "github.com/damoang/angple-contents/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config 애플리케이션 설정
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Contents ContentsConfig `yaml:"contents"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port         int      `yaml:"port"`
	Mode         string   `yaml:"mode"` // debug, release, test
	AllowOrigins []string `yaml:"allow_origins"`
}

// DatabaseConfig MySQL 설정
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 초
}

// GetDSN MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// RedisConfig Redis 설정
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// ContentsConfig 플레이스홀더/콘텐츠 설정
type ContentsConfig struct {
	DefaultLanguage string              `yaml:"default_language"`
	CacheKeyPrefix  string              `yaml:"cache_key_prefix"`
	SiteID          int64               `yaml:"site_id"`
	AllowedPlugins  map[string][]string `yaml:"allowed_plugins"` // 슬롯 → 허용 discriminator
	Embed           EmbedConfig         `yaml:"embed"`
	Images          ImageConfig         `yaml:"images"`
}

// EmbedConfig 미디어 임베드 플러그인 설정
type EmbedConfig struct {
	MaxWidth    int    `yaml:"max_width"`
	AspectRatio string `yaml:"aspect_ratio"`
}

// ImageConfig 이미지 플러그인 설정
type ImageConfig struct {
	AllowedDomains []string `yaml:"allowed_domains"`
	MaxWidth       int      `yaml:"max_width"`
	LazyLoading    bool     `yaml:"lazy_loading"`
	LinkWrapper    bool     `yaml:"link_wrapper"`
}

// Default 기본값
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8090, Mode: "debug", AllowOrigins: []string{"*"}},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "root",
			DBName:          "angple",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: 3600,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		Contents: ContentsConfig{
			DefaultLanguage: "en",
			CacheKeyPrefix:  "contents:output:",
			SiteID:          1,
			Embed:           EmbedConfig{MaxWidth: 560, AspectRatio: "16:9"},
			Images: ImageConfig{
				AllowedDomains: []string{"s3.damoang.net", "damoang.net", "damoang.com"},
				LazyLoading:    true,
				LinkWrapper:    true,
			},
		},
	}
}

// Load yaml 파일을 읽고 환경변수로 덮어쓴다. 파일이 없으면 기본값 + 환경변수
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		pkglogger.GetLogger().Warn().Str("path", path).Msg("config file not found, using defaults")
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Mode, "GIN_MODE")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Redis.Host, "REDIS_HOST")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Contents.DefaultLanguage, "CONTENTS_DEFAULT_LANGUAGE")
	setString(&cfg.Contents.CacheKeyPrefix, "CONTENTS_CACHE_KEY_PREFIX")

	for key, dest := range map[string]*int{
		"SERVER_PORT": &cfg.Server.Port,
		"DB_PORT":     &cfg.Database.Port,
		"REDIS_PORT":  &cfg.Redis.Port,
		"REDIS_DB":    &cfg.Redis.DB,
	} {
		if err := setInt(dest, key); err != nil {
			return err
		}
	}
	return nil
}

func setString(dest *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dest = v
	}
}

func setInt(dest *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("env %s=%q: %w", key, v, err)
	}
	*dest = n
	return nil
}

// LogResolved 적용된 설정 출력 (비밀번호 제외)
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Int("server_port", cfg.Server.Port).
		Str("server_mode", cfg.Server.Mode).
		Str("db_host", cfg.Database.Host).
		Int("db_port", cfg.Database.Port).
		Str("db_name", cfg.Database.DBName).
		Str("redis_host", cfg.Redis.Host).
		Int("redis_port", cfg.Redis.Port).
		Str("default_language", cfg.Contents.DefaultLanguage).
		Str("cache_key_prefix", cfg.Contents.CacheKeyPrefix).
		Int("slot_rules", len(cfg.Contents.AllowedPlugins)).
		Msg("config resolved")
}
