package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	Admin    AdminConfig    `yaml:"admin"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

// StorageConfig selects the post collection backend. The kv backend talks
// the hosted REST key-value API; redis and postgres are drop-in
// alternatives behind the same repository interface.
type StorageConfig struct {
	Backend  string         `yaml:"backend" env-default:"kv"`
	KV       KVConfig       `yaml:"kv"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type KVConfig struct {
	BaseURL string        `yaml:"base_url" env:"KV_BASE_URL"`
	Token   string        `yaml:"token" env:"KV_TOKEN"`
	Key     string        `yaml:"key" env-default:"chalu_blog_posts"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key" env-default:"chalu_blog_posts"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

type AdminConfig struct {
	Password    string        `yaml:"password" env:"ADMIN_PASSWORD"`
	TokenSecret string        `yaml:"token_secret" env:"ADMIN_TOKEN_SECRET"`
	TokenTTL    time.Duration `yaml:"token_ttl" env-default:"12h"`
}

type TelegramConfig struct {
	BotToken  string        `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID    string        `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
	DedupeTTL time.Duration `yaml:"dedupe_ttl" env-default:"5m"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
