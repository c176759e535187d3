package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
	// links in mails and the OAuth redirect point here
	FrontendHost string
	BackendHost  string
}

type LogFile struct {
	Enable     bool   // 是否启用文件写入 + 切割
	Filename   string // 日志文件路径，如 logs/app.log
	MaxSizeMB  int    // 单个文件最大 MB
	MaxBackups int    // 保留旧文件个数
	MaxAgeDays int    // 保留天数
	Compress   bool   // 是否压缩旧日志
}

type Log struct {
	Level string // 日志级别：debug / info / warn / error
	JSON  bool   // 是否 JSON 格式输出
	File  LogFile
}

// JWT with an empty Secret gets a random per-process signing key.
type JWT struct {
	Secret   string
	Issuer   string
	TTLHours int
}

type Auth struct {
	VerificationTTLHours int
	ResetTTLHours        int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	Driver string // memory | redis
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Mail struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Google struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Upload struct {
	Root     string
	GraceMin int
}

// Schedule holds six-field cron expressions (with seconds).
type Schedule struct {
	RemoveLegacyFiles string
	ResetEmailVerify  string
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	Auth     Auth
	DB       DB
	Cache    Cache
	Redis    Redis `mapstructure:"redis"`
	Mail     Mail
	Google   Google
	Upload   Upload
	Schedule Schedule
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}

// Read is Load without the fatal exit.
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ecommerce")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 10)
	v.SetDefault("app.http.writeTimeoutSec", 30)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.frontendHost", "http://localhost:3000")
	v.SetDefault("app.backendHost", "http://localhost:8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 7)
	v.SetDefault("log.file.maxAgeDays", 30)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "ecommerce")
	v.SetDefault("jwt.ttlHours", 10)

	v.SetDefault("auth.verificationTTLHours", 3)
	v.SetDefault("auth.resetTTLHours", 3)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "no-reply@localhost")

	v.SetDefault("google.clientId", "")
	v.SetDefault("google.clientSecret", "")
	v.SetDefault("google.redirectUrl", "http://localhost:8080/auth/signin/google/callback")

	v.SetDefault("upload.root", "./upload")
	v.SetDefault("upload.graceMin", 5)

	v.SetDefault("schedule.removeLegacyFiles", "0 0 3 * * *")
	v.SetDefault("schedule.resetEmailVerify", "0 */30 * * * *")
}
