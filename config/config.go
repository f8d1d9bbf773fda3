package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvPrefix      = "CATALOG_"
	DefaultFile    = "catalog.yml"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Env      string `yaml:"env"`
	Location string `yaml:"location"`
}

type WebConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	AllowedOrigin string        `yaml:"allowed_origin"`
	MaxUploadMB   int64         `yaml:"max_upload_mb"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
}

type DBConfig struct {
	Driver   string `yaml:"driver"` // postgres | memory
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	SSLMode  string `yaml:"sslmode"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
}

type AuthConfig struct {
	Secret            string        `yaml:"secret"`
	Issuer            string        `yaml:"issuer"`
	Audience          string        `yaml:"audience"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	BcryptCost        int           `yaml:"bcrypt_cost"`
	ProtectUploads    bool          `yaml:"protect_uploads"`
	BootstrapUser     string        `yaml:"bootstrap_user"`
	BootstrapPassword string        `yaml:"bootstrap_password"`
}

type LocalStorageConfig struct {
	Dir       string `yaml:"dir"`
	URLPrefix string `yaml:"url_prefix"`
}

type S3StorageConfig struct {
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	Endpoint      string `yaml:"endpoint"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type CloudinaryStorageConfig struct {
	URL    string `yaml:"url"`
	Folder string `yaml:"folder"`
}

type StorageConfig struct {
	Driver     string                  `yaml:"driver"` // local | s3 | cloudinary
	Local      LocalStorageConfig      `yaml:"local"`
	S3         S3StorageConfig         `yaml:"s3"`
	Cloudinary CloudinaryStorageConfig `yaml:"cloudinary"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Database DBConfig      `yaml:"database"`
	Auth     AuthConfig    `yaml:"auth"`
	Storage  StorageConfig `yaml:"storage"`
	Logger   LogConfig     `yaml:"logger"`
}

func (c *AppConfig) IsProduction() bool {
	return c.System.Env == EnvProduction
}

// DSN is the lib/pq connection string for the configured database.
func (c *AppConfig) DSN() string {
	d := c.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Passwd, d.Name, d.SSLMode)
}

// Addr is the HTTP listen address.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

var DefaultAppConfig = AppConfig{
	System: SysConfig{
		Appid:    "catalog",
		Env:      EnvDevelopment,
		Location: "UTC",
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          8080,
		AllowedOrigin: "http://localhost:4200",
		MaxUploadMB:   10,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  60 * time.Second,
	},
	Database: DBConfig{
		Driver:   "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "catalog",
		User:     "postgres",
		Passwd:   "postgres",
		SSLMode:  "disable",
		MaxConn:  20,
		IdleConn: 5,
	},
	Auth: AuthConfig{
		Issuer:         "catalog",
		Audience:       "catalog-admin",
		TokenTTL:       8 * time.Hour,
		BcryptCost:     10,
		ProtectUploads: true,
	},
	Storage: StorageConfig{
		Driver: "local",
		Local: LocalStorageConfig{
			Dir:       "./data/uploads",
			URLPrefix: "/uploads",
		},
		S3: S3StorageConfig{
			Prefix: "product-images",
		},
		Cloudinary: CloudinaryStorageConfig{
			Folder: "product-images",
		},
	},
	Logger: LogConfig{
		Mode:       EnvDevelopment,
		FileEnable: false,
		Filename:   "./data/catalog.log",
	},
}

// LoadConfig reads the YAML file (a missing file keeps the defaults), loads
// .env if present and applies CATALOG_* environment overrides.
func LoadConfig(file string) (*AppConfig, error) {
	cfg := DefaultAppConfig
	if file == "" {
		file = DefaultFile
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", file)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "read %s", file)
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) applyEnv() {
	setEnvValue("SYSTEM_APPID", &c.System.Appid)
	setEnvValue("SYSTEM_ENV", &c.System.Env)
	setEnvValue("SYSTEM_LOCATION", &c.System.Location)

	setEnvValue("WEB_HOST", &c.Web.Host)
	setEnvIntValue("WEB_PORT", &c.Web.Port)
	setEnvValue("WEB_ALLOWED_ORIGIN", &c.Web.AllowedOrigin)
	setEnvInt64Value("WEB_MAX_UPLOAD_MB", &c.Web.MaxUploadMB)
	setEnvDurationValue("WEB_READ_TIMEOUT", &c.Web.ReadTimeout)
	setEnvDurationValue("WEB_WRITE_TIMEOUT", &c.Web.WriteTimeout)

	setEnvValue("DB_DRIVER", &c.Database.Driver)
	setEnvValue("DB_HOST", &c.Database.Host)
	setEnvIntValue("DB_PORT", &c.Database.Port)
	setEnvValue("DB_NAME", &c.Database.Name)
	setEnvValue("DB_USER", &c.Database.User)
	setEnvValue("DB_PASSWD", &c.Database.Passwd)
	setEnvValue("DB_SSLMODE", &c.Database.SSLMode)
	setEnvIntValue("DB_MAX_CONN", &c.Database.MaxConn)
	setEnvIntValue("DB_IDLE_CONN", &c.Database.IdleConn)

	setEnvValue("AUTH_SECRET", &c.Auth.Secret)
	setEnvValue("AUTH_ISSUER", &c.Auth.Issuer)
	setEnvValue("AUTH_AUDIENCE", &c.Auth.Audience)
	setEnvDurationValue("AUTH_TOKEN_TTL", &c.Auth.TokenTTL)
	setEnvIntValue("AUTH_BCRYPT_COST", &c.Auth.BcryptCost)
	setEnvBoolValue("AUTH_PROTECT_UPLOADS", &c.Auth.ProtectUploads)
	setEnvValue("AUTH_BOOTSTRAP_USER", &c.Auth.BootstrapUser)
	setEnvValue("AUTH_BOOTSTRAP_PASSWORD", &c.Auth.BootstrapPassword)

	setEnvValue("STORAGE_DRIVER", &c.Storage.Driver)
	setEnvValue("STORAGE_LOCAL_DIR", &c.Storage.Local.Dir)
	setEnvValue("STORAGE_LOCAL_URL_PREFIX", &c.Storage.Local.URLPrefix)
	setEnvValue("STORAGE_S3_REGION", &c.Storage.S3.Region)
	setEnvValue("STORAGE_S3_BUCKET", &c.Storage.S3.Bucket)
	setEnvValue("STORAGE_S3_PREFIX", &c.Storage.S3.Prefix)
	setEnvValue("STORAGE_S3_ENDPOINT", &c.Storage.S3.Endpoint)
	setEnvValue("STORAGE_S3_PUBLIC_BASE_URL", &c.Storage.S3.PublicBaseURL)
	setEnvValue("STORAGE_CLOUDINARY_URL", &c.Storage.Cloudinary.URL)
	setEnvValue("STORAGE_CLOUDINARY_FOLDER", &c.Storage.Cloudinary.Folder)

	setEnvValue("LOGGER_MODE", &c.Logger.Mode)
	setEnvBoolValue("LOGGER_FILE_ENABLE", &c.Logger.FileEnable)
	setEnvValue("LOGGER_FILENAME", &c.Logger.Filename)
}

// Validate checks settings that would otherwise fail late. The auth secret
// is checked by the serve command, so migrate and admin can run without it.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return errors.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local", "s3", "cloudinary":
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return errors.Errorf("invalid web port %d", c.Web.Port)
	}
	if c.Web.MaxUploadMB <= 0 {
		return errors.New("web.max_upload_mb must be positive")
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setEnvValue(name string, val *string) {
	if v, ok := lookupEnv(name); ok {
		*val = v
	}
}

func setEnvIntValue(name string, val *int) {
	if v, ok := lookupEnv(name); ok {
		if n, err := cast.ToIntE(v); err == nil {
			*val = n
		}
	}
}

func setEnvInt64Value(name string, val *int64) {
	if v, ok := lookupEnv(name); ok {
		if n, err := cast.ToInt64E(v); err == nil {
			*val = n
		}
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := lookupEnv(name); ok {
		if b, err := cast.ToBoolE(v); err == nil {
			*val = b
		}
	}
}

func setEnvDurationValue(name string, val *time.Duration) {
	if v, ok := lookupEnv(name); ok {
		if d, err := cast.ToDurationE(v); err == nil {
			*val = d
		}
	}
}
