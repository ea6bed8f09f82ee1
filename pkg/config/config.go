package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Invoicing InvoicingConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// InvoicingConfig precisión de los montos agregados. Se lee una vez al arrancar.
type InvoicingConfig struct {
	NumberOfDecimals int    // escala de todo resultado monetario
	RoundingMode     string // HALF_UP, HALF_EVEN, HALF_DOWN, UP, DOWN, CEILING, FLOOR
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, INVOICING_ROUNDING_MODE, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // opcional

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "cartera-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "cartera"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    int32(getInt(v, "DB_MAX_CONNS", 10)),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "cartera-api"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			SwaggerFile: getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		Invoicing: InvoicingConfig{
			NumberOfDecimals: getInt(v, "INVOICING_NUMBER_OF_DECIMALS", 2),
			RoundingMode:     strings.ToUpper(getString(v, "INVOICING_ROUNDING_MODE", "HALF_UP")),
		},
	}
	if cfg.Invoicing.NumberOfDecimals < 0 {
		return nil, fmt.Errorf("config: INVOICING_NUMBER_OF_DECIMALS no puede ser negativo (%d)", cfg.Invoicing.NumberOfDecimals)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	if s, ok := v.Get(key).(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return def
		}
		return n
	}
	return v.GetInt(key)
}
