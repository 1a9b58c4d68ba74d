package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite | inmem
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	EditorConfig struct {
		Placeholder      string
		MaxContentLength int // runes as counted by richtext.Len, 0 for no limit
	}

	Config struct {
		Env             string
		Build           string
		Debug           bool
		TestMode        bool
		WorkDir         string
		AppName         string
		FrontendBaseURL string
		RollbarToken    string
		SendgridApiKey  string
		DefaultFrom     string `mapstructure:"defaultFromEmail"`
		NotifyEmails    []string

		Server   ServerConfig
		Database DatabaseConfig
		Editor   EditorConfig
	}
)

// Address returns the "host:port" the database listens on. Empty for sqlite.
func (c DatabaseConfig) Address() string {
	if c.Host == "" {
		return ""
	}
	if c.Port == "" {
		return c.Host
	}
	return net.JoinHostPort(c.Host, c.Port)
}

// IsSQLite reports whether the database is an embedded sqlite file; Name then holds its DSN.
func (c DatabaseConfig) IsSQLite() bool {
	return c.Engine == "sqlite" || c.Engine == "sqlite3"
}

// IsInMemory reports whether contents live in process memory only, for DEV runs without a database.
func (c DatabaseConfig) IsInMemory() bool {
	return c.Engine == "inmem"
}

func (c Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.DefaultFrom)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.DefaultFrom}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

// NotifyAddresses returns the parsable recipients of content notifications.
func (c Config) NotifyAddresses() []mail.Address {
	addrs := make([]mail.Address, 0, len(c.NotifyEmails))
	for _, e := range c.NotifyEmails {
		if addr, err := mail.ParseAddress(CleanString(e)); err == nil {
			addrs = append(addrs, *addr)
		}
	}
	return addrs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "DEV")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("workDir", Getwd())
	v.SetDefault("appName", "Kalamu")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("notifyEmails", []string{})

	v.SetDefault("server.host", "0.0.0.0:8000")
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "kalamu")
	v.SetDefault("database.user", "kalamu")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("editor.placeholder", "Start typing…")
	v.SetDefault("editor.maxContentLength", 20000)
}

// NewConfig loads the configuration of the current environment.
// ENV selects the environment: DEV (local; default), TEST, QA or PROD. Its name is the prefix of the
// environment variables read, e.g. PROD_DATABASE_HOST, and config/.env.<env> is loaded beforehand
// when it exists.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("database.engine", "sqlite")
		v.SetDefault("database.name", "file::memory:?cache=shared")
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(v.GetString("workDir"), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		log.Fatalf("config.Unmarshal: %v", err)
	}
	if len(conf.NotifyEmails) == 1 && strings.Contains(conf.NotifyEmails[0], ",") {
		conf.NotifyEmails = strings.Split(conf.NotifyEmails[0], ",")
	}
	return &conf
}
