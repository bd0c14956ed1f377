package cmd

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"

	"resource-checker/internal/config"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// LoadChecker returns the default mapping tables overridden by the checker
// section of the config file.
func LoadChecker() (*config.Config, error) {
	cfg := config.Default()
	if viper.IsSet("checker") {
		if err := viper.UnmarshalKey("checker", cfg); err != nil {
			return nil, fmt.Errorf("failed to parse checker config: %w", err)
		}
	}
	cfg.Normalize()
	return cfg, nil
}

// EnvDSN builds a driver name and DSN from the DB_* variables of a Laravel .env
// file. Relative sqlite paths are resolved against root.
func EnvDSN(path, root string) (string, string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return "", "", err
	}
	connection := strings.ToLower(env["DB_CONNECTION"])
	if connection == "" {
		return "", "", fmt.Errorf("DB_CONNECTION is not set in %s", path)
	}
	host := env["DB_HOST"]
	if host == "" {
		host = "127.0.0.1"
	}
	port := func(def int) int {
		if p, err := strconv.Atoi(env["DB_PORT"]); err == nil {
			return p
		}
		return def
	}
	user, password, database := env["DB_USERNAME"], env["DB_PASSWORD"], env["DB_DATABASE"]

	switch connection {
	case "mysql", "mariadb":
		c := mysql.NewConfig()
		c.User = user
		c.Passwd = password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(host, strconv.Itoa(port(3306)))
		c.DBName = database
		c.ParseTime = true
		return "mysql", c.FormatDSN(), nil
	case "pgsql", "postgres", "postgresql":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(user, password),
			Host:     net.JoinHostPort(host, strconv.Itoa(port(5432))),
			Path:     "/" + database,
			RawQuery: "sslmode=disable",
		}
		return "postgres", u.String(), nil
	case "sqlsrv", "sqlserver":
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(user, password),
			Host:     net.JoinHostPort(host, strconv.Itoa(port(1433))),
			RawQuery: url.Values{"database": {database}}.Encode(),
		}
		return "sqlserver", u.String(), nil
	case "oracle":
		return "oracle", go_ora.BuildUrl(host, port(1521), database, user, password, nil), nil
	case "sqlite":
		if database == "" {
			database = filepath.Join("database", "database.sqlite")
		}
		if database != ":memory:" && !filepath.IsAbs(database) {
			database = filepath.Join(root, database)
		}
		return "sqlite3", database, nil
	}
	return "", "", fmt.Errorf("unsupported DB_CONNECTION %q in %s", connection, path)
}
