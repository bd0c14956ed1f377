package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resource-checker/internal/config"
	"resource-checker/internal/dialect"
)

var (
	dsn        string
	DB         *sql.DB
	SchemaName string
	cfgFile    string
	DriverName string
	projectDir string
	envFile    string
	noDB       bool

	// Checker holds the mapping tables every component consults.
	Checker *config.Config
)

var RootCmd = &cobra.Command{
	Use:   "resource-checker",
	Short: "Cross-check a Laravel schema against models and Filament forms",
	Long: `
 ____  _____ ____   ___  _   _ ____   ____ _____
|  _ \| ____/ ___| / _ \| | | |  _ \ / ___| ____|
| |_) |  _| \___ \| | | | | | | |_) | |   |  _|
|  _ <| |___ ___) | |_| | |_| |  _ <| |___| |___
|_| \_\_____|____/ \___/ \___/|_| \_\\____|_____|

RESOURCE CHECKER 🔎 - Schema / Model / Form drift detector
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if Checker, err = LoadChecker(); err != nil {
			return err
		}
		projectDir = viper.GetString("project")
		if projectDir == "" {
			projectDir = "."
		}
		if abs, err := filepath.Abs(projectDir); err == nil {
			projectDir = abs
		}

		if viper.GetBool("database.disabled") {
			log.Println("Database disabled, reading migrations")
			return nil
		}

		connStr, driver := resolveDSN()
		if connStr == "" {
			log.Println("No database configured, reading migrations")
			return nil
		}
		DriverName = dialect.SQLDriver(driver)
		SchemaName = viper.GetString("database.schema")

		db, err := sql.Open(DriverName, connStr)
		if err != nil {
			log.Printf("Warning: failed to open db: %v (reading migrations)", err)
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Printf("Warning: failed to connect to db: %v (reading migrations)", err)
			db.Close()
			return nil
		}
		DB = db
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			DB.Close()
		}
	},
}

// resolveDSN picks the connection: flag or config first, then the active entry
// of the databases list, then the project's .env file.
func resolveDSN() (string, string) {
	if connStr := viper.GetString("database.dsn"); connStr != "" {
		driver := viper.GetString("database.driver")
		if driver == "" {
			driver = detectDriver(connStr)
		}
		return connStr, driver
	}
	if active, err := GetActiveDBConfig(); err == nil {
		driver := active.Driver
		if driver == "" {
			driver = detectDriver(active.DSN)
		}
		return active.DSN, driver
	}
	path := envFile
	if path == "" {
		path = filepath.Join(projectDir, ".env")
	}
	driver, connStr, err := EnvDSN(path, projectDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: %v", err)
		}
		return "", ""
	}
	return connStr, driver
}

func detectDriver(connStr string) string {
	switch {
	case strings.Contains(connStr, "postgres") || strings.Contains(connStr, "sslmode"):
		return "postgres"
	case strings.HasPrefix(connStr, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(connStr, "oracle://"):
		return "oracle"
	case strings.HasPrefix(connStr, "file:") || strings.HasSuffix(connStr, ".sqlite") || connStr == ":memory:":
		return "sqlite3"
	default:
		return "mysql"
	}
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./resource-checker.yaml)")
	flags.StringVar(&dsn, "dsn", "", "Database Source Name (DSN)")
	flags.StringVar(&DriverName, "driver", "", "Database driver (mysql, postgres, pgx, sqlserver, oracle, sqlite3)")
	flags.StringVar(&projectDir, "project", "", "Laravel project root (default is the current directory)")
	flags.StringVar(&envFile, "env-file", "", "dotenv file holding DB_* settings (default is <project>/.env)")
	flags.BoolVar(&noDB, "no-db", false, "Skip the database and read migrations")

	viper.BindPFlag("database.dsn", flags.Lookup("dsn"))
	viper.BindPFlag("database.driver", flags.Lookup("driver"))
	viper.BindPFlag("database.disabled", flags.Lookup("no-db"))
	viper.BindPFlag("project", flags.Lookup("project"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("resource-checker")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("RESOURCE_CHECKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
