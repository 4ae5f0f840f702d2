package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port         int
	DataDir      string
	DatabaseURL  string
	DatabaseType string
	RegistryFile string
	ImagesDir    string
	Tuning       Tuning
}

// Tuning holds the knobs that are only set through TALLY_* env variables
type Tuning struct {
	BackupRetention    int           `split_words:"true" default:"50"`
	ArchiveAt          string        `split_words:"true" default:"23:59"`
	AutoBackupInterval time.Duration `split_words:"true" default:"5m"`
	MirrorTimeout      time.Duration `split_words:"true" default:"5s"`
	ShutdownTimeout    time.Duration `split_words:"true" default:"10s"`
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from env and defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("tally-server", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DataDir, "data", "", "Directory for the tally file, backups and archives")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Mirror database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Mirror database type (sqlite or postgres)")
	fs.StringVar(&cfg.RegistryFile, "registry", "", "JSON file with centers and candidates")
	fs.StringVar(&cfg.ImagesDir, "images", "", "Directory served under /images/")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv("DATA_DIR")
		if cfg.DataDir == "" {
			cfg.DataDir = "data"
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.RegistryFile == "" {
		cfg.RegistryFile = os.Getenv("REGISTRY_FILE")
	}
	if cfg.ImagesDir == "" {
		cfg.ImagesDir = os.Getenv("IMAGES_DIR")
	}

	if err := envconfig.Process("tally", &cfg.Tuning); err != nil {
		return Config{}, err
	}
	if cfg.Tuning.BackupRetention < 1 {
		return Config{}, errors.New("TALLY_BACKUP_RETENTION must be at least 1")
	}

	return cfg, nil
}
