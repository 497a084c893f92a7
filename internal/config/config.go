// Package config provides Viper-based configuration loading for the loadout tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Storage drivers accepted by StorageConfig.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// StorageConfig selects where loadouts are persisted.
type StorageConfig struct {
	// Driver is one of "memory", "sqlite", "postgres".
	Driver string `mapstructure:"driver"`
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `mapstructure:"sqlite_path"`
	// Profile is the UUID of the save profile the loadout belongs to.
	Profile string `mapstructure:"profile"`
}

// ProfileID parses Profile.
//
// Postcondition: Returns the parsed UUID or a non-nil error.
func (s StorageConfig) ProfileID() (uuid.UUID, error) {
	id, err := uuid.Parse(s.Profile)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage.profile %q: %w", s.Profile, err)
	}
	return id, nil
}

// ContentConfig locates the catalog YAML directories.
type ContentConfig struct {
	VehiclesDir string `mapstructure:"vehicles_dir"`
	ModulesDir  string `mapstructure:"modules_dir"`
}

// LoadoutConfig holds the loadout engine policy flags.
type LoadoutConfig struct {
	ExclusiveVehicles                bool `mapstructure:"exclusive_vehicles"`
	ExclusiveModules                 bool `mapstructure:"exclusive_modules"`
	SlotPerVehicle                   bool `mapstructure:"slot_per_vehicle"`
	SlotCount                        int  `mapstructure:"slot_count"`
	MinVisibleSlots                  int  `mapstructure:"min_visible_slots"`
	ApplyVehicleSelectionImmediately bool `mapstructure:"apply_vehicle_selection_immediately"`
	ApplyModuleSelectionImmediately  bool `mapstructure:"apply_module_selection_immediately"`
	RestoreLastActiveSlot            bool `mapstructure:"restore_last_active_slot"`
}

// ConsoleConfig holds settings for the text console.
type ConsoleConfig struct {
	// Wrap makes next/prev wrap around at either end instead of stopping there.
	Wrap bool `mapstructure:"wrap"`
	// Prompt is printed before each interactive command.
	Prompt string `mapstructure:"prompt"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Content  ContentConfig  `mapstructure:"content"`
	Loadout  LoadoutConfig  `mapstructure:"loadout"`
	Console  ConsoleConfig  `mapstructure:"console"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Driver == DriverPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLoadout(c.Loadout); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	switch s.Driver {
	case DriverMemory, DriverPostgres:
	case DriverSQLite:
		if s.SQLitePath == "" {
			errs = append(errs, "storage.sqlite_path must not be empty for the sqlite driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("storage.driver must be one of [memory, sqlite, postgres], got %q", s.Driver))
	}
	if _, err := s.ProfileID(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.VehiclesDir == "" {
		errs = append(errs, "content.vehicles_dir must not be empty")
	}
	if c.ModulesDir == "" {
		errs = append(errs, "content.modules_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLoadout(l LoadoutConfig) error {
	var errs []string
	if l.SlotCount < 0 {
		errs = append(errs, fmt.Sprintf("loadout.slot_count must be >= 0, got %d", l.SlotCount))
	}
	if !l.SlotPerVehicle && l.SlotCount < 1 {
		errs = append(errs, "loadout.slot_count must be >= 1 when loadout.slot_per_vehicle is false")
	}
	if l.MinVisibleSlots < 0 {
		errs = append(errs, fmt.Sprintf("loadout.min_visible_slots must be >= 0, got %d", l.MinVisibleSlots))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with IRONCLAD_ prefix
	v.SetEnvPrefix("IRONCLAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewViper returns a Viper instance populated with the default configuration.
//
// Postcondition: LoadFromViper(NewViper()) returns a valid Config.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// DefaultProfile is the save profile used when none is configured.
const DefaultProfile = "00000000-0000-0000-0000-000000000001"

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "ironclad")
	v.SetDefault("database.password", "ironclad")
	v.SetDefault("database.name", "ironclad")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "data/loadouts.db")
	v.SetDefault("storage.profile", DefaultProfile)

	v.SetDefault("content.vehicles_dir", "content/vehicles")
	v.SetDefault("content.modules_dir", "content/modules")

	v.SetDefault("loadout.exclusive_vehicles", true)
	v.SetDefault("loadout.exclusive_modules", false)
	v.SetDefault("loadout.slot_per_vehicle", true)
	v.SetDefault("loadout.slot_count", 3)
	v.SetDefault("loadout.min_visible_slots", 0)
	v.SetDefault("loadout.apply_vehicle_selection_immediately", true)
	v.SetDefault("loadout.apply_module_selection_immediately", true)
	v.SetDefault("loadout.restore_last_active_slot", true)

	v.SetDefault("console.wrap", true)
	v.SetDefault("console.prompt", "> ")
}
