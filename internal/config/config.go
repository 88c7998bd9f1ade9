package config

import (
	"github.com/spf13/viper"

	"github.com/kleinfit/klein-data-pipeline/internal/cleaning"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Cleaning CleaningConfig
	Firebase FirebaseConfig
	MongoDB  MongoDBConfig
	Publish  PublishConfig
	JWT      JWTConfig
	LogLevel string
}

// ServerConfig holds ops-server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
	// APIKeyHash is the bcrypt hash of the ops API key that can be
	// exchanged for a token
	APIKeyHash string
}

// DataConfig holds the on-disk layout of the pipeline's data directories
type DataConfig struct {
	RawJSONDir   string
	RawAuthDir   string
	ProcessedDir string
}

// CleaningConfig holds the business constants injected into the cleaning
// engine. The exclusion sets are fixed per deployment, not derived from data.
type CleaningConfig struct {
	TestAccounts               []string
	FlaggedEmailSubstrings     []string
	FakeEmailDomains           []string
	IncompleteProfileThreshold int
}

// FirebaseConfig holds Firebase source configuration
type FirebaseConfig struct {
	DatabaseURL string
	ProjectID   string
	AccessToken string
	Mock        bool
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// PublishConfig gates the optional warehouse-upload stage
type PublishConfig struct {
	Enabled bool
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("Data.RawJSONDir", "data/raw/json")
	viper.SetDefault("Data.RawAuthDir", "data/raw/auth")
	viper.SetDefault("Data.ProcessedDir", "data/processed")
	viper.SetDefault("Cleaning.TestAccounts", []string{
		"jR3UB09kczdJQtCGtKHHkHjhVVO2",
		"QxjvzDIiQsXdaw75X4Y8SVKEsq52",
		"9tOJ5ZlfRoWnbNmiaDporsJv39V2",
		"Onr5ALx1EXh9Pl7q0cIiVFHyzhd2",
		"dFI1IXGR0pWkEvZMneJTyr05eK52",
		"jYLJccV2lVZKMouzjU6u7NXZs3x1",
	})
	viper.SetDefault("Cleaning.FlaggedEmailSubstrings", []string{"uat", "builduat", "uatbuild", "hkleeiin"})
	viper.SetDefault("Cleaning.FakeEmailDomains", []string{"uatbuild.com", "uat.com"})
	viper.SetDefault("Cleaning.IncompleteProfileThreshold", cleaning.DefaultIncompleteProfileThreshold)
	viper.SetDefault("Firebase.Mock", true)
	viper.SetDefault("MongoDB.Database", "klein")
	viper.SetDefault("Publish.Enabled", false)
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
}
