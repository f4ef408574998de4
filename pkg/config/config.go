package config

// Package config provides a reusable loader for gatewaycore configuration
// files and environment variables. It is versioned so that applications can
// depend on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"gatewaycore/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration for a gateway/ITS deployment.
// It mirrors the structure of the YAML files under config/.
type Config struct {
	Gateway struct {
		DomainSeparator          string `mapstructure:"domain_separator" json:"domain_separator"`
		PreviousSignersRetention uint64 `mapstructure:"previous_signers_retention" json:"previous_signers_retention"`
		MinimumRotationDelay     uint64 `mapstructure:"minimum_rotation_delay" json:"minimum_rotation_delay"`
		Owner                    string `mapstructure:"owner" json:"owner"`
		Operator                 string `mapstructure:"operator" json:"operator"`
	} `mapstructure:"gateway" json:"gateway"`

	ITS struct {
		ChainName       string `mapstructure:"chain_name" json:"chain_name"`
		HubChainName    string `mapstructure:"hub_chain_name" json:"hub_chain_name"`
		HubChainAddress string `mapstructure:"hub_chain_address" json:"hub_chain_address"`
		TokenWasmHash   string `mapstructure:"token_wasm_hash" json:"token_wasm_hash"`
		ManagerWasmHash string `mapstructure:"manager_wasm_hash" json:"manager_wasm_hash"`
	} `mapstructure:"its" json:"its"`

	Storage struct {
		DBPath string `mapstructure:"db_path" json:"db_path"`
	} `mapstructure:"storage" json:"storage"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // picks up from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}

	// A handful of gateway fields take a dedicated env var override on top of
	// the config file and viper.AutomaticEnv's blanket matching, so an
	// operator can flip the rotation delay or swap the owner/operator address
	// for one process without editing config/.
	AppConfig.Gateway.Owner = utils.EnvOrDefault("GATEWAYCORE_GATEWAY_OWNER", AppConfig.Gateway.Owner)
	AppConfig.Gateway.Operator = utils.EnvOrDefault("GATEWAYCORE_GATEWAY_OPERATOR", AppConfig.Gateway.Operator)
	AppConfig.Gateway.MinimumRotationDelay = utils.EnvOrDefaultUint64("GATEWAYCORE_GATEWAY_MIN_ROTATION_DELAY", AppConfig.Gateway.MinimumRotationDelay)
	AppConfig.Gateway.PreviousSignersRetention = utils.EnvOrDefaultUint64("GATEWAYCORE_GATEWAY_PREV_SIGNERS_RETENTION", AppConfig.Gateway.PreviousSignersRetention)

	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the GATEWAYCORE_ENV environment
// variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("GATEWAYCORE_ENV", ""))
}
