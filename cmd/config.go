package cmd

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	envPrefix = "SUBGRAPH"

	configFlagName        = "config"
	logLevelFlagName      = "log-level"
	sourceFlagName        = "source"
	destinationFlagName   = "destination"
	graphNameFlagName     = "graph-name"
	graphURLFlagName      = "graph-url"
	markerPolicyFlagName  = "marker-policy"
	onCollisionFlagName   = "on-collision"
	emptyEntitiesFlagName = "empty-entities"
	linkURLFlagName       = "link-url"
	summaryFlagName       = "summary"
	summaryFormatFlagName = "summary-format"

	defaultLogLevel = "warn"
)

// newConfig returns a viper instance where SUBGRAPH_<FLAG> environment variables override the config file
func newConfig() *viper.Viper {
	config := viper.New()
	config.SetConfigType("yaml")
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()
	return config
}

func readConfigFile(config *viper.Viper) error {
	path := config.GetString(configFlagName)
	if path == "" {
		return nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expand config path: %w", err)
	}
	config.SetConfigFile(expanded)
	if err := config.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}
