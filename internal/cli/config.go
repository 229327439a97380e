package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/viant/careflow"
)

// EnvPrefix prefixes environment overrides, e.g. CAREFLOW_WORKERS
const EnvPrefix = "CAREFLOW"

// LoadConfig reads careflow.yaml from the working directory or ./config, or
// file when set, then applies CAREFLOW_* environment overrides
func LoadConfig(v *viper.Viper, file string) (*careflow.Config, error) {
	defaults := careflow.DefaultConfig()
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("author", defaults.Author)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.serviceName", defaults.Tracing.ServiceName)
	v.SetDefault("tracing.serviceVersion", defaults.Tracing.ServiceVersion)
	v.SetDefault("tracing.outputFile", defaults.Tracing.OutputFile)
	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.namespace", defaults.Metrics.Namespace)
	v.SetDefault("baseURL", defaults.BaseURL)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("careflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	config := &careflow.Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
