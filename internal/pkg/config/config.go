package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/spf13/viper"
)

type Config struct {
	Host            string
	Port            int
	DBURL           string
	DBConnect       time.Duration
	LogLevel        string
	LogDev          bool
	ModelURL        string
	ModelDevice     string
	ModelTopK       int
	ModelTimeout    time.Duration
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// env-переменные совместимы со старым деплоем.
var envBindings = map[string]string{
	constants.ViperHostKey:             "HOST",
	constants.ViperPortKey:             "PORT",
	constants.ViperDBURLKey:            "DB_URL",
	constants.ViperDBConnectTimeoutKey: "DB_CONNECT_TIMEOUT",
	constants.ViperLogLevelKey:         "LOG_LEVEL",
	constants.ViperLogDevKey:           "LOG_DEV",
	constants.ViperModelURLKey:         "MODEL_URL",
	constants.ViperModelDeviceKey:      "DEVICE",
	constants.ViperModelTopKKey:        "MODEL_TOPK",
	constants.ViperModelTimeoutKey:     "MODEL_TIMEOUT",
	constants.ViperCORSOriginsKey:      "CORS_ALLOW_ORIGINS",
	constants.ViperShutdownTimeoutKey:  "SHUTDOWN_TIMEOUT",
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperHostKey, "0.0.0.0")
	v.SetDefault(constants.ViperPortKey, 8000)
	v.SetDefault(constants.ViperDBURLKey, "sqlite:///data/kisan_netra.db")
	v.SetDefault(constants.ViperDBConnectTimeoutKey, 30*time.Second)
	v.SetDefault(constants.ViperLogLevelKey, "info")
	v.SetDefault(constants.ViperLogDevKey, false)
	v.SetDefault(constants.ViperModelURLKey, "")
	v.SetDefault(constants.ViperModelDeviceKey, "cpu")
	v.SetDefault(constants.ViperModelTopKKey, 3)
	v.SetDefault(constants.ViperModelTimeoutKey, 10*time.Second)
	v.SetDefault(constants.ViperCORSOriginsKey, []string{"*"})
	v.SetDefault(constants.ViperShutdownTimeoutKey, 10*time.Second)
}

// Load reads defaults, the optional config file and the environment into v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("viper.BindEnv %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("viper.ReadInConfig: %w", err)
		}
	}

	cfg := &Config{
		Host:            v.GetString(constants.ViperHostKey),
		Port:            v.GetInt(constants.ViperPortKey),
		DBURL:           v.GetString(constants.ViperDBURLKey),
		DBConnect:       v.GetDuration(constants.ViperDBConnectTimeoutKey),
		LogLevel:        v.GetString(constants.ViperLogLevelKey),
		LogDev:          v.GetBool(constants.ViperLogDevKey),
		ModelURL:        v.GetString(constants.ViperModelURLKey),
		ModelDevice:     v.GetString(constants.ViperModelDeviceKey),
		ModelTopK:       v.GetInt(constants.ViperModelTopKKey),
		ModelTimeout:    v.GetDuration(constants.ViperModelTimeoutKey),
		CORSOrigins:     splitList(v.GetStringSlice(constants.ViperCORSOriginsKey)),
		ShutdownTimeout: v.GetDuration(constants.ViperShutdownTimeoutKey),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.ModelTopK <= 0 {
		return nil, fmt.Errorf("invalid model topk %d", cfg.ModelTopK)
	}

	return cfg, nil
}

// splitList also accepts a single comma-separated value, which is what env vars give us.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
