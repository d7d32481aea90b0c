// Package config 运行配置，来源依次为默认值、配置文件、ELECTRIC_* 环境变量与命令行参数。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"electric/types"
	"electric/utils"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "ELECTRIC"

// SolverConfig 求解参数
type SolverConfig struct {
	PivotTolerance float64 `mapstructure:"pivot_tolerance"`
}

// LogConfig 日志参数
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DebugConfig 调试记录
type DebugConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	HistoryDB string `mapstructure:"history_db"` // 空表示不保存历史
}

// WatchConfig 文件监视
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config 运行配置
type Config struct {
	Solver SolverConfig `mapstructure:"solver"`
	Log    LogConfig    `mapstructure:"log"`
	Debug  DebugConfig  `mapstructure:"debug"`
	Watch  WatchConfig  `mapstructure:"watch"`
}

// Init 配置 viper 的文件与环境变量来源；path 为空时查找 .electric.yaml
func Init(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(".electric")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("读取配置: %w", err)
	}
	return nil
}

// Load 读取配置，未设置的项使用默认值
func Load() (Config, error) {
	viper.SetDefault("solver.pivot_tolerance", types.PivotTolerance)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("debug.enabled", false)
	viper.SetDefault("debug.history_db", "")
	viper.SetDefault("watch.debounce", 100*time.Millisecond)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("解析配置: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate 检查配置取值
func (cfg Config) Validate() error {
	if !(cfg.Solver.PivotTolerance > 0) {
		return fmt.Errorf("solver.pivot_tolerance 必须为正数: %v", cfg.Solver.PivotTolerance)
	}
	if _, err := utils.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce 不能为负: %v", cfg.Watch.Debounce)
	}
	return nil
}
