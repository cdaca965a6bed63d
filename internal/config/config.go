package config

import "trendcheck-go/pkg/pipeline"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Pipeline   pipeline.Config  `mapstructure:"pipeline"`
	Scorer     ScorerConfig     `mapstructure:"scorer"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
	Report     ReportConfig     `mapstructure:"report"`
	Trends     TrendsConfig     `mapstructure:"trends"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type ScorerConfig struct {
	// Profile selects the scorer instance: "trend" or "priority".
	Profile string `mapstructure:"profile"`
	Seed    int64  `mapstructure:"seed"`
}

type CheckpointConfig struct {
	Path string `mapstructure:"path"`
}

type ReportConfig struct {
	OutputDir      string  `mapstructure:"output_dir"`
	ScoreThreshold float64 `mapstructure:"score_threshold"`
}

type TrendsConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
