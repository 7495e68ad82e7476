// Package config provides configuration management for pomo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/pomo/internal/domain"
)

// Config holds all configuration for the pomo application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Countdown     CountdownConfig    `mapstructure:"countdown"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds the session engine settings.
type TimerConfig struct {
	SessionDuration         Duration `mapstructure:"session_duration"`
	BreakDuration           Duration `mapstructure:"break_duration"`
	LongBreakDuration       Duration `mapstructure:"long_break_duration"`
	SessionsBeforeLongBreak int      `mapstructure:"sessions_before_long_break"`
	DailyGoal               int      `mapstructure:"daily_goal"`
	AutoStartBreaks         bool     `mapstructure:"auto_start_breaks"`
	AutoStartSessions       bool     `mapstructure:"auto_start_sessions"`
	CanPlaySound            bool     `mapstructure:"can_play_sound"`
	StartNewDayAt           string   `mapstructure:"start_new_day_at"`
}

// CountdownConfig tunes the countdown ticker.
type CountdownConfig struct {
	TickInterval  Duration `mapstructure:"tick_interval"`
	AnimationLead Duration `mapstructure:"animation_lead"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level             string `mapstructure:"level"`
	JSON              bool   `mapstructure:"json"`
	StrictTransitions bool   `mapstructure:"strict_transitions"`
}

// ThemeConfig holds the colors used by the terminal UI.
type ThemeConfig struct {
	ColorWork          string `mapstructure:"color_work"`
	ColorBreak         string `mapstructure:"color_break"`
	ColorPaused        string `mapstructure:"color_paused"`
	ColorHelp          string `mapstructure:"color_help"`
	WorkGradientStart  string `mapstructure:"work_gradient_start"`
	WorkGradientEnd    string `mapstructure:"work_gradient_end"`
	BreakGradientStart string `mapstructure:"break_gradient_start"`
	BreakGradientEnd   string `mapstructure:"break_gradient_end"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:          "#E05A47",
		ColorBreak:         "#4ECDC4",
		ColorPaused:        "#6B7280",
		ColorHelp:          "#95A5A6",
		WorkGradientStart:  "#E05A47",
		WorkGradientEnd:    "#F39C6B",
		BreakGradientStart: "#4ECDC4",
		BreakGradientEnd:   "#2ECC71",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	s := domain.DefaultSettings()
	return &Config{
		Timer: TimerConfig{
			SessionDuration:         minutes(s.SessionDuration),
			BreakDuration:           minutes(s.BreakDuration),
			LongBreakDuration:       minutes(s.LongBreakDuration),
			SessionsBeforeLongBreak: s.SessionsBeforeLongBreak,
			DailyGoal:               s.DailyGoal,
			AutoStartBreaks:         s.AutoStartBreaks,
			AutoStartSessions:       s.AutoStartSessions,
			CanPlaySound:            s.CanPlaySound,
			StartNewDayAt:           s.StartNewDayAt,
		},
		Countdown: CountdownConfig{
			TickInterval:  Duration(100 * time.Millisecond),
			AnimationLead: Duration(time.Second),
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: "~/.pomo",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Theme: DefaultThemeConfig(),
	}
}

func minutes(n int) Duration {
	return Duration(time.Duration(n) * time.Minute)
}

// Settings converts the timer section into validated engine settings.
func (c *Config) Settings() (domain.Settings, error) {
	toMinutes := func(name string, d Duration) (int, error) {
		td := time.Duration(d)
		if td%time.Minute != 0 {
			return 0, fmt.Errorf("%w: %s must be whole minutes, got %s", domain.ErrInvalidSettings, name, td)
		}
		return int(td / time.Minute), nil
	}

	session, err := toMinutes("session_duration", c.Timer.SessionDuration)
	if err != nil {
		return domain.Settings{}, err
	}
	shortBreak, err := toMinutes("break_duration", c.Timer.BreakDuration)
	if err != nil {
		return domain.Settings{}, err
	}
	longBreak, err := toMinutes("long_break_duration", c.Timer.LongBreakDuration)
	if err != nil {
		return domain.Settings{}, err
	}

	s := domain.Settings{
		SessionDuration:         session,
		BreakDuration:           shortBreak,
		LongBreakDuration:       longBreak,
		SessionsBeforeLongBreak: c.Timer.SessionsBeforeLongBreak,
		DailyGoal:               c.Timer.DailyGoal,
		AutoStartBreaks:         c.Timer.AutoStartBreaks,
		AutoStartSessions:       c.Timer.AutoStartSessions,
		CanPlaySound:            c.Timer.CanPlaySound,
		StartNewDayAt:           c.Timer.StartNewDayAt,
	}
	if err := s.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating the file
// with defaults when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return decode(v)
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath.
func SaveTo(configPath string, cfg *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)
	for key, value := range flatten(cfg) {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Set updates one key in the config file at configPath. The resulting
// configuration must still produce valid settings.
func Set(configPath, key, value string) (*Config, error) {
	if !IsKey(key) {
		return nil, fmt.Errorf("unknown config key %q", key)
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if _, err := cfg.Settings(); err != nil {
		return nil, err
	}
	if err := SaveTo(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Keys returns every settable config key, sorted.
func Keys() []string {
	values := flatten(DefaultConfig())
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key names a config value.
func IsKey(key string) bool {
	_, ok := flatten(DefaultConfig())[strings.ToLower(key)]
	return ok
}

// Values returns the flattened key/value view of cfg.
func Values(cfg *Config) map[string]any {
	return flatten(cfg)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pomo", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "pomo.db")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	for key, value := range flatten(DefaultConfig()) {
		v.SetDefault(key, value)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in data directory
	if cfg.Storage.DataDir == "" || strings.HasPrefix(cfg.Storage.DataDir, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		rest := strings.TrimPrefix(cfg.Storage.DataDir, "~")
		if rest == "" {
			rest = ".pomo"
		}
		cfg.Storage.DataDir = filepath.Join(homeDir, rest)
	}

	return &cfg, nil
}

// flatten maps every dotted config key to its TOML value.
func flatten(cfg *Config) map[string]any {
	return map[string]any{
		"timer.session_duration":           cfg.Timer.SessionDuration.String(),
		"timer.break_duration":             cfg.Timer.BreakDuration.String(),
		"timer.long_break_duration":        cfg.Timer.LongBreakDuration.String(),
		"timer.sessions_before_long_break": cfg.Timer.SessionsBeforeLongBreak,
		"timer.daily_goal":                 cfg.Timer.DailyGoal,
		"timer.auto_start_breaks":          cfg.Timer.AutoStartBreaks,
		"timer.auto_start_sessions":        cfg.Timer.AutoStartSessions,
		"timer.can_play_sound":             cfg.Timer.CanPlaySound,
		"timer.start_new_day_at":           cfg.Timer.StartNewDayAt,
		"countdown.tick_interval":          cfg.Countdown.TickInterval.String(),
		"countdown.animation_lead":         cfg.Countdown.AnimationLead.String(),
		"notifications.enabled":            cfg.Notifications.Enabled,
		"storage.data_dir":                 cfg.Storage.DataDir,
		"log.level":                        cfg.Log.Level,
		"log.json":                         cfg.Log.JSON,
		"log.strict_transitions":           cfg.Log.StrictTransitions,
		"theme.color_work":                 cfg.Theme.ColorWork,
		"theme.color_break":                cfg.Theme.ColorBreak,
		"theme.color_paused":               cfg.Theme.ColorPaused,
		"theme.color_help":                 cfg.Theme.ColorHelp,
		"theme.work_gradient_start":        cfg.Theme.WorkGradientStart,
		"theme.work_gradient_end":          cfg.Theme.WorkGradientEnd,
		"theme.break_gradient_start":       cfg.Theme.BreakGradientStart,
		"theme.break_gradient_end":         cfg.Theme.BreakGradientEnd,
	}
}
