// Package config loads the ema-assist process configuration from an
// optional YAML file, .env files and EMA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/koscakluka/ema-assist/core/audio"
	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/koscakluka/ema-assist/core/store"
	"github.com/koscakluka/ema-assist/core/voice"
)

const (
	EnvPrefix   = "EMA"
	DefaultName = "ema-assist"
)

var ErrNoDataDir = errors.New("data_dir is empty and not every store has a path")

type Config struct {
	DataDir      string             `mapstructure:"data_dir"`
	Store        StoreConfig        `mapstructure:"store"`
	Fraud        FraudConfig        `mapstructure:"fraud"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Voices       VoicesConfig       `mapstructure:"voices"`
	Speech       SpeechConfig       `mapstructure:"speech"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Log          LogConfig          `mapstructure:"log"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
}

type StoreConfig struct {
	Workers       int           `mapstructure:"workers"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DrinkOrders   string        `mapstructure:"drink_orders"`
	GroceryOrders string        `mapstructure:"grocery_orders"`
	Leads         string        `mapstructure:"leads"`
	GameSave      string        `mapstructure:"game_save"`
}

type FraudConfig struct {
	// Driver is sqlite or postgres.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// Seed loads the sample cases when the table is empty.
	Seed bool `mapstructure:"seed"`
}

type CatalogConfig struct {
	Grocery string `mapstructure:"grocery"`
	Company string `mapstructure:"company"`
	Tutor   string `mapstructure:"tutor"`
}

type VoicesConfig struct {
	Learn     string `mapstructure:"learn"`
	Quiz      string `mapstructure:"quiz"`
	TeachBack string `mapstructure:"teach_back"`
}

type SpeechConfig struct {
	DeepgramAPIKey string `mapstructure:"deepgram_api_key"`
	Encoding       string `mapstructure:"encoding"`
	SampleRate     int    `mapstructure:"sample_rate"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type ConversationConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Production bool   `mapstructure:"production"`
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// SetDefaults registers every key with its default so environment
// overrides are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	voices := voice.DefaultMap()
	learn, _ := voices.Voice(voice.Learn)
	quiz, _ := voices.Voice(voice.Quiz)
	teachBack, _ := voices.Voice(voice.TeachBack)

	v.SetDefault("data_dir", "data")
	v.SetDefault("store.workers", store.DefaultWorkers)
	v.SetDefault("store.timeout", store.DefaultTimeout)
	v.SetDefault("store.drink_orders", "")
	v.SetDefault("store.grocery_orders", "")
	v.SetDefault("store.leads", "")
	v.SetDefault("store.game_save", "")
	v.SetDefault("fraud.driver", "sqlite")
	v.SetDefault("fraud.dsn", "")
	v.SetDefault("fraud.seed", false)
	v.SetDefault("catalog.grocery", "")
	v.SetDefault("catalog.company", "")
	v.SetDefault("catalog.tutor", "")
	v.SetDefault("voices.learn", string(learn))
	v.SetDefault("voices.quiz", string(quiz))
	v.SetDefault("voices.teach_back", string(teachBack))
	v.SetDefault("speech.deepgram_api_key", "")
	v.SetDefault("speech.encoding", string(audio.DefaultFormat))
	v.SetDefault("speech.sample_rate", audio.DefaultSampleRate)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("conversation.ttl", 30*time.Minute)
	v.SetDefault("log.file", filepath.Join("logs", "ema-assist.log"))
	v.SetDefault("log.production", false)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
}

// LoadDotEnv loads .env.local and then .env from dir. Variables already set
// in the environment win; missing files are skipped.
func LoadDotEnv(dir string) error {
	for _, name := range []string{".env.local", ".env"} {
		err := godotenv.Load(filepath.Join(dir, name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// Load reads configFile, or ema-assist.yaml from the working directory when
// configFile is empty, and applies EMA_* overrides on top.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(DefaultName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolve fills store paths from data_dir and validates what the process
// cannot start without.
func (c *Config) resolve() error {
	c.DataDir = strings.TrimSpace(c.DataDir)
	paths := []*string{&c.Store.DrinkOrders, &c.Store.GroceryOrders, &c.Store.Leads, &c.Store.GameSave}
	names := []string{"orders.json", "grocery_orders.json", "leads.json", "gamestate.json"}
	for i, path := range paths {
		*path = strings.TrimSpace(*path)
		if *path != "" {
			continue
		}
		if c.DataDir == "" {
			return ErrNoDataDir
		}
		*path = filepath.Join(c.DataDir, names[i])
	}

	c.Fraud.Driver = strings.ToLower(strings.TrimSpace(c.Fraud.Driver))
	if c.Fraud.DSN == "" {
		if c.Fraud.Driver != "sqlite" {
			return fmt.Errorf("fraud.dsn is required for driver %q", c.Fraud.Driver)
		}
		if c.DataDir == "" {
			return ErrNoDataDir
		}
		c.Fraud.DSN = filepath.Join(c.DataDir, "fraud_cases.db")
	}

	if c.Store.Workers <= 0 {
		return fmt.Errorf("store.workers must be positive, got %d", c.Store.Workers)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive, got %s", c.Store.Timeout)
	}
	if c.Conversation.TTL <= 0 {
		return fmt.Errorf("conversation.ttl must be positive, got %s", c.Conversation.TTL)
	}
	if _, err := c.VoiceMap(); err != nil {
		return err
	}
	if _, err := c.EncodingInfo(); err != nil {
		return err
	}
	return nil
}

func (c *Config) VoiceMap() (voice.Map, error) {
	return voice.NewMap(map[voice.Mode]voice.Voice{
		voice.Learn:     voice.Voice(c.Voices.Learn),
		voice.Quiz:      voice.Voice(c.Voices.Quiz),
		voice.TeachBack: voice.Voice(c.Voices.TeachBack),
	})
}

func (c *Config) EncodingInfo() (audio.EncodingInfo, error) {
	format, err := audio.ParseEncodingFormat(c.Speech.Encoding)
	if err != nil {
		return audio.EncodingInfo{}, fmt.Errorf("speech.encoding: %w", err)
	}
	info := audio.EncodingInfo{SampleRate: c.Speech.SampleRate, Format: format}
	if err := info.Validate(); err != nil {
		return audio.EncodingInfo{}, fmt.Errorf("speech: %w", err)
	}
	return info, nil
}

func (c *Config) CatalogPaths() catalog.Paths {
	return catalog.Paths{
		Grocery: c.Catalog.Grocery,
		Company: c.Catalog.Company,
		Tutor:   c.Catalog.Tutor,
	}
}
