/*
Package config manages TOML configuration for the decoder: dictionary
limits, the decoder's search budget and scoring table, the IPC transport,
and CLI defaults.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/gboard-decode/internal/bigrammap"
	"github.com/bastiangx/gboard-decode/internal/decay"
	"github.com/bastiangx/gboard-decode/internal/utils"
	"github.com/bastiangx/gboard-decode/pkg/dict"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure.
type Config struct {
	Decoder DecoderConfig `toml:"decoder"`
	Dict    DictConfig    `toml:"dict"`
	IPC     IPCConfig     `toml:"ipc"`
	CLI     CliConfig     `toml:"cli"`
}

// DecoderConfig governs the best-first search budget and its matchCost
// demotion table (spec.md §4.7). MaxCachedPrevWordsInBigramMap is saved and
// loaded with the rest of the config, but Suggest does not read it: the
// bigram map uses bigrammap.MaxCachedPrevWordsInBigramMap.
type DecoderConfig struct {
	MaxDepthMultiplier            int           `toml:"max_depth_multiplier"`
	MaxResults                    int           `toml:"max_results"`
	MaxCachedPrevWordsInBigramMap int           `toml:"max_cached_prev_words_in_bigram_map"`
	DecayIntervalSeconds          int64         `toml:"decay_interval_seconds"`
	Demotion                      DemotionRates `toml:"demotion"`
}

// DemotionRates are the fixed matchCost multipliers applied per edit kind.
type DemotionRates struct {
	MissingChar   float64 `toml:"missing_char"`
	MissingSpace  float64 `toml:"missing_space"`
	ExcessiveChar float64 `toml:"excessive_char"`
	Transposed    float64 `toml:"transposed"`
	Proximity     float64 `toml:"proximity"`
	FullMatch     float64 `toml:"full_match"`
}

// DictConfig holds dictionary limits. They are saved and loaded with the
// rest of the config; pkg/dict does not read them and enforces its own
// dict.MaxWordLength constant.
type DictConfig struct {
	MaxWordLength int `toml:"max_word_length"`
	MaxUnigrams   int `toml:"max_unigrams"`
	MaxBigrams    int `toml:"max_bigrams"`
}

// IPCConfig has management-server transport options.
type IPCConfig struct {
	SocketPath string `toml:"socket_path"`
}

// CliConfig holds CLI harness defaults.
type CliConfig struct {
	DictionaryPath    string `toml:"dictionary_path"`
	DefaultMaxResults int    `toml:"default_max_results"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "gboard-decode")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "gboard-decode")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/gboard-decode/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values matching spec.md's
// constants (MaxWordLength, the §4.7 demotion table) and this project's
// own defaults for the values spec.md leaves to caller policy.
func DefaultConfig() *Config {
	return &Config{
		Decoder: DecoderConfig{
			MaxDepthMultiplier:            3,
			MaxResults:                    10,
			MaxCachedPrevWordsInBigramMap: bigrammap.MaxCachedPrevWordsInBigramMap,
			DecayIntervalSeconds:          decay.DecayIntervalSeconds,
			Demotion: DemotionRates{
				MissingChar:   0.80,
				MissingSpace:  0.80,
				ExcessiveChar: 0.75,
				Transposed:    0.60,
				Proximity:     0.90,
				FullMatch:     1.20,
			},
		},
		Dict: DictConfig{
			MaxWordLength: dict.MaxWordLength,
			MaxUnigrams:   50000,
			MaxBigrams:    20000,
		},
		IPC: IPCConfig{
			SocketPath: "",
		},
		CLI: CliConfig{
			DictionaryPath:    "",
			DefaultMaxResults: 10,
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to recover whatever sections parse cleanly from
// a TOML file that otherwise failed to fully decode.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if decoderSection, ok := utils.ExtractSection(tempConfig, "decoder"); ok {
		extractDecoderConfig(decoderSection, &config.Decoder)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if ipcSection, ok := utils.ExtractSection(tempConfig, "ipc"); ok {
		extractIPCConfig(ipcSection, &config.IPC)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractDecoderConfig(data map[string]any, decoder *DecoderConfig) {
	if val, ok := utils.ExtractInt64(data, "max_depth_multiplier"); ok {
		decoder.MaxDepthMultiplier = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		decoder.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "max_cached_prev_words_in_bigram_map"); ok {
		decoder.MaxCachedPrevWordsInBigramMap = val
	}
	if val, ok := utils.ExtractInt64(data, "decay_interval_seconds"); ok {
		decoder.DecayIntervalSeconds = int64(val)
	}
	if demotionSection, ok := utils.ExtractSection(data, "demotion"); ok {
		extractDemotionRates(demotionSection, &decoder.Demotion)
	}
}

func extractDemotionRates(data map[string]any, rates *DemotionRates) {
	if val, ok := utils.ExtractFloat64(data, "missing_char"); ok {
		rates.MissingChar = val
	}
	if val, ok := utils.ExtractFloat64(data, "missing_space"); ok {
		rates.MissingSpace = val
	}
	if val, ok := utils.ExtractFloat64(data, "excessive_char"); ok {
		rates.ExcessiveChar = val
	}
	if val, ok := utils.ExtractFloat64(data, "transposed"); ok {
		rates.Transposed = val
	}
	if val, ok := utils.ExtractFloat64(data, "proximity"); ok {
		rates.Proximity = val
	}
	if val, ok := utils.ExtractFloat64(data, "full_match"); ok {
		rates.FullMatch = val
	}
}

func extractDictConfig(data map[string]any, d *DictConfig) {
	if val, ok := utils.ExtractInt64(data, "max_word_length"); ok {
		d.MaxWordLength = val
	}
	if val, ok := utils.ExtractInt64(data, "max_unigrams"); ok {
		d.MaxUnigrams = val
	}
	if val, ok := utils.ExtractInt64(data, "max_bigrams"); ok {
		d.MaxBigrams = val
	}
}

func extractIPCConfig(data map[string]any, ipc *IPCConfig) {
	if val, ok := data["socket_path"].(string); ok {
		ipc.SocketPath = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := data["dictionary_path"].(string); ok {
		cli.DictionaryPath = val
	}
	if val, ok := utils.ExtractInt64(data, "default_max_results"); ok {
		cli.DefaultMaxResults = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path.
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes a subset of decoder config values and saves to file.
func (c *Config) Update(configPath string, maxResults, maxDepthMultiplier *int) error {
	decoder := &c.Decoder
	if maxResults != nil {
		decoder.MaxResults = *maxResults
	}
	if maxDepthMultiplier != nil {
		decoder.MaxDepthMultiplier = *maxDepthMultiplier
	}
	return SaveConfig(c, configPath)
}
