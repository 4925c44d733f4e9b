package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigMatchesSpecConstants(t *testing.T) {
	c := DefaultConfig()
	if c.Dict.MaxWordLength != 48 {
		t.Errorf("Dict.MaxWordLength = %d, want 48", c.Dict.MaxWordLength)
	}
	if c.Decoder.Demotion.FullMatch != 1.20 {
		t.Errorf("Demotion.FullMatch = %v, want 1.20", c.Decoder.Demotion.FullMatch)
	}
	if c.Decoder.Demotion.Transposed != 0.60 {
		t.Errorf("Demotion.Transposed = %v, want 0.60", c.Decoder.Demotion.Transposed)
	}
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	original := DefaultConfig()
	original.Decoder.MaxResults = 42
	original.Dict.MaxUnigrams = 12345

	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Decoder.MaxResults != 42 {
		t.Errorf("loaded Decoder.MaxResults = %d, want 42", loaded.Decoder.MaxResults)
	}
	if loaded.Dict.MaxUnigrams != 12345 {
		t.Errorf("loaded Dict.MaxUnigrams = %d, want 12345", loaded.Dict.MaxUnigrams)
	}
	if loaded.Decoder.Demotion.Proximity != 0.90 {
		t.Errorf("loaded Demotion.Proximity = %v, want 0.90", loaded.Decoder.Demotion.Proximity)
	}
}

func TestInitConfigCreatesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	c, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if c.Decoder.MaxResults != DefaultConfig().Decoder.MaxResults {
		t.Errorf("InitConfig did not return defaults")
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig after InitConfig failed: %v", err)
	}
	if loaded.Decoder.MaxDepthMultiplier != c.Decoder.MaxDepthMultiplier {
		t.Errorf("InitConfig did not persist file readable by LoadConfig")
	}
}

func TestUpdatePersistsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	c := DefaultConfig()
	if err := SaveConfig(c, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	newMax := 99
	if err := c.Update(path, &newMax, nil); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Decoder.MaxResults != 99 {
		t.Errorf("Decoder.MaxResults after Update = %d, want 99", loaded.Decoder.MaxResults)
	}
}
