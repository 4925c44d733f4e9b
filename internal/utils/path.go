package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// PathResolver provides robust path resolution for the decoder binary.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	execDir := filepath.Dir(execPath)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	configDir := getConfigDir(homeDir)

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  execDir,
		homeDir:        homeDir,
		configDir:      configDir,
	}

	log.Debugf("PathResolver initialized: exec=%s, execDir=%s, configDir=%s",
		execPath, execDir, configDir)

	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform.
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", "gboard-decode")
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "gboard-decode")
		}
		return filepath.Join(homeDir, ".config", "gboard-decode")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gboard-decode")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "gboard-decode")
	default:
		return filepath.Join(homeDir, ".gboard-decode")
	}
}

// GetDictionaryPath resolves the path of a single binary dictionary file.
// It tries, in order: the user-specified path verbatim (if absolute), the
// path relative to the executable directory, relative to the current working
// directory, and a handful of conventional install locations.
func (pr *PathResolver) GetDictionaryPath(userSpecifiedPath string) (string, error) {
	var candidates []string

	if filepath.IsAbs(userSpecifiedPath) {
		candidates = append(candidates, userSpecifiedPath)
	}

	execRelative := filepath.Join(pr.executableDir, userSpecifiedPath)
	candidates = append(candidates, execRelative)

	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
	}

	candidates = append(candidates,
		filepath.Join(pr.executableDir, "dict", userSpecifiedPath),
		filepath.Join(filepath.Dir(pr.executableDir), "dict", userSpecifiedPath),
		filepath.Join(pr.configDir, "dict", userSpecifiedPath),
	)

	for _, path := range candidates {
		if pr.pathExists(path) {
			log.Debugf("Found dictionary file: %s", path)
			return path, nil
		}
		log.Debugf("Dictionary candidate not found: %s", path)
	}

	return execRelative, nil
}

// GetConfigPath returns the full path for a config file, ensuring the config
// directory exists, falling back to increasingly permissive locations when it
// isn't writable.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	configPath := filepath.Join(pr.configDir, filename)
	if pr.ensureConfigDir(pr.configDir) {
		return configPath, nil
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, ".gboard-decode"),
		filepath.Join(os.TempDir(), "gboard-decode"),
		pr.executableDir,
	}

	for _, dir := range fallbackDirs {
		if pr.ensureConfigDir(dir) {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path, nil
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

func (pr *PathResolver) ensureConfigDir(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Debugf("Cannot create config directory %s: %v", dir, err)
		return false
	}
	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		log.Debugf("Config directory %s is not writable: %v", dir, err)
		return false
	}
	os.Remove(testFile)
	return true
}

// GetExecutableDir returns the directory containing the executable.
func (pr *PathResolver) GetExecutableDir() string { return pr.executableDir }

// GetExecutablePath returns the full path to the executable.
func (pr *PathResolver) GetExecutablePath() string { return pr.executablePath }

// GetConfigDir returns the config directory.
func (pr *PathResolver) GetConfigDir() string { return pr.configDir }

// ResolveRelativePath resolves a path relative to the executable directory.
func (pr *PathResolver) ResolveRelativePath(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(pr.executableDir, relativePath)
}

// GetRuntimeInfo returns debug information about the current runtime environment.
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}

	envVars := []string{"PWD", "HOME", "XDG_CONFIG_HOME", "APPDATA", "PATH"}
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}

	return info
}

func (pr *PathResolver) pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
