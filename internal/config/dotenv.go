package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no env file is named.
const DefaultEnvFile = ".env"

// LoadDotEnv exports the variables of each existing file into the process
// environment. Missing files are skipped. Variables already set, including
// those from an earlier file, are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{DefaultEnvFile}
	}
	var present []string
	for _, p := range paths {
		if p == "" {
			p = DefaultEnvFile
		}
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		present = append(present, p)
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// LoadConfig reads the optional env files and then the environment into an
// AppConfig.
func LoadConfig(envFiles ...string) (AppConfig, error) {
	if err := LoadDotEnv(envFiles...); err != nil {
		return AppConfig{}, err
	}
	env, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, fmt.Errorf("read environment: %w", err)
	}
	return env.Normalize().ToAppConfig(), nil
}
