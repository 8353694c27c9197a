package config

import (
	"bytes"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

const defaultHeader = `# bindgen project configuration
# Every key can be overridden with BINDGEN_<SECTION>_<KEY> environment variables.

`

// WriteDefault writes the default configuration to path. An existing file
// is kept unless force is set, in which case it is backed up first.
func WriteDefault(path string, force bool) error {
	cfg := Default()
	cfg.Library.Sources = []string{"**/*"}
	return Write(cfg, path, force)
}

// Write saves cfg to a new file at path. An existing file is kept unless
// force is set.
func Write(cfg *Config, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"use --force to overwrite it; the previous file is kept as .back1")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return Save(cfg, path)
}

// Save writes cfg to path as TOML, rotating backups (.back1, .back2, .back3)
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString(defaultHeader)
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Infow("Wrote config", logger.FieldPath, path)
	return nil
}

// createBackup rotates .back2 -> .back3, .back1 -> .back2 and copies the
// current file to .back1
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old backup", logger.FieldPath, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, 0o644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
