package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/naming"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "snake", cfg.Parser.NamingConvention)
	assert.Equal(t, "bindgen", cfg.Parser.IgnoreAttribute)
	assert.Equal(t, DefaultOutputDir, cfg.Generator.OutputDir)
	assert.Equal(t, []string{"all"}, cfg.Generator.Targets)
	assert.Equal(t, DefaultIRFile, cfg.Generator.IRFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[library]
name = "geo"
version = "1.2.3"
root = "src"
languages = ["rust"]

[parser]
naming_convention = "kebab"

[parser.options]
skip_private = "true"

[generator]
targets = ["c", "csharp"]
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "geo", cfg.Library.Name)
	assert.Equal(t, []string{"rust"}, cfg.Library.Languages)
	assert.Equal(t, []string{"c", "csharp"}, cfg.Generator.Targets)
	assert.Equal(t, DefaultOutputDir, cfg.Generator.OutputDir)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.SourceRoot())
	assert.Equal(t, filepath.Join(dir, "out"), cfg.Resolve("out"))
	assert.Equal(t, "/abs", cfg.Resolve("/abs"))

	pc, err := cfg.ParserConfig()
	require.NoError(t, err)
	assert.Equal(t, naming.Kebab, pc.NamingConvention)
	assert.True(t, pc.BoolOption("skip_private", false))
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[library]\nversion = \"one\"\n")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = LoadFromFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"semver with v prefix", func(c *Config) { c.Library.Version = "v0.3.0" }, false},
		{"bad version", func(c *Config) { c.Library.Version = "latest" }, true},
		{"unknown convention", func(c *Config) { c.Parser.NamingConvention = "shouty" }, true},
		{"empty target", func(c *Config) { c.Generator.Targets = []string{"c", " "} }, true},
		{"empty output dir", func(c *Config) { c.Generator.OutputDir = "" }, true},
		{"negative verbosity", func(c *Config) { c.Log.Verbosity = -1 }, true},
		{"empty language", func(c *Config) { c.Library.Languages = []string{""} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParserConfig_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Parser.NamingConvention = "shouty"
	_, err := cfg.ParserConfig()
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Empty(t, FindProjectConfig(nested))

	path := writeConfig(t, root, "")
	assert.Equal(t, path, FindProjectConfig(nested))
	assert.Empty(t, FindProjectConfig(""))
}

func TestLoad_ProjectAndEnv(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	writeConfig(t, dir, "[generator]\noutput_dir = \"bindings\"\n[library]\nname = \"geo\"\n")
	t.Chdir(dir)
	t.Setenv("BINDGEN_LIBRARY_NAME", "from_env")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bindings", cfg.Generator.OutputDir)
	assert.Equal(t, "from_env", cfg.Library.Name)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.Path)

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	require.NoError(t, WriteDefault(path, false))
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "snake", cfg.Parser.NamingConvention)
	assert.Equal(t, []string{"**/*"}, cfg.Library.Sources)

	assert.Error(t, WriteDefault(path, false))

	require.NoError(t, WriteDefault(path, true))
	assert.FileExists(t, path+".back1")
	require.NoError(t, WriteDefault(path, true))
	assert.FileExists(t, path+".back2")
}

func TestWriteRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg := Default()
	cfg.Library.Version = "not-a-version"
	err := Write(cfg, path, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	assert.NoFileExists(t, path)
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, isBackupFile("bindgen.toml.back1"))
	assert.True(t, isBackupFile("/x/bindgen.toml.back3"))
	assert.False(t, isBackupFile("bindgen.toml"))
	assert.False(t, isBackupFile("notes.backup"))
}

func waitForChange(t *testing.T, changes <-chan string, want string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-changes:
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("no change %q observed", want)
		}
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[library]\nname = \"geo\"\n")
	irFile := filepath.Join(dir, "lib.yaml")
	require.NoError(t, os.WriteFile(irFile, []byte("{}"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(cfg, irFile)
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	var calls atomic.Int32
	changes := make(chan string, 16)
	w.OnReload(func(cfg *Config, changed string) error {
		calls.Add(1)
		changes <- cfg.Library.Name + "@" + filepath.Base(changed)
		return nil
	})
	w.Start()
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, os.WriteFile(path, []byte("[library]\nname = \"shapes\"\n"), 0o644))
	waitForChange(t, changes, "shapes@"+FileName)
	assert.Equal(t, "shapes", w.Config().Library.Name)

	require.NoError(t, os.WriteFile(irFile, []byte("{ }"), 0o644))
	waitForChange(t, changes, "shapes@lib.yaml")

	// an invalid config keeps the previous one in effect
	require.NoError(t, os.WriteFile(path, []byte("[library]\nversion = \"bad\"\n"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, "shapes", w.Config().Library.Name)

	// unrelated files in the same directory are ignored
	before := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, before, calls.Load())
}

func TestWatcher_NothingToWatch(t *testing.T) {
	_, err := NewWatcher(Default())
	assert.Error(t, err)
}
