package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	return regexp.MustCompile(`\x1b\[[0-9;]*m`).ReplaceAllString(str, "")
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{"JSON output mode", true},
		{"Console output mode", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestInitializeWithVerbosity(t *testing.T) {
	require.NoError(t, InitializeWithVerbosity(VerbosityDebug, false))
	defer func() { Logger = zap.NewNop().Sugar() }()

	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, InitializeWithVerbosity(VerbosityUser, false))
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{3, zapcore.DebugLevel},
		{10, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		})
	}
}

func TestShouldLogTrace(t *testing.T) {
	assert.False(t, ShouldLogTrace(VerbosityDebug))
	assert.True(t, ShouldLogTrace(VerbosityTrace))
	assert.True(t, ShouldLogTrace(5))
}

func TestTraceFollowsVerbosity(t *testing.T) {
	defer func() {
		Logger = zap.NewNop().Sugar()
		traceEnabled = false
	}()

	require.NoError(t, InitializeWithVerbosity(VerbosityDebug, false))
	assert.False(t, traceEnabled)

	require.NoError(t, InitializeWithVerbosity(VerbosityTrace, false))
	assert.True(t, traceEnabled)

	require.NoError(t, Initialize(false))
	assert.False(t, traceEnabled, "level-based initialization turns tracing off")
}

func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "generator.c",
		Message:    "Generated files",
	}

	fields := []zapcore.Field{
		zap.String(FieldFile, "include/mylib.h"),
		zap.Int(FieldCount, 3),
		zap.String(FieldLanguage, "c"),
		zap.Bool("opaque", true),
		zap.Float64("ratio", 0.5),
		zap.Strings("targets", []string{"c", "rust"}),
	}

	buf, err := encoder.EncodeEntry(entry, fields)
	require.NoError(t, err)
	out := stripANSI(buf.String())

	assert.Contains(t, out, "g.c")
	assert.Contains(t, out, "Generated files")
	assert.Contains(t, out, "include/mylib.h")
	assert.Contains(t, out, "3 items")
	assert.Contains(t, out, "language=c")
	assert.Contains(t, out, "opaque=true")
	assert.Contains(t, out, "ratio=0.5")
	assert.Contains(t, out, "targets=")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestMinimalEncoderLevels(t *testing.T) {
	encoder := newMinimalEncoder()
	for level, want := range map[zapcore.Level]string{
		zapcore.WarnLevel:  "WARN",
		zapcore.ErrorLevel: "ERROR",
		zapcore.DebugLevel: "DEBUG",
	} {
		buf, err := encoder.EncodeEntry(zapcore.Entry{Level: level, Time: time.Now(), Message: "m"}, nil)
		require.NoError(t, err)
		assert.Contains(t, stripANSI(buf.String()), want)
	}

	buf, err := encoder.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "m"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, stripANSI(buf.String()), "INFO")
}

func TestMinimalEncoderKeepsContextFields(t *testing.T) {
	encoder := newMinimalEncoder()
	encoder.AddString(FieldLanguage, "rust")
	clone := encoder.Clone()

	buf, err := clone.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "m"}, nil)
	require.NoError(t, err)
	assert.Contains(t, stripANSI(buf.String()), "language=rust")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "p.rust", abbreviateName("parsing.rust"))
	assert.Equal(t, "cli", abbreviateName("cli"))
	assert.Equal(t, "g.c.header", abbreviateName("generator.c.header"))
}
