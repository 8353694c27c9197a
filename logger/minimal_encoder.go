package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Gruvbox Dark color palette (warm, muted, easy on eyes)
var (
	colorFg       = "\x1b[38;5;223m" // Soft cream (#ebdbb2)
	colorTime     = "\x1b[38;5;108m" // Muted cyan-green (#8ec07c)
	colorName     = "\x1b[38;5;208m" // Warm orange (#fe8019)
	colorPath     = "\x1b[38;5;109m" // Soft blue (#83a598)
	colorNumber   = "\x1b[38;5;175m" // Muted purple (#d3869b)
	colorWarn     = "\x1b[38;5;214m" // Soft yellow (#fabd2f)
	colorWarnBg   = "\x1b[48;5;58m"  // Dark yellow background
	colorError    = "\x1b[38;5;167m" // Warm red (#fb4934)
	colorErrorBg  = "\x1b[48;5;88m"  // Dark red background
	colorDebug    = "\x1b[38;5;245m" // Grey
	pathLikeField = map[string]bool{FieldFile: true, FieldPath: true, FieldModule: true, FieldObject: true}
)

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  p.rust  Parsed module  src/lib.rs  3 objects  language=rust"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for With() fields
	context         []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		context: append([]zapcore.Field(nil), enc.context...),
	}
}

// AddString keeps With() string fields so they render on every entry
func (enc *minimalEncoder) AddString(key, value string) {
	enc.context = append(enc.context, zap.String(key, value))
	enc.Encoder.AddString(key, value)
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	final.AppendString(colorTime)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorName)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorFg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	all := append(append([]zapcore.Field(nil), enc.context...), fields...)
	if rendered := extractFieldValues(all); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for non-info levels
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return colorDebug + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorWarn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + colorErrorBg + colorError + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + colorErrorBg + colorError + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: generator.csharp -> g.csharp
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}

	// Fall back to the JSON encoder for anything else (floats, durations, arrays)
	enc := zapcore.NewMapObjectEncoder()
	field.AddTo(enc)
	if v, ok := enc.Fields[field.Key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// extractFieldValues renders fields without dropping any of them.
// Paths and counts get a compact form; everything else is key=value in key order.
func extractFieldValues(fields []zapcore.Field) string {
	var lead, rest []string

	for _, field := range fields {
		val := getFieldValue(field)
		switch {
		case pathLikeField[field.Key] && val != "":
			lead = append(lead, colorPath+val+colorReset)
		case field.Key == FieldCount && val != "":
			lead = append(lead, colorNumber+val+colorReset+" items")
		case field.Key == FieldDuration && val != "":
			lead = append(lead, colorNumber+val+colorReset+"ms")
		default:
			rest = append(rest, field.Key+"="+val)
		}
	}

	sort.Strings(rest)
	return strings.Join(append(lead, rest...), "  ")
}
