package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyMode       = "mode"
	KeyUnit       = "unit"
	KeyRegistry   = "registry_key"
	KeyChapter    = "chapter"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyStage      = "stage"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyReason     = "reason"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Mode(m string) slog.Attr          { return slog.String(KeyMode, m) }
func Unit(name string) slog.Attr       { return slog.String(KeyUnit, name) }
func RegistryKey(k string) slog.Attr   { return slog.String(KeyRegistry, k) }
func Chapter(c string) slog.Attr       { return slog.String(KeyChapter, c) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Reason(r string) slog.Attr        { return slog.String(KeyReason, r) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
