package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPage       = "page"
	KeyTitle      = "title"
	KeyPath       = "path"
	KeyRelPath    = "rel_path"
	KeyOutputRoot = "output_root"
	KeyConfig     = "config"
	KeyModules    = "modules"
	KeyStage      = "stage"
	KeyDepth      = "depth"
	KeyReason     = "reason"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Page(name string) slog.Attr      { return slog.String(KeyPage, name) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func RelPath(p string) slog.Attr      { return slog.String(KeyRelPath, p) }
func OutputRoot(p string) slog.Attr   { return slog.String(KeyOutputRoot, p) }
func Config(p string) slog.Attr       { return slog.String(KeyConfig, p) }
func Modules(n int) slog.Attr         { return slog.Int(KeyModules, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Depth(d int) slog.Attr           { return slog.Int(KeyDepth, d) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
