package config

import "strings"

// Mode selects the source provider.
type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeRegistry   Mode = "registry"
	ModeFilesystem Mode = "filesystem"
)

// NormalizeMode maps user input (including the historical "hub" alias) to a Mode.
// It returns "" for unknown values.
func NormalizeMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto":
		return ModeAuto
	case "registry", "hub":
		return ModeRegistry
	case "filesystem", "fs":
		return ModeFilesystem
	default:
		return ""
	}
}
