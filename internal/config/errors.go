package config

import "errors"

var (
	// ErrInvalidSettings indicates a value outside its valid range.
	ErrInvalidSettings = errors.New("config: invalid settings")

	// ErrUnknownPreset indicates a preset name with no entry.
	ErrUnknownPreset = errors.New("config: unknown preset")

	ErrUnknownMaterial = errors.New("config: unknown material")
)
