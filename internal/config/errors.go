package config

import "errors"

var (
	errConfigFileNotFound   = errors.New("config file not found")
	errConfigFileRead       = errors.New("cannot read config file")
	errConfigInvalid        = errors.New("invalid config file")
	errNegativeEditDistance = errors.New("default_edit_distance cannot be negative")
)
