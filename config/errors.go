package config

import "errors"

var (
	// ErrGistIDMissing indicates that GIST_ID is not set.
	ErrGistIDMissing = errors.New("GIST_ID not set")
	// ErrInvalidPrivateKey indicates a malformed PRIVATE_KEY.
	ErrInvalidPrivateKey = errors.New("invalid private key format")
	// ErrInvalidOracleConfig indicates a config.yaml that failed validation.
	ErrInvalidOracleConfig = errors.New("invalid oracle config")
)
