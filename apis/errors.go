package apis

import "errors"

var (
	// ErrUnexpectedStatus indicates a non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrNoGistFiles indicates a gist without files.
	ErrNoGistFiles = errors.New("no files in gist")
	// ErrConfigFileNotFound indicates a gist without config.yaml.
	ErrConfigFileNotFound = errors.New("no config.yaml loaded for oracle config")
	// ErrMalformedFeed indicates a price feed entry that could not be decoded.
	ErrMalformedFeed = errors.New("malformed price feed")
)
