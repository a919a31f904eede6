package messages

import "errors"

var (
	// ErrFailedToParseYAML is returned when catalog content is not valid YAML.
	ErrFailedToParseYAML = errors.New("failed to parse yaml message catalog")

	// ErrInvalidCatalog is returned when a catalog value is neither a string nor a nested map.
	ErrInvalidCatalog = errors.New("invalid message catalog structure")

	// ErrFailedToReadFile is returned when a catalog file cannot be read.
	ErrFailedToReadFile = errors.New("failed to read message catalog file")
)
