package checker

import "errors"

var (
	ErrDuplicateRule      = errors.New("rule already registered")
	ErrUnknownRule        = errors.New("unknown rule")
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrNilTarget          = errors.New("validation target is nil")
	ErrFailedToParseRules = errors.New("failed to parse ruleset")
	ErrFailedToReadRules  = errors.New("failed to read ruleset file")
	ErrInvalidRuleset     = errors.New("invalid ruleset")
)
