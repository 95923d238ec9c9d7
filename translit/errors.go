package translit

import "github.com/pkg/errors"

// Error kinds returned by the engine. Wrapped errors carry position details;
// test with errors.Is.
var (
	// ErrAmbiguousRules reports that two rules of equal cost could match
	// the same token sequence, with no cheaper rule covering the overlap.
	ErrAmbiguousRules = errors.New("ambiguous transliteration rules")

	// ErrUnrecognizableToken reports input that matches no declared token.
	ErrUnrecognizableToken = errors.New("unrecognizable input token")

	// ErrNoMatchingRule reports a token position no rule matches at.
	ErrNoMatchingRule = errors.New("no matching transliteration rule")
)
