package persona

import "errors"

var (
	ErrUnknownProvider        = errors.New("unknown provider")
	ErrNetworkDisabled        = errors.New("network calls are disabled, enable them in the settings")
	ErrNoSelection            = errors.New("please select some text to process")
	ErrNoActiveDocument       = errors.New("no active document")
	ErrNoFrontmatter          = errors.New("no frontmatter found in personality note")
	ErrNoLastPersonality      = errors.New("no personality has been run yet")
	ErrNoPersonalityReference = errors.New("no personality reference found in frontmatter")
	ErrPersonalityNotFound    = errors.New("personality file not found")
)

// plainErrors are reported to the user as they are, everything else is
// reported as an AI error.
var plainErrors = []error{
	ErrUnknownProvider,
	ErrNetworkDisabled,
	ErrNoSelection,
	ErrNoActiveDocument,
	ErrNoFrontmatter,
	ErrNoLastPersonality,
	ErrNoPersonalityReference,
	ErrPersonalityNotFound,
}

func isPlain(err error) bool {
	for _, target := range plainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
