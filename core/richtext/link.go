package richtext

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmptyURL   = errors.New("please enter a URL")
	ErrInvalidURL = errors.New("please enter a valid URL (e.g. https://example.com)")

	schemeRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)

	// executable schemes a browser would accept but the dashboard re-renders unsafely
	blockedSchemes = map[string]bool{
		"javascript": true,
		"vbscript":   true,
		"data":       true,
	}
)

// ValidateURL checks that raw is a well-formed absolute URL and returns it trimmed.
func ValidateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	if !schemeRegex.MatchString(u.Scheme) || blockedSchemes[strings.ToLower(u.Scheme)] {
		return "", ErrInvalidURL
	}
	if u.Host == "" && u.Opaque == "" {
		return "", ErrInvalidURL
	}
	return raw, nil
}

// LinkText resolves an anchor's label: the selected text wins over the label typed in the link
// form, and the URL is the fallback.
func LinkText(selected, label, href string) string {
	if selected != "" {
		return selected
	}
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return href
}
