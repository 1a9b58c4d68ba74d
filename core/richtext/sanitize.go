package richtext

import (
	"html/template"
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AllowElements("u")
		policy.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
		policy.AllowStyles("color", "text-decoration").OnElements("a")
		policy.RequireNoFollowOnLinks(false)
		policy.RequireNoReferrerOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return policy
}

// Sanitize cleans HTML before it is displayed to untrusted viewers. The editor only strips
// formatting from pasted content; anything stored may still carry hostile markup.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return getPolicy().Sanitize(s)
}

// SanitizeToHTML sanitizes s for direct use in html/template.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}
