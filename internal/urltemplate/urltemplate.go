// Package urltemplate resolves operation URL templates into callable URLs.
package urltemplate

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/apicat/internal/domain"
)

const defaultScheme = "https://"

var (
	paramRe    = regexp.MustCompile(`\{([^}]+)\}`)
	slashRunRe = regexp.MustCompile(`/{2,}`)
	protocolRe = regexp.MustCompile(`(?i)^https?://`)
)

// ComposeBaseURL joins host, version and template with "/", adds https://
// to a scheme-less host and collapses repeated slashes except right after
// a colon. An empty host yields a path starting with "/".
func ComposeBaseURL(host, versionName, template string) string {
	if host != "" && !protocolRe.MatchString(host) {
		host = defaultScheme + host
	}
	joined := strings.Join([]string{host, versionName, template}, "/")
	return collapseSlashes(joined)
}

func collapseSlashes(s string) string {
	runs := slashRunRe.FindAllStringIndex(s, -1)
	if len(runs) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := 0
	for _, r := range runs {
		start, end := r[0], r[1]
		if start > 0 && s[start-1] == ':' {
			continue
		}
		b.WriteString(s[prev:start])
		b.WriteByte('/')
		prev = end
	}
	b.WriteString(s[prev:])
	return b.String()
}

// ExtractParamNames lists every {name} in left-to-right order, duplicates kept.
func ExtractParamNames(template string) []string {
	matches := paramRe.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Substitute replaces each {name} with values[name]. Placeholders without a
// value, or with an empty one, are left untouched.
func Substitute(template string, values map[string]string) string {
	return paramRe.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if v := values[name]; v != "" {
			return v
		}
		return match
	})
}

// HasUnresolved reports whether s still contains a placeholder.
func HasUnresolved(s string) bool {
	return strings.Contains(s, "{")
}

// Resolved is a ready-to-call operation URL.
type Resolved struct {
	URL     string   `json:"url"`
	Missing []string `json:"missing,omitempty"`
}

// Complete reports whether every placeholder was filled.
func (r Resolved) Complete() bool { return len(r.Missing) == 0 }

// Resolve composes the URL of template on deployment (may be nil) under
// versionName and substitutes values. Missing lists unfilled parameter
// names once each, in order of first appearance.
func Resolve(template string, deployment *domain.ApiDeployment, versionName string, values map[string]string) Resolved {
	u := Substitute(ComposeBaseURL(deployment.Host(), versionName, template), values)
	var missing []string
	if HasUnresolved(u) {
		seen := make(map[string]bool)
		for _, name := range ExtractParamNames(u) {
			if !seen[name] {
				seen[name] = true
				missing = append(missing, name)
			}
		}
	}
	return Resolved{URL: u, Missing: missing}
}
