// Package filter implements the URL predicate applied to discovered
// links in scan mode.
package filter

import (
	"fmt"
	"net/url"
	"regexp"
)

// Filter matches a URL's string form against a set of patterns with OR
// semantics. An empty filter matches everything.
type Filter struct {
	patterns []*regexp.Regexp
}

// New compiles the given expressions. An invalid expression is a
// configuration error and aborts startup.
func New(exprs []string) (*Filter, error) {
	f := &Filter{}
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", expr, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// Matches reports whether u passes the filter: true if any pattern
// matches, or if no patterns are configured.
func (f *Filter) Matches(u *url.URL) bool {
	if len(f.patterns) == 0 {
		return true
	}
	s := u.String()
	for _, re := range f.patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
