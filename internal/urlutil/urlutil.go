// Package urlutil handles URL intake: positional arguments, list files,
// and file-name derivation for download destinations.
package urlutil

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Collect parses the positional URL arguments and then each list file.
// List files are newline-delimited; blank lines and lines starting with
// '#' are skipped. An unreadable file or a malformed URL line is fatal
// for the whole run.
func Collect(args []string, listFiles []string) ([]*url.URL, error) {
	urls := make([]*url.URL, 0, len(args))
	for _, arg := range args {
		u, err := Parse(arg)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	for _, path := range listFiles {
		fromList, err := readList(path)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromList...)
	}
	return urls, nil
}

// Parse parses one absolute URL.
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("url %q is not absolute", raw)
	}
	return u, nil
}

func readList(path string) ([]*url.URL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	var urls []*url.URL
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		urls = append(urls, u)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list %s: %w", path, err)
	}
	return urls, nil
}

// FileName returns the final path segment of u, the deterministic base
// name for a download destination. ok is false when the path has no
// derivable segment (empty path or trailing slash).
func FileName(u *url.URL) (name string, ok bool) {
	path := u.EscapedPath()
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		path = path[idx+1:]
	}
	if path == "" {
		return "", false
	}
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return path, true
	}
	return unescaped, true
}
