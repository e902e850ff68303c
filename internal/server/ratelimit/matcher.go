package ratelimit

import "strings"

// MatchEndpoint returns the first rule matching path and method, or nil.
// The health check is always unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && matchPattern(configs[i].Path, path) {
			return &configs[i]
		}
	}
	return nil
}

// matchPattern compares path segments; "*" in the pattern matches any one
// non-empty segment.
func matchPattern(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(segs) {
		return false
	}
	for i := range ps {
		if ps[i] == "*" {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != segs[i] {
			return false
		}
	}
	return true
}
