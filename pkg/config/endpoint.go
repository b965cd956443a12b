package config

import (
	"os"
	"strings"
)

const (
	// BackendURLEnv render service origin used outside local development
	BackendURLEnv = "EDITOR_BACKEND_URL"
	// ProxyTargetEnv origin the local /api/* rewrite forwards to
	ProxyTargetEnv = "EDITOR_API_URL"

	// DefaultBackendURL deployed render service
	DefaultBackendURL = "https://video-editor-app-backend.onrender.com"
	// DefaultProxyTarget render service in local development
	DefaultProxyTarget = "http://localhost:5001"
)

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// ResolveAPIBase resolve the render service base url once per session.
// A set EDITOR_BACKEND_URL always wins, even when empty. Otherwise local
// development gets "" (relative /api paths through the dev proxy) and every
// other environment the deployed backend.
func ResolveAPIBase(lookup LookupFunc, local bool) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(BackendURLEnv); ok {
		return v
	}
	if local {
		return ""
	}
	return DefaultBackendURL
}

// ResolveProxyTarget origin for the /api/* rewrite, trailing slash trimmed
func ResolveProxyTarget(lookup LookupFunc, fallback string) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	target := fallback
	if v, ok := lookup(ProxyTargetEnv); ok && v != "" {
		target = v
	}
	if target == "" {
		target = DefaultProxyTarget
	}
	return strings.TrimRight(target, "/")
}

// APIURL join base and endpoint; empty base keeps the path relative
func APIURL(base, endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if base == "" {
		return endpoint
	}
	return strings.TrimSuffix(base, "/") + endpoint
}
