package mw

import (
	"net"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/utils"
)

// EnforceHost only serves requests whose Host header names one of
// allowedHosts, which stops DNS-rebinding pages from reaching the local API.
// Entries may omit the port or use a leading "*." wildcard.
// An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		log.Debug("EnforceHost: empty allowedHosts, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, pattern := range allowedHosts {
				if matchHost(r.Host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Warn("host rejected", logger.String("host", r.Host))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

func matchHost(host, pattern string) bool {
	host = strings.ToLower(host)
	pattern = strings.ToLower(pattern)
	if host == pattern {
		return true
	}
	if _, _, err := net.SplitHostPort(pattern); err == nil {
		return false
	}

	// A pattern without a port matches the host on any port.
	name := utils.ParseHostNoPort(host)
	pattern = strings.Trim(pattern, "[]")
	if name == pattern {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(name, suffix)
	}
	return false
}
