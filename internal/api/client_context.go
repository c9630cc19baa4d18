package api

import (
	"net/http"
	"strings"

	"pitch-workers/internal/models"
)

const fallbackIP = "127.0.0.1"

// clientContext captures what the conversion relay needs from the request.
func clientContext(r *http.Request) *models.ClientContext {
	cc := &models.ClientContext{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		SourceURL: r.Referer(),
	}
	if c, err := r.Cookie("_fbp"); err == nil {
		cc.Fbp = c.Value
	}
	if c, err := r.Cookie("_fbc"); err == nil {
		cc.Fbc = c.Value
	}
	return cc
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	return fallbackIP
}
