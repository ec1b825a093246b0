package api

import "strings"

// publicURL maps a stored object path to the URL clients fetch it from. Paths
// already carrying a scheme pass through untouched; object-store keys and
// local relative paths are joined onto the configured public base.
func (h *HTTPHandler) publicURL(storedPath string) string {
	trimmed := strings.TrimSpace(storedPath)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return h.storagePublicBase + "/" + strings.TrimLeft(trimmed, "/")
}
