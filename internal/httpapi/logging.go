package httpapi

import (
	"log"
	"net/http"
	"strings"
)

// logResult mirrors server/api.logHttpResponse's fixed-width level + remote
// IP (port stripped) log line shape.
func logResult(level string, req *http.Request, status int, msg string) {
	for len(level) < 5 {
		level += " "
	}

	remoteIP := req.RemoteAddr
	if idx := strings.LastIndex(remoteIP, ":"); idx >= 0 {
		remoteIP = remoteIP[:idx]
	}

	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, status, msg)
}
