package httpapi

import (
	"log"
	"net/http"
	"time"
)

// loggedWriter records the status and body size a handler produced.
type loggedWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *loggedWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggedWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

// RequestLogger emits one line per request with the caller's address, the
// method and path, and the resulting status, size and latency.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		lw := &loggedWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)
		status := lw.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("%s %s %s status=%d size=%d dur=%s",
			r.RemoteAddr, r.Method, r.URL.Path, status, lw.size,
			time.Since(started).Round(time.Millisecond))
	})
}
