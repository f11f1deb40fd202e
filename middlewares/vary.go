package middlewares

import (
	"bufio"
	"net"
	"net/http"
	"strings"
	"sync"
)

// AddVary adds field to the Vary header of h.
// Existing entries are kept, comparison is case-insensitive, and a
// "Vary: *" header is left alone since it already covers every field.
func AddVary(h http.Header, field string) {
	var fields []string
	for _, v := range h.Values("Vary") {
		for f := range strings.SplitSeq(v, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if f == "*" || strings.EqualFold(f, field) {
				return
			}
			fields = append(fields, f)
		}
	}
	h.Set("Vary", strings.Join(append(fields, field), ", "))
}

// headerHookWriter runs a hook once, right before the response headers are
// sent, so the hook sees everything the handler set.
type headerHookWriter struct {
	http.ResponseWriter
	hook func(http.Header)
	once sync.Once
}

func newHeaderHookWriter(w http.ResponseWriter, hook func(http.Header)) *headerHookWriter {
	return &headerHookWriter{ResponseWriter: w, hook: hook}
}

func (w *headerHookWriter) before() {
	w.once.Do(func() { w.hook(w.ResponseWriter.Header()) })
}

func (w *headerHookWriter) WriteHeader(code int) {
	w.before()
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerHookWriter) Write(b []byte) (int, error) {
	w.before()
	return w.ResponseWriter.Write(b)
}

// finish applies the hook to responses whose handler never wrote anything.
func (w *headerHookWriter) finish() {
	w.before()
}

func (w *headerHookWriter) Flush() {
	w.before()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *headerHookWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *headerHookWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
