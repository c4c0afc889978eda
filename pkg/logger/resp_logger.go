package logger

import "net/http"

// ResponseLogger wraps a http.ResponseWriter and remembers the status code
// and the number of body bytes written.
type ResponseLogger struct {
	http.ResponseWriter

	status int
	bytes  int
}

func New(w http.ResponseWriter) *ResponseLogger {
	return &ResponseLogger{ResponseWriter: w, status: http.StatusOK}
}

func (l *ResponseLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *ResponseLogger) Write(b []byte) (int, error) {
	n, err := l.ResponseWriter.Write(b)
	l.bytes += n
	return n, err
}

func (l *ResponseLogger) Status() int {
	return l.status
}

func (l *ResponseLogger) BytesWritten() int {
	return l.bytes
}

func (l *ResponseLogger) Unwrap() http.ResponseWriter {
	return l.ResponseWriter
}
