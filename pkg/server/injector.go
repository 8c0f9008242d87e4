package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"gateway-inject/pkg/lambda"
)

// HandlerInjector injects request descriptors into an http.Handler without
// going through a network listener. It is safe for concurrent use as long as
// the wrapped handler is.
type HandlerInjector struct {
	handler http.Handler
}

// NewHandlerInjector wraps handler
func NewHandlerInjector(handler http.Handler) *HandlerInjector {
	return &HandlerInjector{handler: handler}
}

// Inject serves req with the wrapped handler and records the response
func (i *HandlerInjector) Inject(ctx context.Context, req *lambda.RequestDescriptor) (response *lambda.RawResponse, err error) {
	if req == nil {
		return nil, errors.New("nil request descriptor")
	}

	httpReq, err := newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	rec := newRecorder()
	defer func() {
		if recovered := recover(); recovered != nil {
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}
			response, err = nil, fmt.Errorf("handler panicked serving %s %s: %v", req.Method, req.URL, recovered)
		}
	}()

	i.handler.ServeHTTP(rec, httpReq)
	return rec.result(), nil
}

func newHTTPRequest(ctx context.Context, req *lambda.RequestDescriptor) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body []byte
	if req.Payload != nil {
		body = req.Payload.Bytes()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s %s: %w", method, req.URL, err)
	}
	if len(body) == 0 {
		httpReq.Body = http.NoBody
	}
	httpReq.RequestURI = req.URL
	httpReq.RemoteAddr = "127.0.0.1:0"

	for name, value := range req.Headers {
		switch v := value.(type) {
		case lambda.SingleValue:
			httpReq.Header.Set(name, string(v))
		case lambda.MultipleValues:
			for _, item := range v {
				httpReq.Header.Add(name, item)
			}
		}
	}

	if host := httpReq.Header.Get("Host"); host != "" {
		httpReq.Host = host
	}

	return httpReq, nil
}

// recorder is an in-memory http.ResponseWriter. Headers are frozen at the
// first WriteHeader, the way a real connection would send them.
type recorder struct {
	header      http.Header
	sent        http.Header
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = status
	r.sent = r.header.Clone()
}

func (r *recorder) Write(data []byte) (int, error) {
	if !r.wroteHeader {
		if r.header.Get("Content-Type") == "" && len(data) > 0 {
			r.header.Set("Content-Type", http.DetectContentType(data))
		}
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(data)
}

func (r *recorder) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}

// Flush is a no-op; the whole body is returned at once
func (r *recorder) Flush() {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
}

func (r *recorder) result() *lambda.RawResponse {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}

	sent := r.sent
	if sent.Get("Content-Length") == "" && sent.Get("Transfer-Encoding") == "" && bodyAllowed(r.status) {
		sent.Set("Content-Length", strconv.Itoa(r.body.Len()))
	}

	return &lambda.RawResponse{
		StatusCode: r.status,
		Headers:    lowerCaseHeaders(sent),
		RawPayload: r.body.Bytes(),
	}
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}

// lowerCaseHeaders converts canonical header names to lower case and
// collapses single values to scalars
func lowerCaseHeaders(header http.Header) lambda.Headers {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := make(map[string][]string, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		merged[key] = append(merged[key], header[name]...)
	}

	headers := make(lambda.Headers, len(merged))
	for name, values := range merged {
		if len(values) == 0 {
			continue
		}
		headers[name] = lambda.NewHeaderValue(values)
	}
	return headers
}
