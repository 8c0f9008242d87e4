package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gateway-inject/pkg/lambda"
)

func TestHandlerInjector_BuildsRequest(t *testing.T) {
	var (
		gotMethod string
		gotURI    string
		gotQuery  []string
		gotHost   string
		gotAccept []string
		gotKey    string
		gotBody   string
	)
	injector := NewHandlerInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotMethod = r.Method
		gotURI = r.RequestURI
		gotQuery = r.URL.Query()["tag"]
		gotHost = r.Host
		gotAccept = r.Header.Values("Accept")
		gotKey = r.Header.Get("X-Api-Key")
		gotBody = string(body)
	}))

	_, err := injector.Inject(context.Background(), &lambda.RequestDescriptor{
		URL:     "/users?tag=b&tag=a",
		Method:  http.MethodPost,
		Payload: lambda.TextPayload(`{"name":"Ada"}`),
		Headers: lambda.Headers{
			"host":      lambda.SingleValue("api.example.com"),
			"accept":    lambda.MultipleValues{"application/json", "text/plain"},
			"x-api-key": lambda.SingleValue("abc"),
		},
	})
	if err != nil {
		t.Fatalf("Inject() failed: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotURI != "/users?tag=b&tag=a" {
		t.Errorf("RequestURI = %q", gotURI)
	}
	if diff := cmp.Diff([]string{"b", "a"}, gotQuery); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
	if gotHost != "api.example.com" {
		t.Errorf("Host = %q, want api.example.com", gotHost)
	}
	if diff := cmp.Diff([]string{"application/json", "text/plain"}, gotAccept); diff != "" {
		t.Errorf("Accept mismatch (-want +got):\n%s", diff)
	}
	if gotKey != "abc" {
		t.Errorf("X-Api-Key = %q, want abc", gotKey)
	}
	if gotBody != `{"name":"Ada"}` {
		t.Errorf("body = %q", gotBody)
	}
}

func TestHandlerInjector_NoPayload(t *testing.T) {
	injector := NewHandlerInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != http.NoBody || r.ContentLength != 0 {
			t.Errorf("expected empty body, got ContentLength %d", r.ContentLength)
		}
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
	}))

	if _, err := injector.Inject(context.Background(), &lambda.RequestDescriptor{URL: "/"}); err != nil {
		t.Fatalf("Inject() failed: %v", err)
	}
}

func TestHandlerInjector_RecordsResponse(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    *lambda.RawResponse
	}{
		{
			name:    "empty handler",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			want: &lambda.RawResponse{
				StatusCode: http.StatusOK,
				Headers:    lambda.Headers{"content-length": lambda.SingleValue("0")},
				RawPayload: []byte{},
			},
		},
		{
			name: "sniffed content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "<html></html>")
			},
			want: &lambda.RawResponse{
				StatusCode: http.StatusOK,
				Headers: lambda.Headers{
					"content-type":   lambda.SingleValue("text/html; charset=utf-8"),
					"content-length": lambda.SingleValue("13"),
				},
				RawPayload: []byte("<html></html>"),
			},
		},
		{
			name: "repeated headers",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Add("Set-Cookie", "a=1")
				w.Header().Add("Set-Cookie", "b=2")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{}`))
			},
			want: &lambda.RawResponse{
				StatusCode: http.StatusCreated,
				Headers: lambda.Headers{
					"set-cookie":     lambda.MultipleValues{"a=1", "b=2"},
					"content-type":   lambda.SingleValue("application/json"),
					"content-length": lambda.SingleValue("2"),
				},
				RawPayload: []byte(`{}`),
			},
		},
		{
			name: "headers after write are ignored",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(http.StatusAccepted)
				w.Header().Set("X-Late", "yes")
			},
			want: &lambda.RawResponse{
				StatusCode: http.StatusAccepted,
				Headers: lambda.Headers{
					"content-type":   lambda.SingleValue("text/plain"),
					"content-length": lambda.SingleValue("0"),
				},
				RawPayload: []byte{},
			},
		},
		{
			name: "no content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			want: &lambda.RawResponse{
				StatusCode: http.StatusNoContent,
				Headers:    lambda.Headers{},
				RawPayload: []byte{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewHandlerInjector(tt.handler).Inject(context.Background(), &lambda.RequestDescriptor{URL: "/", Method: http.MethodGet})
			if err != nil {
				t.Fatalf("Inject() failed: %v", err)
			}
			if got.StatusCode != tt.want.StatusCode {
				t.Errorf("status = %d, want %d", got.StatusCode, tt.want.StatusCode)
			}
			if diff := cmp.Diff(tt.want.Headers, got.Headers); diff != "" {
				t.Errorf("headers mismatch (-want +got):\n%s", diff)
			}
			if string(got.RawPayload) != string(tt.want.RawPayload) {
				t.Errorf("payload = %q, want %q", got.RawPayload, tt.want.RawPayload)
			}
		})
	}
}

func TestHandlerInjector_Panic(t *testing.T) {
	injector := NewHandlerInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	response, err := injector.Inject(context.Background(), &lambda.RequestDescriptor{URL: "/crash", Method: http.MethodGet})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Inject() error = %v, want panic error", err)
	}
	if response != nil {
		t.Errorf("response = %+v, want nil", response)
	}
}

func TestHandlerInjector_InvalidRequest(t *testing.T) {
	injector := NewHandlerInjector(http.NotFoundHandler())

	if _, err := injector.Inject(context.Background(), nil); err == nil {
		t.Error("Inject(nil) should fail")
	}
	if _, err := injector.Inject(context.Background(), &lambda.RequestDescriptor{URL: "/", Method: "BAD METHOD"}); err == nil {
		t.Error("Inject() with an invalid method should fail")
	}
}

func TestHandlerInjector_Concurrent(t *testing.T) {
	injector := NewHandlerInjector(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, r.URL.Query().Get("n"))
	}))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			want := strings.Repeat("x", n)
			response, err := injector.Inject(context.Background(), &lambda.RequestDescriptor{
				URL:    "/?n=" + want,
				Method: http.MethodGet,
			})
			if err != nil {
				t.Errorf("Inject() failed: %v", err)
				return
			}
			if string(response.RawPayload) != want {
				t.Errorf("payload = %q, want %q", response.RawPayload, want)
			}
		}(i)
	}
	wg.Wait()
}
