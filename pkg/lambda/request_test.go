package lambda

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRequestDescriptor_URL(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		query map[string][]string
		want  string
	}{
		{
			name: "no query parameters",
			path: "/users",
			want: "/users",
		},
		{
			name:  "empty query parameters",
			path:  "/users",
			query: map[string][]string{},
			want:  "/users",
		},
		{
			name:  "key without values",
			path:  "/users",
			query: map[string][]string{"name": {}},
			want:  "/users",
		},
		{
			name:  "single value",
			path:  "/users",
			query: map[string][]string{"name": {"Marcus"}},
			want:  "/users?name=Marcus",
		},
		{
			name:  "multiple values keep their order",
			path:  "/users",
			query: map[string][]string{"tag": {"b", "a"}, "name": {"Marcus"}},
			want:  "/users?name=Marcus&tag=b&tag=a",
		},
		{
			name:  "reserved characters are percent-encoded",
			path:  "/search",
			query: map[string][]string{"q": {"a b&c=d+e"}, "ü": {"/"}},
			want:  "/search?q=a%20b%26c%3Dd%2Be&%C3%BC=%2F",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequestDescriptor(Event{
				Path:                            tt.path,
				HTTPMethod:                      "GET",
				MultiValueQueryStringParameters: tt.query,
			})

			if req.URL != tt.want {
				t.Errorf("URL = %q, want %q", req.URL, tt.want)
			}
		})
	}
}

func TestNewRequestDescriptor_Method(t *testing.T) {
	for _, method := range []string{"GET", "POST", "patch"} {
		req := NewRequestDescriptor(Event{Path: "/", HTTPMethod: method})
		if req.Method != method {
			t.Errorf("Method = %q, want %q", req.Method, method)
		}
	}
}

func TestNewRequestDescriptor_Headers(t *testing.T) {
	req := NewRequestDescriptor(Event{
		Path:       "/headers",
		HTTPMethod: "GET",
		MultiValueHeaders: map[string][]string{
			"X-API-Key":  {"Marcus"},
			"X-API-Keys": {"Marcus", "Marcus-Key2"},
			"Accept":     {"application/json"},
		},
	})

	want := Headers{
		"x-api-key":  SingleValue("Marcus"),
		"x-api-keys": MultipleValues{"Marcus", "Marcus-Key2"},
		"accept":     SingleValue("application/json"),
	}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Errorf("Headers mismatch (-want +got):\n%s", diff)
	}

	switch v := req.Headers["x-api-key"].(type) {
	case SingleValue:
		if v != "Marcus" {
			t.Errorf("x-api-key = %q, want %q", v, "Marcus")
		}
	default:
		t.Errorf("x-api-key has type %T, want SingleValue", v)
	}
}

func TestNewRequestDescriptor_HeadersMergeCaseVariants(t *testing.T) {
	req := NewRequestDescriptor(Event{
		Path:       "/",
		HTTPMethod: "GET",
		MultiValueHeaders: map[string][]string{
			"x-forwarded-for": {"10.0.0.2"},
			"X-Forwarded-For": {"10.0.0.1"},
			"X-Empty":         {},
		},
	})

	want := Headers{
		"x-forwarded-for": MultipleValues{"10.0.0.1", "10.0.0.2"},
	}
	if diff := cmp.Diff(want, req.Headers); diff != "" {
		t.Errorf("Headers mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRequestDescriptor_MissingHeaders(t *testing.T) {
	req := NewRequestDescriptor(Event{Path: "/", HTTPMethod: "GET"})

	if req.Headers == nil {
		t.Fatal("Headers is nil, want empty map")
	}
	if len(req.Headers) != 0 {
		t.Errorf("len(Headers) = %d, want 0", len(req.Headers))
	}
}

func TestNewRequestDescriptor_Payload(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		base64 bool
		want   Payload
	}{
		{
			name: "absent body",
			want: nil,
		},
		{
			name: "text body",
			body: `{"name": "Marcus"}`,
			want: TextPayload(`{"name": "Marcus"}`),
		},
		{
			name:   "base64 body",
			body:   "eyJuYW1lIjogIlN1cGVyY2hhcmdlIn0=",
			base64: true,
			want:   BinaryPayload(`{"name": "Supercharge"}`),
		},
		{
			name:   "base64 body without padding",
			body:   "eyJuYW1lIjogIlN1cGVyY2hhcmdlIn0",
			base64: true,
			want:   BinaryPayload(`{"name": "Supercharge"}`),
		},
		{
			name:   "binary bytes",
			body:   "AP8QgA==",
			base64: true,
			want:   BinaryPayload{0x00, 0xff, 0x10, 0x80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequestDescriptor(Event{
				Path:            "/payload",
				HTTPMethod:      "POST",
				Body:            tt.body,
				IsBase64Encoded: tt.base64,
			})

			if diff := cmp.Diff(tt.want, req.Payload); diff != "" {
				t.Errorf("Payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHeaders_MarshalJSON(t *testing.T) {
	headers := Headers{
		"x-api-key":  SingleValue("Marcus"),
		"x-api-keys": MultipleValues{"Marcus", "Marcus-Key2"},
	}

	data, err := headers.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() failed: %v", err)
	}

	want := `{"x-api-key":"Marcus","x-api-keys":["Marcus","Marcus-Key2"]}`
	if string(data) != want {
		t.Errorf("MarshalJSON() = %s, want %s", data, want)
	}
}
