package lambda

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// Event is the API Gateway proxy integration request delivered to the function
type Event = events.APIGatewayProxyRequest

// Result is the API Gateway proxy integration response returned by the function
type Result = events.APIGatewayProxyResponse

// HeaderValue holds a header's value in one of two shapes: a single string
// or an ordered list of strings. Consumers branch on the concrete type.
type HeaderValue interface {
	// Values returns the header's values in order
	Values() []string
	isHeaderValue()
}

// SingleValue is a header that carried exactly one value
type SingleValue string

// Values returns the value as a one-element list
func (v SingleValue) Values() []string { return []string{string(v)} }

func (SingleValue) isHeaderValue() {}

// MultipleValues is a header that carried more than one value
type MultipleValues []string

// Values returns a copy of the values
func (v MultipleValues) Values() []string {
	out := make([]string, len(v))
	copy(out, v)
	return out
}

func (MultipleValues) isHeaderValue() {}

// NewHeaderValue collapses values by cardinality: one value becomes a
// SingleValue, anything else a MultipleValues.
func NewHeaderValue(values []string) HeaderValue {
	if len(values) == 1 {
		return SingleValue(values[0])
	}
	return MultipleValues(append([]string(nil), values...))
}

// Headers maps lower-case header names to their values
type Headers map[string]HeaderValue

// Get returns the header's values joined by ", ", and whether it was present
func (h Headers) Get(name string) (string, bool) {
	v, ok := h[name]
	if !ok || v == nil {
		return "", false
	}
	switch v := v.(type) {
	case SingleValue:
		return string(v), true
	case MultipleValues:
		return strings.Join(v, ", "), true
	}
	return "", false
}

// MarshalJSON writes single values as strings and multiple values as arrays
func (h Headers) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(h))
	for name, v := range h {
		switch v := v.(type) {
		case SingleValue:
			out[name] = string(v)
		case MultipleValues:
			out[name] = []string(v)
		}
	}
	return json.Marshal(out)
}

// Payload is a request body: either raw bytes or text, never both
type Payload interface {
	// Bytes returns the payload content
	Bytes() []byte
	isPayload()
}

// BinaryPayload is a body decoded from base64
type BinaryPayload []byte

// Bytes returns the raw bytes
func (p BinaryPayload) Bytes() []byte { return []byte(p) }

func (BinaryPayload) isPayload() {}

// TextPayload is a body passed through as received
type TextPayload string

// Bytes returns the text as bytes
func (p TextPayload) Bytes() []byte { return []byte(p) }

func (TextPayload) isPayload() {}

// RequestDescriptor is the request shape injected into the embedded server
type RequestDescriptor struct {
	URL     string
	Method  string
	Payload Payload // nil when the event carried no body
	Headers Headers
}

// RawResponse is the embedded server's response, byte for byte
type RawResponse struct {
	StatusCode int
	Headers    Headers
	RawPayload []byte
}

// Injector routes a request descriptor through an in-process server
type Injector interface {
	Inject(ctx context.Context, req *RequestDescriptor) (*RawResponse, error)
}

// InjectorFunc adapts a function to the Injector interface
type InjectorFunc func(ctx context.Context, req *RequestDescriptor) (*RawResponse, error)

// Inject calls f(ctx, req)
func (f InjectorFunc) Inject(ctx context.Context, req *RequestDescriptor) (*RawResponse, error) {
	return f(ctx, req)
}
