package lambda

import (
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// NewRequestDescriptor builds the injectable request for an API Gateway event.
// It never fails: missing query parameters, headers or body yield empty values.
func NewRequestDescriptor(event Event) *RequestDescriptor {
	return &RequestDescriptor{
		URL:     requestURL(event.Path, event.MultiValueQueryStringParameters),
		Method:  event.HTTPMethod,
		Payload: requestPayload(event.Body, event.IsBase64Encoded),
		Headers: requestHeaders(event.MultiValueHeaders),
	}
}

// requestURL appends the query string to path only when there is one
func requestURL(path string, params map[string][]string) string {
	if query := EncodeQuery(params); query != "" {
		return path + "?" + query
	}
	return path
}

// EncodeQuery serializes multi-value query parameters as key=value pairs
// joined by "&". Keys are sorted, each key's values keep their order and are
// repeated per value. Keys and values are percent-encoded per RFC 3986.
func EncodeQuery(params map[string][]string) string {
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := escapeQueryComponent(key)
		for _, value := range params[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(escapeQueryComponent(value))
		}
	}
	return b.String()
}

// escapeQueryComponent is url.QueryEscape with spaces as %20 instead of "+".
// A literal "+" is already escaped as %2B, so the replacement is unambiguous.
func escapeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func requestPayload(body string, isBase64Encoded bool) Payload {
	if body == "" {
		return nil
	}
	if !isBase64Encoded {
		return TextPayload(body)
	}

	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		// lenient: tolerate bad padding and keep whatever decodes
		decoded, _ = base64.RawStdEncoding.DecodeString(strings.TrimRight(body, "="))
	}
	return BinaryPayload(decoded)
}

// requestHeaders lower-cases names and collapses each header by cardinality.
// Names that only differ in case are merged in sorted order.
func requestHeaders(multiValueHeaders map[string][]string) Headers {
	headers := make(Headers, len(multiValueHeaders))
	if len(multiValueHeaders) == 0 {
		return headers
	}

	names := make([]string, 0, len(multiValueHeaders))
	for name := range multiValueHeaders {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := make(map[string][]string, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		merged[key] = append(merged[key], multiValueHeaders[name]...)
	}

	for key, values := range merged {
		if len(values) == 0 {
			continue
		}
		headers[key] = NewHeaderValue(values)
	}
	return headers
}
