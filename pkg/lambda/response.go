package lambda

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode/utf8"
)

// BinaryRule decides whether a response payload has to travel base64-encoded
type BinaryRule struct {
	Name  string
	Match func(headers Headers, payload []byte) bool
}

// BinaryRules is evaluated top to bottom; the first match selects base64
var BinaryRules = []BinaryRule{
	{Name: "content-type-without-charset", Match: contentTypeWithoutCharset},
	{Name: "non-identity-content-encoding", Match: nonIdentityContentEncoding},
	{Name: "invalid-utf8-payload", Match: invalidUTF8Payload},
}

var charsetParam = regexp.MustCompile(`(?i);\s*charset\s*=`)

func contentTypeWithoutCharset(headers Headers, _ []byte) bool {
	contentType, ok := headers.Get("content-type")
	return ok && !charsetParam.MatchString(contentType)
}

func nonIdentityContentEncoding(headers Headers, _ []byte) bool {
	encoding, ok := headers.Get("content-encoding")
	return ok && encoding != "identity"
}

// invalidUTF8Payload keeps the body round-trippable: a JSON string cannot
// carry bytes that are not valid UTF-8.
func invalidUTF8Payload(_ Headers, payload []byte) bool {
	return !utf8.Valid(payload)
}

// MatchBinaryRule returns the name of the first rule that matches, or "" for text
func MatchBinaryRule(rules []BinaryRule, headers Headers, payload []byte) string {
	for _, rule := range rules {
		if rule.Match(headers, payload) {
			return rule.Name
		}
	}
	return ""
}

// IsBase64Encoded reports whether the response must be sent base64-encoded
func IsBase64Encoded(response *RawResponse) bool {
	return MatchBinaryRule(BinaryRules, response.Headers, response.RawPayload) != ""
}

// NewResult converts the embedded server's response into the proxy
// integration result. The given response is left untouched.
func NewResult(response *RawResponse) Result {
	isBase64 := IsBase64Encoded(response)

	return Result{
		StatusCode:        response.StatusCode,
		Body:              resultBody(response.RawPayload, isBase64),
		MultiValueHeaders: resultHeaders(response.Headers),
		IsBase64Encoded:   isBase64,
	}
}

func resultBody(payload []byte, isBase64 bool) string {
	if isBase64 {
		return base64.StdEncoding.EncodeToString(payload)
	}
	return string(payload)
}

// resultHeaders turns every header into a list. API Gateway does not
// support chunked transfer, so a chunked transfer-encoding is dropped.
func resultHeaders(headers Headers) map[string][]string {
	out := make(map[string][]string, len(headers))
	for name, value := range headers {
		if value == nil {
			continue
		}
		if strings.EqualFold(name, "transfer-encoding") && isChunked(value) {
			continue
		}
		out[name] = value.Values()
	}
	return out
}

func isChunked(value HeaderValue) bool {
	for _, v := range value.Values() {
		for _, coding := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(coding), "chunked") {
				return true
			}
		}
	}
	return false
}
