package lambda

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"
)

// Proxy forwards API Gateway events through an in-process server
type Proxy struct {
	server Injector
	logger *logrus.Logger
}

// Option configures a Proxy
type Option func(*Proxy)

// WithLogger sets the logger used for per-invocation debug logs
func WithLogger(logger *logrus.Logger) Option {
	return func(p *Proxy) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// For creates a Proxy wrapping server
func For(server Injector, opts ...Option) *Proxy {
	p := &Proxy{
		server: server,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle transforms the event into a request, injects it into the wrapped
// server and transforms the server's response into a proxy result.
// Errors raised by the server are returned unchanged; error-status
// responses are converted like any other response.
func (p *Proxy) Handle(ctx context.Context, event Event) (Result, error) {
	response, err := p.SendThroughServer(ctx, event)
	if err != nil {
		return Result{}, err
	}

	result := NewResult(response)
	p.logInvocation(ctx, event.HTTPMethod, event.Path, result.StatusCode, result.IsBase64Encoded)
	return result, nil
}

// SendThroughServer injects the request built from event and returns the raw response
func (p *Proxy) SendThroughServer(ctx context.Context, event Event) (*RawResponse, error) {
	response, err := p.server.Inject(ctx, p.CreateRequestFrom(event))
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, fmt.Errorf("server returned no response for %s %s", event.HTTPMethod, event.Path)
	}
	return response, nil
}

// CreateRequestFrom builds the injectable request for event
func (p *Proxy) CreateRequestFrom(event Event) *RequestDescriptor {
	return NewRequestDescriptor(event)
}

// HandleALB serves an Application Load Balancer target-group event. The
// target group must have multi-value headers enabled.
func (p *Proxy) HandleALB(ctx context.Context, event events.ALBTargetGroupRequest) (events.ALBTargetGroupResponse, error) {
	result, err := p.Handle(ctx, Event{
		Path:                            event.Path,
		HTTPMethod:                      event.HTTPMethod,
		MultiValueQueryStringParameters: event.MultiValueQueryStringParameters,
		MultiValueHeaders:               event.MultiValueHeaders,
		Body:                            event.Body,
		IsBase64Encoded:                 event.IsBase64Encoded,
	})
	if err != nil {
		return events.ALBTargetGroupResponse{}, err
	}

	return events.ALBTargetGroupResponse{
		StatusCode:        result.StatusCode,
		StatusDescription: fmt.Sprintf("%d %s", result.StatusCode, http.StatusText(result.StatusCode)),
		MultiValueHeaders: result.MultiValueHeaders,
		Body:              result.Body,
		IsBase64Encoded:   result.IsBase64Encoded,
	}, nil
}

func (p *Proxy) logInvocation(ctx context.Context, method, path string, status int, isBase64 bool) {
	if !p.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}

	fields := logrus.Fields{
		"method":            method,
		"path":              path,
		"status_code":       status,
		"is_base64_encoded": isBase64,
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		fields["aws_request_id"] = lc.AwsRequestID
	}
	p.logger.WithFields(fields).Debug("Invocation proxied")
}
