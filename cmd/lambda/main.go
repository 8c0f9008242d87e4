package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"gateway-inject/internal/config"
	"gateway-inject/pkg/lambda"
	"gateway-inject/pkg/server"
)

func newContainer(ctx context.Context) (lambda.Injector, error) {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	container, err := server.NewContainer(ctx, cfg, config.NewLogger(cfg.Log))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return container, nil
}

func main() {
	manager := lambda.NewManager(newContainer, lambda.WithLogger(logrus.StandardLogger()))

	// EVENT_SOURCE=alb serves an Application Load Balancer target group
	if os.Getenv("EVENT_SOURCE") == "alb" {
		awslambda.Start(func(ctx context.Context, event events.ALBTargetGroupRequest) (events.ALBTargetGroupResponse, error) {
			proxy, err := manager.Proxy(ctx)
			if err != nil {
				return events.ALBTargetGroupResponse{}, err
			}
			return proxy.HandleALB(ctx, event)
		})
		return
	}

	awslambda.Start(manager.Handle)
}
