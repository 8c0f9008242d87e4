package lambda

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type closingServer struct {
	stubServer
	closed bool
}

func (s *closingServer) Close() error {
	s.closed = true
	return nil
}

func TestManager_BuildsServerOnce(t *testing.T) {
	var builds int32
	manager := NewManager(func(ctx context.Context) (Injector, error) {
		atomic.AddInt32(&builds, 1)
		return InjectorFunc(func(ctx context.Context, req *RequestDescriptor) (*RawResponse, error) {
			return &RawResponse{StatusCode: 200}, nil
		}), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.Handle(context.Background(), Event{Path: "/", HTTPMethod: "GET"}); err != nil {
				t.Errorf("Handle() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Errorf("factory called %d times, want 1", n)
	}
	if !manager.IsHealthy() {
		t.Error("IsHealthy() = false after use")
	}
}

func TestManager_RetriesFailedBuild(t *testing.T) {
	buildErr := errors.New("no database")
	fail := true
	manager := NewManager(func(ctx context.Context) (Injector, error) {
		if fail {
			return nil, buildErr
		}
		return &stubServer{response: &RawResponse{StatusCode: 200}}, nil
	})

	if _, err := manager.Proxy(context.Background()); !errors.Is(err, buildErr) {
		t.Fatalf("Proxy() error = %v, want %v", err, buildErr)
	}
	if manager.IsHealthy() {
		t.Error("IsHealthy() = true after failed build")
	}

	fail = false
	if _, err := manager.Proxy(context.Background()); err != nil {
		t.Fatalf("Proxy() failed on retry: %v", err)
	}
}

func TestManager_Cleanup(t *testing.T) {
	server := &closingServer{}
	manager := NewManager(func(ctx context.Context) (Injector, error) {
		return server, nil
	})

	if err := manager.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	if err := manager.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}

	if !server.closed {
		t.Error("Cleanup() did not close the server")
	}
	if manager.IsHealthy() {
		t.Error("IsHealthy() = true after Cleanup()")
	}
}
