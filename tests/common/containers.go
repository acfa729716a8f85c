// Package common provides shared test infrastructure
package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	imageRepo = "returnchart-server"
	imageTag  = "test"
	httpPort  = "8080/tcp"
)

var (
	buildOnce  sync.Once
	buildError error
)

// Env represents an isolated Docker test environment running returnchart-server
type Env struct {
	t          *testing.T
	container  testcontainers.Container
	ctx        context.Context
	cancel     context.CancelFunc
	baseURL    string
	client     *http.Client
	ResultsDir string
}

// buildTestImage builds the Docker image once per test run
func buildTestImage() error {
	buildOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    findProjectRoot(),
					Dockerfile: "tests/docker/Dockerfile",
					Repo:       imageRepo,
					Tag:        imageTag,
					KeepImage:  true,
				},
			},
		}

		// Build via a throwaway container request to cache the image
		_, buildError = testcontainers.GenericContainer(ctx, req)
		if buildError != nil && strings.Contains(buildError.Error(), imageRepo+":"+imageTag) {
			buildError = nil
		}
	})
	return buildError
}

// NewEnv starts returnchart-server in a container and waits for /api/health.
// Returns nil (after skipping) unless RETURNCHART_TEST_DOCKER=true.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	if os.Getenv("RETURNCHART_TEST_DOCKER") != "true" {
		t.Skip("Docker tests disabled (set RETURNCHART_TEST_DOCKER=true to enable)")
		return nil
	}

	if err := buildTestImage(); err != nil {
		t.Fatalf("Failed to build test image: %v", err)
	}

	datetime := time.Now().Format("20060102-150405")
	resultsDir := filepath.Join(findProjectRoot(), "tests", "results", datetime+"-"+t.Name())
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		t.Fatalf("Failed to create results dir: %v", err)
	}

	timeout := 60 * time.Second
	if envTimeout := os.Getenv("RETURNCHART_TEST_TIMEOUT"); envTimeout != "" {
		if d, err := time.ParseDuration(envTimeout); err == nil {
			timeout = d
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	req := testcontainers.ContainerRequest{
		Image:        imageRepo + ":" + imageTag,
		ExposedPorts: []string{httpPort},
		WaitingFor:   wait.ForHTTP("/api/health").WithPort(httpPort).WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("Failed to start container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		cancel()
		t.Fatalf("Failed to resolve container host: %v", err)
	}
	port, err := container.MappedPort(ctx, httpPort)
	if err != nil {
		cancel()
		t.Fatalf("Failed to resolve mapped port: %v", err)
	}

	env := &Env{
		t:          t,
		container:  container,
		ctx:        ctx,
		cancel:     cancel,
		baseURL:    fmt.Sprintf("http://%s:%s", host, port.Port()),
		client:     &http.Client{Timeout: 30 * time.Second},
		ResultsDir: resultsDir,
	}

	t.Logf("Container started at %s", env.baseURL)
	return env
}

// Cleanup tears down the container and collects logs
func (e *Env) Cleanup() {
	if e == nil {
		return
	}

	e.collectLogs()

	if e.container != nil {
		if err := e.container.Terminate(e.ctx); err != nil {
			e.t.Logf("Warning: failed to terminate container: %v", err)
		}
	}

	if e.cancel != nil {
		e.cancel()
	}
}

// Context returns the test context
func (e *Env) Context() context.Context {
	return e.ctx
}

// BaseURL returns the server root URL.
func (e *Env) BaseURL() string {
	return e.baseURL
}

// HTTPGet issues a GET against the server.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(e.ctx, http.MethodGet, e.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return e.client.Do(req)
}

// HTTPPost issues a POST with a JSON body against the server.
func (e *Env) HTTPPost(path, body string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(e.ctx, http.MethodPost, e.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return e.client.Do(req)
}

// SaveResult saves test output to the results directory
func (e *Env) SaveResult(name string, data []byte) error {
	return os.WriteFile(filepath.Join(e.ResultsDir, name), data, 0644)
}

// collectLogs saves container logs to results directory
func (e *Env) collectLogs() {
	if e.container == nil {
		return
	}

	reader, err := e.container.Logs(e.ctx)
	if err != nil {
		e.t.Logf("Warning: failed to get container logs: %v", err)
		return
	}
	defer reader.Close()

	logs, err := io.ReadAll(reader)
	if err != nil {
		e.t.Logf("Warning: failed to read container logs: %v", err)
		return
	}

	if err := os.WriteFile(filepath.Join(e.ResultsDir, "container.log"), logs, 0644); err != nil {
		e.t.Logf("Warning: failed to save logs: %v", err)
	}
}

// findProjectRoot walks up directories to find go.mod
func findProjectRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
