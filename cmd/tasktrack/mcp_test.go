package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tasktrack/tasktrack/internal/api"
	"github.com/tasktrack/tasktrack/internal/client"
	"github.com/tasktrack/tasktrack/internal/config"
	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/service"
	"github.com/tasktrack/tasktrack/internal/store"
)

// isolateConfig points config resolution at an empty home and binds to addr.
func isolateConfig(t *testing.T, addr string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfig, filepath.Join(home, "missing.toml"))
	t.Setenv(config.EnvBind, addr)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvDataDir, "")
	t.Setenv(config.EnvStorageDriver, "")
}

func TestRunMCP_ServerNotRunning(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	isolateConfig(t, addr)

	var out bytes.Buffer
	err = runMCP(context.Background(), strings.NewReader(""), &out)
	if !errors.Is(err, client.ErrServerNotRunning) {
		t.Fatalf("runMCP() error = %v, want ErrServerNotRunning", err)
	}
	if mapErrorToExitCode(err) != ExitServerNotRunning {
		t.Errorf("exit code = %d, want %d", mapErrorToExitCode(err), ExitServerNotRunning)
	}
	if out.Len() != 0 {
		t.Errorf("expected no stdout output, got %q", out.String())
	}
}

func TestRunMCP_WritesGoThroughServer(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	svc := service.NewTaskService(st, service.WithLogger(logging.Discard()))
	srv := httptest.NewServer(api.NewRouter(svc, nil, logging.Discard()))
	defer srv.Close()
	isolateConfig(t, strings.TrimPrefix(srv.URL, "http://"))

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"writeTasks","arguments":{"operation":"create","title":"From agent","id":null}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := runMCP(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatalf("runMCP() error = %v", err)
	}

	var lines []string
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 responses, got %d: %q", len(lines), out.String())
	}

	var resp struct {
		Result struct {
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &resp); err != nil {
		t.Fatalf("failed to decode tools/call response: %v", err)
	}
	if resp.Result.IsError {
		t.Fatalf("tools/call reported an error: %s", lines[1])
	}

	tasks, err := svc.List(context.Background(), service.ListTasksInput{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "From agent" {
		t.Errorf("server store holds %+v, want the task created over stdio", tasks)
	}
}
