package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aledsdavies/releasebuilder/pkgs/lexer"
)

const appSource = "<?php\nclass Application\n{\n    const NAME = 'acme';\n    const VERSION = '0.5.0-RC';\n}\n"

type result struct {
	code           int
	stdout, stderr string
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	a := newApp(strings.NewReader(stdin), &stdout, &stderr)
	a.home = t.TempDir()
	a.git = func(_ context.Context, args ...string) (string, error) {
		switch args[len(args)-1] {
		case "user.name":
			return "Jane Doe\n", nil
		case "user.email":
			return "jane@example.com\n", nil
		}
		return "", nil
	}

	code := run(t.Context(), a, append([]string{"--no-color"}, args...))
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Application.php")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	res := execute(t, "", "version")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "releasebuilder dev\n", res.stdout)
}

func TestConstantSetPrints(t *testing.T) {
	path := writeFile(t, appSource)

	res := execute(t, "", "constant", "set", path+"::VERSION", "1.0.0")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, strings.Replace(appSource, "'0.5.0-RC'", "'1.0.0'", 1), res.stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, appSource, string(data), "file untouched without --write")
}

func TestConstantSetWrites(t *testing.T) {
	path := writeFile(t, appSource)

	res := execute(t, "", "constant", "set", path+"::VERSION", "1.0.0", "--write")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, path+": VERSION updated\n", res.stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "const VERSION = '1.0.0';")

	res = execute(t, "", "constant", "set", path+"::VERSION", "1.0.0", "--write")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, path+": VERSION unchanged\n", res.stdout)
}

func TestConstantSetStdin(t *testing.T) {
	res := execute(t, "const PORT = 8080;", "constant", "set", "--", "-::PORT", "9090")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "const PORT = 9090;", res.stdout)

	res = execute(t, "const PORT = 8080;", "constant", "set", "--write", "--", "-::PORT", "9090")
	assert.Equal(t, ExitInvalidArguments, res.code)
}

func TestConstantSetUnknownSuggests(t *testing.T) {
	path := writeFile(t, appSource)

	res := execute(t, "", "constant", "set", path+"::VERSON", "1.0.0")
	assert.Equal(t, ExitFailure, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error: constant 'VERSON' not declared")
	assert.Contains(t, res.stderr, "Hint: Did you mean VERSION?")
}

func TestConstantSetBadTarget(t *testing.T) {
	res := execute(t, "", "constant", "set", "Application.php", "1.0.0")
	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, "<file>::<constant name>")
}

func TestConstantSetMissingFile(t *testing.T) {
	res := execute(t, "", "constant", "set", filepath.Join(t.TempDir(), "nope.php")+"::VERSION", "1")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "failed to read")
	assert.Contains(t, res.stderr, "Hint: Use - as the file to read the source from standard input")
}

func TestCollectLogsTokenCounts(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := newApp(strings.NewReader(""), io.Discard, io.Discard)
	a.logger = zap.New(core)

	c := a.collect("-", "const PORT = 8080;")
	assert.Equal(t, "const PORT = 8080;", c.Assemble())

	entries := logs.FilterMessage("Lexed source").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "-", fields["file"])
	assert.Equal(t, int64(c.Len()), fields["tokens"])
	assert.Equal(t, int64(1), fields[lexer.DeclarationKeyword.String()])
	assert.Equal(t, int64(1), fields[lexer.Identifier.String()])
	assert.Equal(t, int64(1), fields[lexer.NumericLiteral.String()])
}

func TestCollectSkipsCountsAboveDebug(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := newApp(strings.NewReader(""), io.Discard, io.Discard)
	a.logger = zap.New(core)

	a.collect("-", "<?php const A = 1;")
	assert.Zero(t, logs.Len())
}

func TestConstantGet(t *testing.T) {
	path := writeFile(t, appSource)

	res := execute(t, "", "constant", "get", path)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "NAME = 'acme' (line 4)\nVERSION = '0.5.0-RC' (line 5)\n", res.stdout)

	res = execute(t, "", "constant", "get", path, "VERSION")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "'0.5.0-RC'\n", res.stdout)

	res = execute(t, "", "constant", "get", path, "NAMES")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Did you mean NAME?")
}

func TestBuildRejectsMalformedArguments(t *testing.T) {
	res := execute(t, "", "build", "acme", "1.0.0", "1.1.0-dev", "--token", "t")
	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, "<owner>/<repository>")

	res = execute(t, "", "build", "acme/console", "1.0.0", "1.1.0-dev", "--token", "t", "--version-constant", "src/App.php")
	assert.Equal(t, ExitInvalidArguments, res.code)

	res = execute(t, "", "build", "acme/console", "1.0.0")
	assert.Equal(t, ExitFailure, res.code)
}

// fakeGitHub serves the endpoints a release touches and records writes
type fakeGitHub struct {
	mu       sync.Mutex
	content  string
	revision int
	messages []string
	release  map[string]any
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}

	mux.HandleFunc("GET /repos/acme/console/contents/src/Application.php", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(w, http.StatusOK, map[string]any{
			"type":     "file",
			"encoding": "base64",
			"sha":      "rev" + string(rune('0'+f.revision)),
			"content":  base64.StdEncoding.EncodeToString([]byte(f.content)),
		})
	})
	mux.HandleFunc("PUT /repos/acme/console/contents/src/Application.php", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
			Content []byte `json:"content"`
			SHA     string `json:"sha"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		f.mu.Lock()
		defer f.mu.Unlock()
		if body.SHA != "rev"+string(rune('0'+f.revision)) {
			reply(w, http.StatusConflict, map[string]any{"message": "sha mismatch"})
			return
		}
		f.content = string(body.Content)
		f.revision++
		f.messages = append(f.messages, body.Message)
		reply(w, http.StatusOK, map[string]any{})
	})
	mux.HandleFunc("GET /repos/acme/console/releases", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []map[string]any{})
	})
	mux.HandleFunc("GET /repos/acme/console/commits", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []map[string]any{
			{"sha": "c2", "commit": map[string]any{"message": "Merge pull request #5 from acme/feature"}},
		})
	})
	mux.HandleFunc("GET /repos/acme/console/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, map[string]any{"number": 5, "title": "Add feature"})
	})
	mux.HandleFunc("POST /repos/acme/console/releases", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.release))
		reply(w, http.StatusCreated, map[string]any{"id": 1, "tag_name": f.release["tag_name"], "html_url": "https://example.com/r/1"})
	})

	return mux
}

func TestBuild(t *testing.T) {
	gh := &fakeGitHub{content: appSource}
	server := httptest.NewServer(gh.handler(t))
	defer server.Close()

	res := execute(t, "", "build", "acme/console", "1.0.0", "1.1.0-dev",
		"--version-constant", "src/Application.php::VERSION",
		"--token", "secret",
		"--api-url", server.URL)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Created release 1.0.0 https://example.com/r/1\n", res.stdout)

	assert.Equal(t, []string{
		"Updated version number for release",
		"Updated version number for development",
	}, gh.messages)
	assert.Contains(t, gh.content, "const VERSION = '1.1.0-dev';")
	assert.Equal(t, "Release 1.0.0", gh.release["name"])
	assert.Equal(t, "master", gh.release["target_commitish"])
	assert.Equal(t, false, gh.release["prerelease"])
	assert.Equal(t, "Changelog:\n\n* Add feature (#5)\n", gh.release["body"])
}

func TestBuildDryRun(t *testing.T) {
	gh := &fakeGitHub{content: appSource}
	server := httptest.NewServer(gh.handler(t))
	defer server.Close()

	res := execute(t, "", "build", "acme/console", "2.0.0-RC1", "2.0.0-dev",
		"--version-constant", "src/Application.php::VERSION",
		"--token", "secret",
		"--api-url", server.URL,
		"--branch", "develop",
		"--dry-run")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Dry run: release 2.0.0-RC1 not created\n\nChangelog:\n\n* Add feature (#5)\n", res.stdout)

	assert.Empty(t, gh.messages)
	assert.Nil(t, gh.release)
	assert.Equal(t, appSource, gh.content)
}
