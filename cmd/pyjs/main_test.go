package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRenderStdin(t *testing.T) {
	res := execute(t, "x = 1\nprint(x + 2)\n", "render")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	lines := strings.Split(res.stdout, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "// Code generated by pyjs from stdin. DO NOT EDIT.", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "// program blake2b:"))
	assert.Equal(t, "let x = 1;console.log(x + 2)", lines[2])
	assert.Equal(t, "", lines[3])
}

func TestRenderFormats(t *testing.T) {
	t.Run("module", func(t *testing.T) {
		res := execute(t, "print(1)", "render", "--format", "module", "-")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.Contains(t, res.stdout, "(function () {\n\"use strict\";\nconsole.log(1)\n})();\n")
	})

	t.Run("node", func(t *testing.T) {
		res := execute(t, "print(1)", "render", "--format", "node")
		require.Equal(t, ExitSuccess, res.code, res.stderr)
		assert.True(t, strings.HasPrefix(res.stdout, "#!/usr/bin/env node\n"))
	})

	t.Run("unknown format", func(t *testing.T) {
		res := execute(t, "print(1)", "render", "--format", "modul")
		assert.Equal(t, ExitInvalidArguments, res.code)
		assert.Contains(t, res.stderr, "module")
	})
}

func TestRenderFileToOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "prog.py", "a = 2 ** 3 ** 2\n")
	out := filepath.Join(dir, "prog.js")

	res := execute(t, "", "render", src, "-o", out)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Empty(t, res.stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "from "+src+".")
	assert.Contains(t, string(data), "let a = 2 ** 3 ** 2")
}

func TestRenderMissingFile(t *testing.T) {
	res := execute(t, "", "render", filepath.Join(t.TempDir(), "nope.py"))
	assert.Equal(t, ExitIOError, res.code)
	assert.Contains(t, res.stderr, "error reading file")
}

func TestCompileErrorShowsSnippet(t *testing.T) {
	res := execute(t, "x = 1\nprint(y)\n", "render")
	assert.Equal(t, ExitCompileError, res.code)
	assert.Contains(t, res.stderr, "NameError: variable or function with name 'y' is not defined")
	assert.Contains(t, res.stderr, " 2 | print(y)")
	assert.Empty(t, res.stdout)
}

func TestEval(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   int
		stdout string
		stderr string
	}{
		{
			name:   "one value per statement",
			source: "1 + 2\n2 ** 3 ** 2\n7 / 2\n",
			code:   ExitSuccess,
			stdout: "3\n512\n3.5\n",
		},
		{
			name:   "booleans and strings",
			source: "1 < 2 and not False\n\"hi\"\nNone\n",
			code:   ExitSuccess,
			stdout: "True\nhi\nNone\n",
		},
		{
			name:   "division by zero",
			source: "1 / 0\n",
			code:   ExitEvaluationError,
			stderr: "ZeroDivisionError",
		},
		{
			name:   "render-only node",
			source: "print(1)\n",
			code:   ExitEvaluationError,
			stderr: "NotImplementedError",
		},
		{
			name:   "syntax error",
			source: "1 +\n",
			code:   ExitCompileError,
			stderr: "SyntaxError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, tt.source, "eval")
			assert.Equal(t, tt.code, res.code, res.stderr)
			assert.Equal(t, tt.stdout, res.stdout)
			if tt.stderr != "" {
				assert.Contains(t, res.stderr, tt.stderr)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	res := execute(t, "x = 1\n", "tokens")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "IDENTIFIER"))
	assert.True(t, strings.HasPrefix(lines[4], "EOF"))
}

func TestTokensUnknownCharacter(t *testing.T) {
	res := execute(t, "x = 1\ny = $\n", "tokens")
	assert.Equal(t, ExitCompileError, res.code)
	assert.Contains(t, res.stderr, "UnknownTokenError")
	assert.Contains(t, res.stdout, "IDENTIFIER")
}

func TestAST(t *testing.T) {
	res := execute(t, "x = 1\n", "ast")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "StatementList\n  Assign x declared=false\n"))
}

func TestCheck(t *testing.T) {
	res := execute(t, "def f(a):\n    return a\nf(1)\n", "check")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "ok stdin blake2b:"))
}

func TestNoInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"check"}, nil, &stdout, &stderr)
	assert.Equal(t, ExitInvalidArguments, code)
	assert.Contains(t, stderr.String(), "no input")
}

func TestRuleFlags(t *testing.T) {
	t.Run("disable", func(t *testing.T) {
		res := execute(t, "print(1)\n", "check", "--disable", "DisablePrint")
		assert.Equal(t, ExitCompileError, res.code)
		assert.Contains(t, res.stderr, "CompilationError")
	})

	t.Run("blacklist", func(t *testing.T) {
		res := execute(t, "secret = 1\n", "check", "--blacklist", "secret,tmp")
		assert.Equal(t, ExitCompileError, res.code)
		assert.Contains(t, res.stderr, "CompilationError")
	})

	t.Run("other names pass", func(t *testing.T) {
		res := execute(t, "visible = 1\n", "check", "--blacklist", "secret")
		assert.Equal(t, ExitSuccess, res.code, res.stderr)
	})

	t.Run("unknown policy", func(t *testing.T) {
		res := execute(t, "print(1)\n", "check", "--disable", "DisableLoops")
		assert.Equal(t, ExitInvalidArguments, res.code)
		assert.Contains(t, res.stderr, "unknown rule")
	})

	t.Run("blacklist through disable", func(t *testing.T) {
		res := execute(t, "print(1)\n", "check", "--disable", "BlacklistVariable")
		assert.Equal(t, ExitInvalidArguments, res.code)
		assert.Contains(t, res.stderr, "--blacklist")
	})
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, ".pyjs.yaml", "version: \"1.0.0\"\nrules:\n  - name: DisableWhile\n")

	res := execute(t, "while(True):\n    print(1)\n", "check", "--config", cfg)
	assert.Equal(t, ExitCompileError, res.code)
	assert.Contains(t, res.stderr, "CompilationError")

	bad := writeFile(t, dir, "bad.json", `{"version": "2.0.0"}`)
	res = execute(t, "print(1)\n", "check", "--config", bad)
	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, "unsupported config version")
}

func TestDebugLogging(t *testing.T) {
	res := execute(t, "1 + 1\n", "--debug", "eval")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "compiled")
	assert.Equal(t, "2\n", res.stdout)
}

func TestWatchRequiresFile(t *testing.T) {
	res := execute(t, "print(1)\n", "render", "--watch")
	assert.Equal(t, ExitInvalidArguments, res.code)
	assert.Contains(t, res.stderr, "--watch")
}

func TestWatchRerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "prog.py", "print(1)\n")
	out := filepath.Join(dir, "prog.js")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int, 1)
	var stdout, stderr bytes.Buffer
	go func() {
		done <- run(ctx, []string{"render", "--watch", src, "-o", out}, nil, &stdout, &stderr)
	}()

	readOut := func() string {
		data, _ := os.ReadFile(out)
		return string(data)
	}
	require.Eventually(t, func() bool {
		return strings.Contains(readOut(), "console.log(1)")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(src, []byte("print(2)\n"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(readOut(), "console.log(2)")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, ExitSuccess, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

// lockedBuffer lets a test read output while run is still writing it
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchSurvivesMissingFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "later.py")
	out := filepath.Join(dir, "later.js")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int, 1)
	var stdout, stderr lockedBuffer
	go func() {
		done <- run(ctx, []string{"render", "--watch", src, "-o", out}, nil, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "error reading file")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(src, []byte("print(3)\n"), 0o644))
	require.Eventually(t, func() bool {
		data, _ := os.ReadFile(out)
		return strings.Contains(string(data), "console.log(3)")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, ExitSuccess, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestShouldUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, ShouldUseColor(false, &buf))
	assert.False(t, ShouldUseColor(true, os.Stdout))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColor(false, os.Stdout))
}
