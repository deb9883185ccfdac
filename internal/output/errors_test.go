package output

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCLIError(t *testing.T) {
	err := NewCLIError(ExitUsage, "missing key")
	assert.Equal(t, ExitUsage, err.ExitCode)
	assert.Equal(t, "missing key", err.Message)
	assert.Empty(t, err.Hint)
	assert.False(t, err.Silent)
}

func TestCLIErrorError(t *testing.T) {
	err := &CLIError{Message: "something broke"}
	assert.Equal(t, "something broke", err.Error())
}

func TestCLIErrorWithHint(t *testing.T) {
	err := NewCLIError(ExitError, "store unavailable")
	result := err.WithHint("Run: kc config set backend file")

	// Fluent builder returns same pointer
	assert.Same(t, err, result)
	assert.Equal(t, "Run: kc config set backend file", err.Hint)
}

func TestCLIErrorImplementsError(t *testing.T) {
	var err error = NewCLIError(ExitError, "test")
	assert.Equal(t, "test", err.Error())
}

func TestReport(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStderr string
	}{
		{name: "nil", err: nil, wantCode: ExitOK, wantStderr: ""},
		{name: "cli error", err: NewCLIError(ExitUsage, "bad args"), wantCode: ExitUsage, wantStderr: "error: bad args\n"},
		{name: "with hint", err: NewCLIError(ExitError, "boom").WithHint("try again"), wantCode: ExitError, wantStderr: "error: boom\nhint: try again\n"},
		{name: "silent", err: NewCLIError(ExitError, "hidden").WithHint("hidden too").Quiet(true), wantCode: ExitError, wantStderr: ""},
		{name: "joined", err: errors.Join(NewCLIError(ExitUsage, "bad args").WithHint("see usage")), wantCode: ExitUsage, wantStderr: "error: bad args\nhint: see usage\n"},
		{name: "joined silent", err: errors.Join(NewCLIError(ExitError, "hidden").Quiet(true), nil), wantCode: ExitError, wantStderr: ""},
		{name: "wrapped", err: fmt.Errorf("run: %w", NewCLIError(ExitUsage, "bad args")), wantCode: ExitUsage, wantStderr: "error: bad args\n"},
		{name: "plain error", err: errors.New("unknown"), wantCode: ExitError, wantStderr: "error: unknown\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Report(New("plain", &stdout, &stderr), tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStderr, stderr.String())
			assert.Empty(t, stdout.String())
		})
	}
}
