package cli

import (
	"bufio"
	"strings"
	"testing"

	"github.com/rohanchhabra/bitkv/internal/engine/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, input string) *Handler {
	t.Helper()
	h := NewHandler(memory.New(), zap.NewNop().Sugar())
	h.scanner = bufio.NewScanner(strings.NewReader(input))
	return h
}

func TestRunPutGetDelete(t *testing.T) {
	h := newTestHandler(t, "PUT a 1\nGET a\nDELETE a\nGET a\nEXIT\n")
	require.NoError(t, h.Run())
}

func TestRunUnknownCommandContinues(t *testing.T) {
	h := newTestHandler(t, "BOGUS\nEXIT\n")
	require.NoError(t, h.Run())
}

func TestRunScanAndStatus(t *testing.T) {
	h := newTestHandler(t, "PUT a 1\nPUT b 2\nSCAN\nSCAN_PREFIX a\nSTATUS\nEXIT\n")
	require.NoError(t, h.Run())
}

func TestRunCompactUnsupportedOnMemory(t *testing.T) {
	h := newTestHandler(t, "COMPACT\nEXIT\n")
	require.NoError(t, h.Run())
}
