package xconsole_test

import (
	"os"
	"strings"
	"testing"

	"github.com/creack/pty"
	"github.com/dianlight/xconsole"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTerminal(t *testing.T, cols uint16) *os.File {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = tty.Close()
		_ = ptmx.Close()
	})
	require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: cols}))
	return tty
}

func TestTerminalColumnsFromPTY(t *testing.T) {
	tty := openTerminal(t, 20)
	assert.Equal(t, 20, xconsole.TerminalColumns(tty))
}

func TestTerminalColumnsFallback(t *testing.T) {
	t.Setenv("COLUMNS", "42")
	assert.Equal(t, 42, xconsole.TerminalColumns(nil))

	t.Setenv("COLUMNS", "wide")
	assert.Equal(t, 80, xconsole.TerminalColumns(nil))
}

func TestFitOnTerm(t *testing.T) {
	tty := openTerminal(t, 20)
	logger, err := xconsole.New(testConfig(), xconsole.WithTerminal(tty), xconsole.WithColors(false))
	require.NoError(t, err)

	assert.Equal(t, "short", logger.FitOnTerm("short", ""))
	assert.Equal(t, "0123456789abcdefg...", logger.FitOnTerm("0123456789abcdefghijklmnop", ""))
	assert.Equal(t, "0123456789abcde... ]", logger.FitOnTerm("0123456789abcdefghijklmnop", " ]"))

	fitted := logger.FitOnTerm(strings.Repeat("x", 30)+"\nok", "")
	assert.Equal(t, strings.Repeat("x", 17)+"...\nok", fitted)
}

func TestFitToWidth(t *testing.T) {
	assert.Equal(t, "abc...", xconsole.FitToWidth("abcdefghij", "", 6))
	assert.Equal(t, "abcdefghij", xconsole.FitToWidth("abcdefghij", "", 10))
	assert.Equal(t, "\x1b[31mabc...", xconsole.FitToWidth("\x1b[31mabcdefghij", "", 6))
}
