package testutil

import (
	"io"
	"log/slog"
	"time"
)

// Deterministic identifiers and clock values for tests.
const (
	TestPlayerID1 int64 = 1001
	TestPlayerID2 int64 = 1002
	TestUnknownID int64 = 9999
)

const (
	TestSessionID  = "00000000-0000-0000-0000-000000000010"
	TestDebtIDMiss = "00000000-0000-0000-0000-0000000000ff"
)

// TestNow is a fixed mid-month instant used as "now" in tests.
var TestNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

// QuietLogger discards everything it is given.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
