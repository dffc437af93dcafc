package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/pkg/testutil"
)

const seedYAML = `
players:
  - id: 1001
    session_id: s-1
    name: Ada
    cash: 0
    savings: 500
    salary: 10000
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"STORE_DRIVER", "KAFKA_BROKERS", "REDIS_ADDR", "GAME_RULES_FILE"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")

	seed := filepath.Join(t.TempDir(), "players.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(seedYAML), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--seed", seed}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoanApplyCommand(t *testing.T) {
	out, err := run(t, "loan", "apply", "1001", "100000", "--type", "personal")
	require.NoError(t, err)

	var res dto.LoanApprovalResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	testutil.AssertDecimal(t, "2224.44", res.MonthlyPayment)
	testutil.AssertDecimal(t, "100000", res.NewCashBalance)
}

func TestLoanApplyCommandDeclined(t *testing.T) {
	out, err := run(t, "loan", "apply", "1001", "400000", "--type", "personal")
	require.ErrorIs(t, err, errDeclined)

	var res dto.LoanApprovalResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestPlayerCommands(t *testing.T) {
	t.Run("score", func(t *testing.T) {
		out, err := run(t, "player", "score", "1001")
		require.NoError(t, err)

		var res dto.CreditScoreResponse
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, 750, res.Score)
	})

	t.Run("state of unknown player", func(t *testing.T) {
		_, err := run(t, "player", "state", "1002")
		testutil.AssertErrorContains(t, err, "player not found")
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := run(t, "player", "state", "abc")
		testutil.AssertErrorContains(t, err, `invalid player id "abc"`)
	})
}

func TestEventsHistoryNeedsPostgres(t *testing.T) {
	_, err := run(t, "events", "history", "debt-1")
	testutil.AssertErrorContains(t, err, "only kept by the postgres store")
}
