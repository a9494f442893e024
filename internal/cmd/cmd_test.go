package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hproftools/heapherd/internal/exitcode"
	"github.com/hproftools/heapherd/internal/ledger"
)

func TestPrintSummaryAllSuccess(t *testing.T) {
	result := &ledger.Ledger{Targets: map[string]ledger.RunRecord{
		"A": {Name: "A", Status: ledger.StatusSuccess},
		"B": {Name: "B", Status: ledger.StatusSuccess},
	}}

	assert.NoError(t, printSummary(t.TempDir(), result))
}

func TestPrintSummaryMixedReturnsCodedError(t *testing.T) {
	result := &ledger.Ledger{Targets: map[string]ledger.RunRecord{
		"A": {Name: "A", Status: ledger.StatusSuccess},
		"B": {Name: "B", Status: ledger.StatusPartial},
		"C": {Name: "C", Status: ledger.StatusFailed},
	}}

	err := printSummary(t.TempDir(), result)
	require.Error(t, err)
	assert.Equal(t, exitcode.ErrTargetsFailed, exitcode.Code(err))

	var coded *exitcode.CodedError
	require.True(t, errors.As(err, &coded))
	assert.Contains(t, coded.Error(), "2 target(s)")
}

func TestResolveVersionFallsBackToDev(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", resolveVersion())
}
