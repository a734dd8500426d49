package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		analyzeStart, analyzeOutput, cfgFile = "", "", ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pairlens dev")
}

func TestAnalyze_BadStart(t *testing.T) {
	_, err := execute(t, "analyze", "--start", "2024/01/01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")
}

func TestAnalyze_MissingConfig(t *testing.T) {
	_, err := execute(t, "analyze", "--config", "/nonexistent/pairlens.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}
