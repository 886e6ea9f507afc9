package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWriter_RotatedFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "ecdsademo.log")
	require.NoError(t, initLogRotator(logFile))
	defer func() { logWrite.logRotator = nil }()

	require.NoError(t, setLogLevels("debug"))
	defer setLogLevels(defaultDebugLevel)

	demoLog.Infof("written to the rotated log")
	logWrite.Close()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INF] DEMO: written to the rotated log")
}

func TestLogWriter_NoColor(t *testing.T) {
	lw := &logWriter{}
	lw.Init(true)
	assert.Nil(t, lw.colorableWrite)

	n, err := lw.Write([]byte{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSetLogLevels(t *testing.T) {
	assert.Error(t, setLogLevels("loud"))
	require.NoError(t, setLogLevels("off"))
	require.NoError(t, setLogLevels(defaultDebugLevel))
}
