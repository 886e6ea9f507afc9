package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// logWriter implements an io.Writer that outputs to both standard error and
// the write-end pipe of an initialized log rotator.
type logWriter struct {
	// logRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	// Use for color terminal
	colorableWrite io.Writer
}

func (lw *logWriter) Init(noColor bool) {
	// init a colorful logger if possible
	if !noColor && useColor(os.Stderr) {
		lw.colorableWrite = colorable.NewColorableStderr()
	}
}

func (lw *logWriter) Close() {
	if lw.logRotator != nil {
		lw.logRotator.Close()
	}
}

func (lw *logWriter) Write(p []byte) (n int, err error) {
	if lw.logRotator != nil {
		lw.logRotator.Write(p)
	}

	if lw.colorableWrite != nil {
		lw.colorableWrite.Write(p)
	} else {
		os.Stderr.Write(p)
	}
	return len(p), nil
}

var (
	logWrite = &logWriter{}

	// backendLog is the logging backend used to create all subsystem
	// loggers.
	backendLog = btclog.NewBackend(logWrite)

	ecdsLog = backendLog.Logger("ECDS")
	demoLog = backendLog.Logger("DEMO")
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"ECDS": ecdsLog,
	"DEMO": demoLog,
}

func init() {
	ecdsa.UseLogger(ecdsLog)
}

// useColor reports whether f is a terminal that understands colors.
func useColor(f *os.File) bool {
	fd := f.Fd()
	return (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
}

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logWrite.logRotator = r
	return nil
}

// setLogLevels sets the logging level for all subsystems.
func setLogLevels(logLevel string) error {
	level, ok := btclog.LevelFromString(logLevel)
	if !ok {
		return fmt.Errorf("invalid debug level %q", logLevel)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
	return nil
}
