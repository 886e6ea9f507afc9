package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

// errInvalidSignature makes the process exit with status 1 after a signature
// failed to verify.  The outcome has already been printed.
var errInvalidSignature = errors.New("signature verification failed")

func run(cfg *config, args []string) error {
	parser, err := newParser(cfg)
	if err != nil {
		return err
	}
	_, err = parser.ParseArgs(args)
	return err
}

func main() {
	err := run(defaultConfig(), os.Args[1:])
	logWrite.Close()
	if err == nil {
		return
	}

	var flagsErr *flags.Error
	switch {
	case errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp:
		fmt.Fprintln(os.Stdout, err)
		return
	case errors.Is(err, errInvalidSignature):
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
