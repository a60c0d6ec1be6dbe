package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goto/labsearch/cli"
)

const (
	exitOK    = 0
	exitError = 1
)

func main() {
	cliConfig, err := cli.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, err := cli.New(cliConfig).ExecuteContextC(ctx)
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)

	cmdErr := strings.HasPrefix(err.Error(), "unknown command")
	flagErr := strings.HasPrefix(err.Error(), "unknown flag")
	sflagErr := strings.HasPrefix(err.Error(), "unknown shorthand flag")

	if cmdErr || flagErr || sflagErr {
		if !strings.HasSuffix(err.Error(), "\n") {
			fmt.Println()
		}
		fmt.Println(cmd.UsageString())
		os.Exit(exitOK)
	}
	os.Exit(exitError)
}
