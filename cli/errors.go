package cli

import (
	"errors"

	"github.com/MakeNowJust/heredoc"
)

var (
	ErrConfigNotFound = errors.New(heredoc.Doc(`
	Config file not found. Loading from defaults...

	Run "labsearch config init" to initialize a new configuration file
	Run "labsearch config list" to see the values in use.

	Alternatively, make a "labsearch.yaml" file in the current directory or
	set LABSEARCH_* environment variables.
`))

	errWorkerDisabled = errors.New("worker is disabled, set indexing.worker.enabled to run it")
)
