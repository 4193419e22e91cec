/*
 * Filename: /Users/htang/code/sigma/log.go
 * Path: /Users/htang/code/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package sigma

import (
	"os"

	logging "github.com/op/go-logging"
)

// log is the package-wide logger, mirroring the teacher's package-level
// `log` used throughout build.go, clm.go and graph.go.
var log = logging.MustGetLogger("sigma")

// BackendFormatter is the leveled, colorized stderr backend the Sigma CLI
// installs on startup, the same way cmd/allhic.go installs
// allhic.BackendFormatter before running the CLI app.
var BackendFormatter logging.Backend

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	format := logging.MustStringFormatter(
		`%{color}%{time:15:04:05} %{level:.4s}%{color:reset} %{message}`,
	)
	BackendFormatter = logging.NewBackendFormatter(backend, format)
	logging.SetBackend(BackendFormatter)
}
