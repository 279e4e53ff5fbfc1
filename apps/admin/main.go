package main

import (
	"log"
	"os"

	"github.com/trezcool/eduhelp/core"
	"github.com/trezcool/eduhelp/core/dashboard"
	inmemdb "github.com/trezcool/eduhelp/storage/database/inmem"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up in-memory data
	db := inmemdb.OpenSeeded()

	// start CLI
	cli := commandLine{
		conf:     core.NewConfig(),
		adminSvc: dashboard.NewAdminService(inmemdb.NewRepositories(db)),
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
