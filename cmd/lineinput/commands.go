package main

import (
	"fmt"

	"github.com/flowave-io/lineinput/internal/cli"
)

var commands = map[string]func(args []string){
	"version": versionCmd,
	"repl":    cli.RunReplCommand,
	"keys":    cli.RunKeysCommand,
}

func versionCmd([]string) {
	fmt.Println("lineinput", version)
}
