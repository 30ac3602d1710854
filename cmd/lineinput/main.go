package main

import (
	"flag"
	"fmt"
	"os"
)

const version = "0.1.0"

func printHelp() {
	fmt.Print(`lineinput is a demo of the lineinput line editor.

Usage: lineinput [global options] <subcommand> [args]

Available commands:
  help     Show this help output
  version  Show the current version
  repl     Read and echo statements with editing, history and completion
  keys     Show how key presses decode
`)
}

func main() {
	flag.Usage = printHelp
	flagHelp := flag.Bool("help", false, "Show help")
	flag.Parse()

	args := flag.Args()

	if *flagHelp || len(args) == 0 || args[0] == "help" {
		printHelp()
		os.Exit(0)
	}

	if cmd, ok := commands[args[0]]; ok {
		cmd(args[1:])
		os.Exit(0)
	}

	fmt.Fprintln(os.Stderr, "Unknown command: ", args[0])
	printHelp()
	os.Exit(1)
}
