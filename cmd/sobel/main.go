package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

type command interface {
	Name() string
	Help() string
	Run(context.Context) error
	Register(*flag.FlagSet)
}

type app struct {
	args     []string
	commands []command
}

func (a *app) run(ctx context.Context) int {
	cmdName, args := parseArgs(a.args)
	if cmdName == "" {
		a.printUsage()
		return errorExitCode
	}

	for _, cmd := range a.commands {
		if cmd.Name() != cmdName {
			continue
		}
		flags := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		cmd.Register(flags)
		if err := flags.Parse(args); err != nil {
			return errorExitCode
		}
		if err := cmd.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Command failed: %v\n", err)
			return errorExitCode
		}
		return successExitCode
	}
	fmt.Fprintf(os.Stderr, "Unknown command: %v\n", cmdName)
	a.printUsage()
	return errorExitCode
}

const (
	successExitCode = 0
	errorExitCode   = 1
)

var commands = []command{&runCommand{}, &probeCommand{}}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := app{
		args:     os.Args,
		commands: commands,
	}
	code := a.run(ctx)
	stop()
	os.Exit(code)
}

func parseArgs(args []string) (string, []string) {
	if len(args) < 2 {
		return "", nil
	}
	return args[1], args[2:]
}

func (a *app) printUsage() {
	fmt.Println("Sobel detects edges in video frames with a pool of workers")
	fmt.Println()
	fmt.Println("Usage: sobel <command>")
	fmt.Println()
	fmt.Println("Commands:")
	for _, cmd := range a.commands {
		fmt.Printf("\t%s\t%s\n", cmd.Name(), cmd.Help())
	}
}
