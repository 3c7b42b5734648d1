// Package main provides the densenet CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const version = "v0.1.0"

const usage = `densenet - data-parallel dense network trainer

Usage:
  densenet <command> [flags]

Commands:
  train      Train a network and save it
  check      Compare back-propagated and numeric input gradients
  montage    Write PNG montages of an MNIST training set
  info       Show CPU features and the default worker count
  version    Show version
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, command string, args []string, stdout io.Writer) error {
	switch command {
	case "train":
		return runTrain(ctx, args, stdout)
	case "check":
		return runCheck(args, stdout)
	case "montage":
		return runMontage(args)
	case "info":
		return runInfo(stdout)
	case "version":
		_, err := fmt.Fprintf(stdout, "densenet %s\n", version)
		return err
	case "help", "-h", "--help":
		_, err := fmt.Fprint(stdout, usage)
		return err
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
}
