// Command videoscribe turns a video into a timestamped transcript with
// metadata by sending it, segment by segment, to a multimodal model.
//
//	videoscribe analyze -i talk.mp4 --title "Keynote" -o keynote.json
//	videoscribe serve
//	videoscribe version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	apperrors "github.com/kbukum/videoscribe/errors"
	"github.com/kbukum/videoscribe/version"
)

const usage = `usage: videoscribe <command> [flags]

commands:
  analyze   analyse a video file and write the merged transcript as JSON
  serve     start the HTTP API
  version   print build information

run "videoscribe <command> -h" for command flags`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch args[0] {
	case "analyze":
		err = runAnalyze(ctx, args[1:])
	case "serve":
		err = runServe(ctx, args[1:])
	case "version":
		fmt.Println(version.GetVersionInfo().String())
	case "-h", "--help", "help":
		fmt.Fprintln(os.Stdout, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", args[0], usage)
		return 2
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "interrupted")
		return 130
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeConfiguration {
		return 3
	}
	return 1
}
