package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/dudk/sobel/ffmpeg"
)

type probeCommand struct {
	in string
}

func (cmd *probeCommand) Name() string {
	return "probe"
}

func (cmd *probeCommand) Help() string {
	return "Show frame size of video file"
}

func (cmd *probeCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.in, "in", "", "input video file (required)")
}

func (cmd *probeCommand) Run(ctx context.Context) error {
	if cmd.in == "" {
		return fmt.Errorf("Missing -in required flag")
	}
	size, err := ffmpeg.Probe(ctx, cmd.in)
	if err != nil {
		return err
	}
	fmt.Printf("%v: %dx%d\n", cmd.in, size.Cols, size.Rows)
	return nil
}
