package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/junsooki/asciicam/internal/config"
	"github.com/junsooki/asciicam/internal/control"
	"github.com/junsooki/asciicam/internal/input"
)

const usage = `usage: asciicam-ctl [-url ws://127.0.0.1:7878/control] <command>

commands:
  start | stop | toggle | camera | status | snapshot | clear | quit
  renderer canvas|html|text
  sensitivity <n>|+<n>|-<n>
  resize <width> <height>`

func main() {
	cfg := config.ParseControllerFlags()
	cmd, err := input.ParseCommand(cfg.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asciicam-ctl: %v\n\n%s\n", err, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client := control.NewClient(cfg.URL)
	if err := client.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "asciicam-ctl: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	res, err := client.Do(ctx, cmd)
	var cmdErr *control.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Result != nil {
		res = *cmdErr.Result
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "asciicam-ctl: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
	if err != nil {
		fmt.Fprintf(os.Stderr, "asciicam-ctl: %s failed: %v\n", cmd.Type, err)
		os.Exit(1)
	}
}
