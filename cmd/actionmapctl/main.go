// Command actionmapctl administers the action mapping store out of band:
// seeding, clearing and validating the table the server reads.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "actionmapctl: %v\n", err)
		os.Exit(1)
	}
}
