package main

import (
	"context"
	"os"

	"innosistemas/api/internal/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
