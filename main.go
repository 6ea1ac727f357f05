package main

import (
	"context"
	_ "embed"
	"log"
	"os"

	"meteo/cli"
)

//go:embed config.yaml
var configRaw []byte

func main() {
	ctx := context.Background()

	cmd := cli.New(configRaw)
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Printf("meteo: %s\n", err)
		os.Exit(1)
	}
}
