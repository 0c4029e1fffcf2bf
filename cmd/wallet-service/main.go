package main

import (
	"os"

	"github.com/LavaJover/shvark-wallet-service/cmd/wallet-service/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
