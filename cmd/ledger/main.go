package main

import (
	"os"

	"github.com/mmynk/splitledger/cmd/ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
