// main is the entry point for the coverdelta CLI.
package main

import (
	"os"

	"github.com/huangsam/coverdelta/cmd"
	"github.com/huangsam/coverdelta/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.Logger().Error(err)
		os.Exit(1)
	}
}
