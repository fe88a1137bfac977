package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-headervalue/cmd/hvp/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
