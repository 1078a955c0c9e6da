package main

import (
	"os"

	"rds-igsplit/decision_tree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
