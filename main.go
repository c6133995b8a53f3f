package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"tasnim.dev/instance-scheduler/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	rootCmd.SetArgs(cmd.DefaultArgs(os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
