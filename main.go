package main

import (
	"os"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
