package main

import (
	"os"

	"github.com/confprop/confprop/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
