// Command forestsim runs the forest landscape simulator from the command
// line. Grounded on the teacher's cmd/inmap/main.go thin-entrypoint shape.
package main

import (
	"fmt"
	"os"

	"github.com/landscape-sim/forestsim/cliutil"
	"github.com/landscape-sim/forestsim/config"
)

func main() {
	cfg := config.New()
	root, err := cliutil.BuildRoot(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
