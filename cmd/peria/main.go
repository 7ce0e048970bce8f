// Command peria is the exhibition engine's entrypoint: a cobra root
// command wiring the compositor, the external surface store, and the
// per-output drivers together, plus a verify-config subcommand for
// checking a configuration file without starting anything.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
