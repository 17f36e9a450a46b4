// Command admin provides operator utilities: schema migrations, seeding,
// aggregate repair and development tokens.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newRootCmd(loadConfig, os.Stdout).Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
