/*
 *  main.go
 *  cmd
 *
 *  Copyright © 2026 MAmotif authors. All rights reserved.
 */

package main

import (
	"log"

	"github.com/op/go-logging"
	"github.com/shao-lab/mamotif"
)

// main is the entrypoint for the entire program, routes to commands
func main() {
	logging.SetBackend(mamotif.BackendFormatter)
	err := mamotif.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
