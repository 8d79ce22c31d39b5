package main

import (
	"log"

	"github.com/seeker-agent/seeker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
