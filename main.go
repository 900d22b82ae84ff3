package main

import (
	"log"

	"github.com/noven-dev/image-vault/cmd"
	"github.com/noven-dev/image-vault/config"
)

func main() {
	log.Printf("image vault %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
