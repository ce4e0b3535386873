package main

import (
	"log"

	"github.com/FaroutYLq/whatsup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
