package main

import (
	"log"

	"leavemgmt/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		log.Fatal(err)
	}
}
