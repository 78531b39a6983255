package main

import (
	"log"

	"socialsync/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		log.Fatalf("Gateway failed: %v", err)
	}
}
