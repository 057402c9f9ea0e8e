package main

import (
	"log"

	"github.com/Nasirkc/smart-bookmark/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ bookmarkd failed to start: %v", err)
	}
}
