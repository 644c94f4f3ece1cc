package main

import (
	"context"
	"log"

	"github.com/adiwjy/go-procurement-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("procurement api exited: %v", err)
	}
}
