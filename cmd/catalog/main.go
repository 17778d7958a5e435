package main

import (
	"context"
	"log"

	"github.com/shopmesh/shopmesh/internal/app/catalog"
)

func main() {
	if err := catalog.Run(context.Background()); err != nil {
		log.Fatalf("catalog service failed: %v", err)
	}
}
