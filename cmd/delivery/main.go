package main

import (
	"context"
	"log"

	"github.com/shopmesh/shopmesh/internal/app/delivery"
)

func main() {
	if err := delivery.Run(context.Background()); err != nil {
		log.Fatalf("delivery service failed: %v", err)
	}
}
