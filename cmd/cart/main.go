package main

import (
	"context"
	"log"

	"github.com/shopmesh/shopmesh/internal/app/cart"
)

func main() {
	if err := cart.Run(context.Background()); err != nil {
		log.Fatalf("cart service failed: %v", err)
	}
}
