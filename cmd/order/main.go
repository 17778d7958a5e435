package main

import (
	"context"
	"log"

	"github.com/shopmesh/shopmesh/internal/app/order"
)

func main() {
	if err := order.Run(context.Background()); err != nil {
		log.Fatalf("order service failed: %v", err)
	}
}
