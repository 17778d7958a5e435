package main

import (
	"context"
	"log"

	"github.com/shopmesh/shopmesh/internal/app/payment"
)

func main() {
	if err := payment.Run(context.Background()); err != nil {
		log.Fatalf("payment service failed: %v", err)
	}
}
