package main

import (
	"context"
	"log"

	"github.com/shopmesh/shopmesh/internal/app/notification"
)

func main() {
	if err := notification.Run(context.Background()); err != nil {
		log.Fatalf("notification service failed: %v", err)
	}
}
