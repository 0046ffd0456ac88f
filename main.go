package main

import (
	"context"
	"log"

	"renthub/internal/commands"
)

func main() {
	if err := commands.RootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
