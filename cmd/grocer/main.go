package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/grocer/internal/app"
	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/joho/godotenv"
)

func main() {

	// A missing .env file is fine; GROCER_* variables may come from the shell.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	a, err := app.NewApp(ctx, cfg, os.Stderr, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	if err := a.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Printf("%v", err)
	}

}
