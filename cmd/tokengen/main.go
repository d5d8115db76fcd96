package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"colloquium/backstage/internal/config"
	"colloquium/backstage/internal/db"
	"colloquium/backstage/internal/repository"
	"colloquium/backstage/internal/services"
)

func main() {
	count := flag.Int("n", 1, "number of tokens to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	gormDB, err := db.InitPostgresORM(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}

	tokens := repository.NewTokenRepository(gormDB)
	users := repository.NewUserRepository(gormDB)

	values, err := services.NewTokenService(tokens, users).Issue(context.Background(), *count)
	if err != nil {
		log.Fatalf("issue tokens: %v", err)
	}

	for _, v := range values {
		fmt.Println("New activation token:", v)
	}
}
