package main

import (
	"fmt"
	"os"

	"flashlingo/internal/api"
	"flashlingo/internal/config"
	"flashlingo/internal/db"
	"flashlingo/internal/gamification"
	redisdb "flashlingo/internal/redis"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	if err := gamification.SeedAchievements(db.DB); err != nil {
		fmt.Fprintf(os.Stderr, "Achievement seed error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)

	r := api.SetupRouter(cfg, rdb)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s\n", addr)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
