// Package main provides a CLI tool for listing, inspecting, and deleting saved loadouts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/ironclad/internal/config"
	"github.com/cory-johannsen/ironclad/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	action := flag.String("action", "list", "action: list, show, or delete")
	profileFlag := flag.String("profile", "", "target profile UUID (required for show and delete)")
	flag.Parse()

	var profile uuid.UUID
	switch *action {
	case "list":
	case "show", "delete":
		if *profileFlag == "" {
			flag.Usage()
			os.Exit(1)
		}
		id, err := uuid.Parse(*profileFlag)
		if err != nil {
			log.Fatalf("invalid profile %q: %v", *profileFlag, err)
		}
		profile = id
	default:
		log.Fatalf("invalid action %q: must be one of list, show, delete", *action)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := storage.Open(ctx, cfg.Storage, cfg.Database)
	if err != nil {
		log.Fatalf("opening %s storage: %v", cfg.Storage.Driver, err)
	}
	defer backend.Close()
	if err := backend.Health(ctx); err != nil {
		log.Fatalf("%s storage unavailable: %v", cfg.Storage.Driver, err)
	}

	switch *action {
	case "list":
		profiles, err := backend.Profiles(ctx)
		if err != nil {
			log.Fatalf("listing profiles: %v", err)
		}
		for _, p := range profiles {
			fmt.Fprintln(os.Stdout, p)
		}
		fmt.Fprintf(os.Stdout, "%d profile(s) in %s storage [%s]\n", len(profiles), cfg.Storage.Driver, time.Since(start))
	case "show":
		rec, found, err := backend.ForProfile(profile).Load(ctx)
		if err != nil {
			log.Fatalf("loading profile %s: %v", profile, err)
		}
		if !found {
			log.Fatalf("profile %s has no saved loadout", profile)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			log.Fatalf("encoding loadout: %v", err)
		}
	case "delete":
		if err := backend.ForProfile(profile).Delete(ctx); err != nil {
			log.Fatalf("deleting profile %s: %v", profile, err)
		}
		fmt.Fprintf(os.Stdout, "deleted loadout of %s [%s]\n", profile, time.Since(start))
	}
}
