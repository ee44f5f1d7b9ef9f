package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/viaflight/layover-planner/internal/database"
)

func main() {
	var pathFlag string
	flag.StringVar(&pathFlag, "local-store", "", "Path to the local store database (overrides LOCAL_STORE_PATH)")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	path := pathFlag
	if path == "" {
		path = os.Getenv("LOCAL_STORE_PATH")
	}
	if path == "" {
		path = "data/local_store.db"
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	store, err := database.OpenLocalStore(path, logger)
	if err != nil {
		log.Fatalf("failed to open local store: %v", err)
	}
	defer store.Close()

	fmt.Printf("Opened local store at %s. Clearing collections...\n", path)

	collections := []string{
		database.CollectionSchedules,
		database.CollectionTripReviews,
		database.CollectionPlaceReviews,
		database.CollectionReviewLikes,
	}

	for _, collection := range collections {
		removed, err := store.Wipe(collection)
		if err != nil {
			log.Fatalf("failed to clear %s: %v", collection, err)
		}
		fmt.Printf("  %s: %d records removed\n", collection, removed)
	}

	fmt.Println("All local data cleared.")
}
