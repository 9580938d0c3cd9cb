// Command main runs the database seeder for the Liquid Glass Map API.
package main

import (
	"flag"
	"log"

	"glassmap/internal/config"
	"glassmap/internal/database"
	"glassmap/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numSpots := flag.Int("spots", 100, "Number of spots to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d spots, clean=%v\n", *numUsers, *numSpots, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(database.DB, seed.Options{
		NumUsers:    *numUsers,
		NumSpots:    *numSpots,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All seeded users have the password: password123")
}
