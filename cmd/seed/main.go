// Command seed creates a database with sample users, articles, and resources.
// Usage: go run cmd/seed/main.go [-db path/to/librarium.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/openshelf/librarium/internal/database"
	"github.com/openshelf/librarium/internal/database/articles"
	"github.com/openshelf/librarium/internal/database/engagement"
	"github.com/openshelf/librarium/internal/database/resources"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
	"github.com/openshelf/librarium/internal/imaging"
)

const defaultSeedDatabasePath = "./librarium.db"

func main() {
	dbPath := flag.String("db", defaultSeedDatabasePath, "path to the database file")
	flag.Parse()

	log.Printf("Seeding database at %s...", *dbPath)

	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	usersRepo := users.NewRepository(db.DB)
	articlesRepo := articles.NewRepository(db.DB)
	engagementRepo := engagement.NewRepository(db.DB)
	resourcesRepo := resources.NewRepository(db.DB)

	seedUsers(usersRepo)
	seedArticles(articlesRepo, engagementRepo)
	seedResources(resourcesRepo)

	log.Println("Database seeded successfully!")
}

func seedUsers(repo *users.Repository) {
	sample := []entities.User{
		{UserID: "marcus", DisplayName: "Marcus A.", EmailAddress: "marcus@example.com", Role: entities.UserRoleMember},
		{UserID: "hypatia", DisplayName: "Hypatia", EmailAddress: "hypatia@example.com", Role: entities.UserRoleLibrarian},
		{UserID: "ada", DisplayName: "Ada L.", EmailAddress: "ada@example.com", Role: entities.UserRoleMember},
	}

	for i := range sample {
		if err := repo.Create(&sample[i]); err != nil {
			log.Printf("Failed to create user %s: %v", sample[i].UserID, err)
			continue
		}
		log.Printf("Created user %s (%s)", sample[i].UserID, sample[i].Role)
	}
}

func seedArticles(articlesRepo *articles.Repository, engagementRepo *engagement.Repository) {
	thumbnail, err := imaging.Compress([]byte("placeholder thumbnail bytes"))
	if err != nil {
		log.Fatalf("Failed to compress sample thumbnail: %v", err)
	}

	sample := []entities.Article{
		{
			AuthorID: "marcus",
			Title:    "On Reading Slowly",
			Body:     "A defense of unhurried reading in a hurried age.",
			Image:    thumbnail,
		},
		{
			AuthorID: "ada",
			Title:    "Notes on the Analytical Engine",
			Body:     "An annotated walkthrough of the first published algorithm.",
		},
		{
			AuthorID: "marcus",
			Title:    "Library Etiquette for Beginners",
			Body:     "Where to whisper, where to wander, and when to ask for help.",
		},
	}

	for i := range sample {
		if err := articlesRepo.Save(&sample[i]); err != nil {
			log.Printf("Failed to save article %q: %v", sample[i].Title, err)
			continue
		}
		log.Printf("Saved article: %s by %s", sample[i].Title, sample[i].AuthorID)
	}

	comment := entities.ArticleComment{ArticleID: sample[0].ID, CommenterID: "ada", Body: "Wonderful piece."}
	if err := engagementRepo.CreateComment(&comment); err != nil {
		log.Printf("Failed to create comment: %v", err)
	}

	rating := entities.ArticleRating{ArticleID: sample[0].ID, RaterID: "hypatia", Score: 5}
	if err := engagementRepo.CreateRating(&rating); err != nil {
		log.Printf("Failed to create rating: %v", err)
	}
}

func seedResources(repo *resources.Repository) {
	sample := []entities.Resource{
		{Title: "Meditations", Author: "Marcus Aurelius", ISBN: "9780140449334", Copies: 4},
		{Title: "The Odyssey", Author: "Homer", ISBN: "9780140268867", Copies: 2},
		{Title: "Frankenstein", Author: "Mary Shelley", ISBN: "9780141439471", Copies: 3},
	}

	for i := range sample {
		if err := repo.Create(&sample[i]); err != nil {
			log.Printf("Failed to create resource %q: %v", sample[i].Title, err)
			continue
		}
		log.Printf("Created resource: %s by %s", sample[i].Title, sample[i].Author)
	}
}
