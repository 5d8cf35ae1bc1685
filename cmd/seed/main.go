package main

import (
	"brandquiz/internal/catalog"
	"brandquiz/internal/repository"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	_ = godotenv.Load()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	database := os.Getenv("MONGO_DATABASE")
	if database == "" {
		database = "brandquiz"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	questions := catalog.DefaultQuestions()
	if err := catalog.NewQuestionSet(questions).Validate(catalog.Default()); err != nil {
		log.Fatalf("Built-in question bank is invalid: %v", err)
	}

	repo := repository.NewQuestionRepo(client.Database(database))
	if err := repo.Replace(ctx, questions); err != nil {
		log.Fatalf("Failed to seed questions: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count questions: %v", err)
	}

	fmt.Printf("Successfully seeded %d questions into %s.%s\n", count, database, repository.QuestionsCollection)
}
