package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wouldrather/internal/config"
	"wouldrather/internal/model"
	"wouldrather/internal/repository"
)

// The full prompt text is stored; the two options are split for display at
// presentation time.
var prompts = []string{
	"Would you rather always know when someone is lying, or always get away with lying?",
	"Would you rather have one great adventure every year, or small pleasant surprises every day?",
	"Would you rather understand every book you read, or master one book completely?",
	"Would you rather have your mistakes corrected instantly, or learn from them the hard way?",
	"Would you rather lose something important to you, or gain something that changes who you are?",
	"Would you rather speak up for the truth and cause conflict, or keep the peace by staying silent?",
	"Would you rather grow slowly and comfortably, or quickly and painfully?",
	"Would you rather be successful in everyone's eyes, or faithful to your own values?",
	"Would you rather always walk a safe path, or an unknown one with confidence?",
	"Would you rather say a hard truth, or stay quiet to spare someone's feelings?",
	"Would you rather show your weaknesses to your friends, or only your strengths?",
	"Would you rather have one person who truly knows you, or many who look up to you?",
	"Would you rather be asked to do something hard now, or later when you feel ready?",
	"Would you rather give up on a dream, or fight for it with no guarantee?",
	"Would you rather think it through first, or act immediately?",
	"Would you rather listen in silence, or ask a lot of questions?",
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewQuestionRepo(client.Database(cfg.MongoDatabase))

	if err := repo.DeleteAll(ctx); err != nil {
		log.Fatalf("Failed to clear questions: %v", err)
	}
	log.Println("Cleared existing questions")

	questions := make([]model.Question, len(prompts))
	for i, p := range prompts {
		questions[i] = model.Question{Text: p}
	}

	if err := repo.InsertMany(ctx, questions); err != nil {
		log.Fatalf("Failed to insert questions: %v", err)
	}

	fmt.Printf("Seeded %d questions\n", len(questions))
}
