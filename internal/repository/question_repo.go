package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"brandquiz/internal/model"
)

// QuestionsCollection holds one document per quiz question
const QuestionsCollection = "questions"

// QuestionRepo handles MongoDB operations for the question bank
type QuestionRepo interface {
	// Load returns every question ordered by its position in the quiz
	Load(ctx context.Context) ([]model.Question, error)
	// Replace swaps the whole bank for questions
	Replace(ctx context.Context, questions []model.Question) error
	Count(ctx context.Context) (int64, error)
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection(QuestionsCollection),
	}
}

func (r *questionRepo) Load(ctx context.Context) ([]model.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) Replace(ctx context.Context, questions []model.Question) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}

	docs := make([]interface{}, len(questions))
	for i, q := range questions {
		q.Order = i
		docs[i] = q
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *questionRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
