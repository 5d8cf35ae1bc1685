package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"brandquiz/internal/model"
)

func questionDoc(id, text string, order int) bson.D {
	return bson.D{
		{Key: "id", Value: id},
		{Key: "text", Value: text},
		{Key: "options", Value: bson.A{
			bson.D{
				{Key: "value", Value: "a"},
				{Key: "text", Value: "Option A"},
				{Key: "description", Value: "first"},
				{Key: "archetypePoints", Value: bson.D{{Key: "Sage", Value: 3}, {Key: "Host", Value: 1}}},
			},
		}},
		{Key: "order", Value: order},
	}
}

func TestQuestionRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("load decodes sorted bank", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + QuestionsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			questionDoc("q1", "First", 0),
			questionDoc("q2", "Second", 1),
		))

		questions, err := NewQuestionRepo(mt.DB).Load(context.Background())
		require.NoError(mt, err)
		require.Len(mt, questions, 2)
		assert.Equal(mt, "q1", questions[0].ID)
		assert.Equal(mt, "Second", questions[1].Text)
		assert.Equal(mt, 1, questions[1].Order)
		assert.Equal(mt, map[string]int{"Sage": 3, "Host": 1}, questions[0].Options[0].ArchetypePoints)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		sort, err := started.Command.LookupErr("sort")
		require.NoError(mt, err)
		assert.Equal(mt, int32(1), sort.Document().Lookup("order").Int32())
	})

	mt.Run("load surfaces server errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		_, err := NewQuestionRepo(mt.DB).Load(context.Background())
		assert.Error(mt, err)
	})

	mt.Run("replace clears then inserts with order", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 5}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
		)

		err := NewQuestionRepo(mt.DB).Replace(context.Background(), []model.Question{
			{ID: "q1", Text: "First"},
			{ID: "q2", Text: "Second"},
		})
		require.NoError(mt, err)

		assert.Equal(mt, "delete", mt.GetStartedEvent().CommandName)
		insert := mt.GetStartedEvent()
		require.NotNil(mt, insert)
		assert.Equal(mt, "insert", insert.CommandName)

		docs, err := insert.Command.LookupErr("documents")
		require.NoError(mt, err)
		values, err := docs.Array().Values()
		require.NoError(mt, err)
		require.Len(mt, values, 2)
		assert.Equal(mt, "q2", values[1].Document().Lookup("id").StringValue())
		assert.Equal(mt, int32(1), values[1].Document().Lookup("order").Int32())
	})

	mt.Run("replace with empty bank only clears", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 12}))

		require.NoError(mt, NewQuestionRepo(mt.DB).Replace(context.Background(), nil))
		assert.Equal(mt, "delete", mt.GetStartedEvent().CommandName)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("count", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + QuestionsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}))

		n, err := NewQuestionRepo(mt.DB).Count(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(12), n)
	})
}
