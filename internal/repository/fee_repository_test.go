package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

func TestFeeRepositoryCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id and version", func(mt *mtest.T) {
		repo := NewFeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		fee := &models.FeeNotice{Title: "Semester tuition", Amount: 45000}
		require.NoError(mt, repo.Create(context.Background(), fee))
		assert.False(mt, fee.ID.IsZero())
		assert.Equal(mt, int64(1), fee.Version)
		assert.NotNil(mt, fee.Payments)
	})
}

func TestFeeRepositoryListCountsAndPages(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns total and page", func(mt *mtest.T) {
		repo := NewFeeRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.fee_notices", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
			mtest.CreateCursorResponse(0, "test.fee_notices", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "Library"}},
			),
		)

		fees, total, err := repo.List(context.Background(), models.FeeFilter{Course: "B.Tech", PageRequest: models.PageRequest{Page: 2, Limit: 10}})
		require.NoError(mt, err)
		assert.Equal(mt, int64(12), total)
		require.Len(mt, fees, 1)
		assert.Equal(mt, "Library", fees[0].Title)
	})
}

func TestFeeRepositoryUpdateStale(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stale version", func(mt *mtest.T) {
		repo := NewFeeRepository(mt.DB)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}},
			mtest.CreateCursorResponse(0, "test.fee_notices", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		fee := &models.FeeNotice{ID: primitive.NewObjectID(), Version: 2}
		err := repo.Update(context.Background(), fee)
		assert.True(mt, errors.Is(err, appErrors.ErrStaleWrite))
		assert.Equal(mt, int64(2), fee.Version)
	})
}

func TestFeeRepositoryCollectedBetween(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mt.Run("sums completed payments", func(mt *mtest.T) {
		repo := NewFeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.fee_notices", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "total", Value: 125000.5}},
		))

		total, err := repo.CollectedBetween(context.Background(), from, to)
		require.NoError(mt, err)
		assert.Equal(mt, 125000.5, total)
	})

	mt.Run("no payments", func(mt *mtest.T) {
		repo := NewFeeRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.fee_notices", mtest.FirstBatch))

		total, err := repo.CollectedBetween(context.Background(), from, to)
		require.NoError(mt, err)
		assert.Zero(mt, total)
	})
}
