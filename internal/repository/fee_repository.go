package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

const feeNoticesCollection = "fee_notices"

// FeeRepository persists fee notices and their embedded payments.
type FeeRepository struct {
	collection *mongo.Collection
}

// NewFeeRepository constructs a FeeRepository.
func NewFeeRepository(db *mongo.Database) *FeeRepository {
	return &FeeRepository{collection: db.Collection(feeNoticesCollection)}
}

// EnsureIndexes creates cohort, listing and receipt indexes.
func (r *FeeRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "semester", Value: 1}, {Key: "course", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "payments.receiptNumber", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create fee indexes: %w", err)
	}
	return nil
}

// Create inserts a notice with version 1.
func (r *FeeRepository) Create(ctx context.Context, fee *models.FeeNotice) error {
	if fee.ID.IsZero() {
		fee.ID = primitive.NewObjectID()
	}
	if fee.Payments == nil {
		fee.Payments = []models.FeePayment{}
	}
	fee.Version = 1
	if _, err := r.collection.InsertOne(ctx, fee); err != nil {
		return fmt.Errorf("insert fee notice: %w", err)
	}
	return nil
}

// FindByID returns mongo.ErrNoDocuments when the notice does not exist.
func (r *FeeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.FeeNotice, error) {
	var fee models.FeeNotice
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&fee); err != nil {
		return nil, err
	}
	return &fee, nil
}

// List pages through notices, newest first.
func (r *FeeRepository) List(ctx context.Context, filter models.FeeFilter) ([]models.FeeNotice, int64, error) {
	query := feeListFilter(filter)
	page := filter.PageRequest.Normalize()

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count fee notices: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	fees, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return fees, total, nil
}

// ListAll returns every notice matching filter, ignoring paging.
func (r *FeeRepository) ListAll(ctx context.Context, filter models.FeeFilter) ([]models.FeeNotice, error) {
	return r.find(ctx, feeListFilter(filter), options.Find())
}

// ListForCohort returns the active, visible notices addressed to a course and
// semester, earliest due date first.
func (r *FeeRepository) ListForCohort(ctx context.Context, course, semester string) ([]models.FeeNotice, error) {
	query := bson.M{
		"semester":  semester,
		"course":    containsFold(course),
		"status":    models.FeeActive,
		"isVisible": true,
	}
	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}}))
}

func (r *FeeRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.FeeNotice, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find fee notices: %w", err)
	}
	fees := []models.FeeNotice{}
	if err := cursor.All(ctx, &fees); err != nil {
		return nil, fmt.Errorf("decode fee notices: %w", err)
	}
	return fees, nil
}

// Update replaces the notice if its version still matches and bumps the
// version on success.
func (r *FeeRepository) Update(ctx context.Context, fee *models.FeeNotice) error {
	expected := fee.Version
	fee.Version = expected + 1

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": fee.ID, "version": expected}, fee)
	if err != nil {
		fee.Version = expected
		return fmt.Errorf("replace fee notice %s: %w", fee.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		fee.Version = expected
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": fee.ID})
		if err != nil {
			return fmt.Errorf("check fee notice %s: %w", fee.ID.Hex(), err)
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
		return appErrors.ErrStaleWrite
	}
	return nil
}

// CollectedBetween sums completed payment amounts dated in [from, to).
func (r *FeeRepository) CollectedBetween(ctx context.Context, from, to time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$payments"}},
		{{Key: "$match", Value: bson.M{
			"payments.status":      models.PaymentCompleted,
			"payments.paymentDate": bson.M{"$gte": from, "$lt": to},
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$payments.amount"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate collected fees: %w", err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode collected fees: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func feeListFilter(filter models.FeeFilter) bson.M {
	query := bson.M{}
	if filter.Semester != "" {
		query["semester"] = filter.Semester
	}
	if filter.Course != "" {
		query["course"] = containsFold(filter.Course)
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return query
}
