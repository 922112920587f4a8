package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

// MongoOrderRepo keeps each order as one document keyed by orderId.
type MongoOrderRepo struct {
	coll *mongo.Collection
}

func NewMongoOrderRepo(coll *mongo.Collection) *MongoOrderRepo {
	return &MongoOrderRepo{coll: coll}
}

// EnsureSchema creates the unique index on orderId.
func (r *MongoOrderRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uq_orders_order_id"),
	})
	return err
}

func (r *MongoOrderRepo) Create(ctx context.Context, o entity.Order) error {
	if _, err := r.coll.InsertOne(ctx, o); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrDuplicateOrderID
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepo) GetByID(ctx context.Context, orderID string) (entity.Order, error) {
	var o entity.Order
	err := r.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.Order{}, usecase.ErrNotFound
	}
	if err != nil {
		return entity.Order{}, fmt.Errorf("find order: %w", err)
	}
	o.CreatedAt = o.CreatedAt.UTC()
	return o, nil
}

var _ usecase.OrderRepo = (*MongoOrderRepo)(nil)
