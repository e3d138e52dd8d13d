package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/models"
)

const ordersCollection = "orders"

// MongoOrderRepository stores one document per order, keyed by _id.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	// Loose documents decode as maps rather than ordered bson.D slices.
	opts := options.Collection().SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	return &MongoOrderRepository{col: db.Collection(ordersCollection, opts)}
}

func (m *MongoOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	_, err := m.col.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.ID)
	}
	if err != nil {
		return fmt.Errorf("insert order %s: %w", order.ID, err)
	}
	return nil
}

func (m *MongoOrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	var res models.Order
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	return &res, nil
}

func (m *MongoOrderRepository) List(ctx context.Context) ([]*models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	out := []*models.Order{}
	for cur.Next(ctx) {
		var v models.Order
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}
