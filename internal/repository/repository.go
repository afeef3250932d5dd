package repository

import (
	"context"
	"errors"
	"time"

	"quickcart/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("historial de pedido no encontrado")

// Mongo implementation
type MongoHistoryRepository struct {
	col *mongo.Collection
}

func NewMongoHistoryRepository(db *mongo.Database) *MongoHistoryRepository {
	return &MongoHistoryRepository{col: db.Collection("order_status_history")}
}

// Init crea el historial con su primer registro. Si ya existe no hace nada.
func (m *MongoHistoryRepository) Init(ctx context.Context, orderID, phone string, first model.StatusRecord) error {
	now := time.Now().UTC()
	first.Current = true
	if first.Timestamp.IsZero() {
		first.Timestamp = now
	}

	doc := model.StatusHistory{
		OrderID:   orderID,
		Phone:     phone,
		Status:    first.Status,
		History:   []model.StatusRecord{first},
		CreatedAt: now,
		UpdatedAt: now,
	}

	filter := bson.M{"order_id": orderID}
	update := bson.M{"$setOnInsert": doc}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoHistoryRepository) FindByOrderID(ctx context.Context, orderID string) (*model.StatusHistory, error) {
	var res model.StatusHistory
	err := m.col.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Append agrega un registro y lo marca como actual. Si el pedido no tenía
// historial (p. ej. creado antes de desplegar el servicio) lo crea.
func (m *MongoHistoryRepository) Append(ctx context.Context, orderID string, record model.StatusRecord) error {
	record.Current = true

	// PASO 1: desmarcar el actual
	filter := bson.M{
		"order_id":        orderID,
		"history.current": true,
	}
	update1 := bson.M{
		"$set": bson.M{
			"history.$.current": false,
		},
	}
	if _, err := m.col.UpdateOne(ctx, filter, update1); err != nil {
		return err
	}

	// PASO 2: actualizar estado + pushear nuevo registro
	filter2 := bson.M{"order_id": orderID}
	now := time.Now().UTC()
	update2 := bson.M{
		"$set": bson.M{
			"status":     record.Status,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
		"$push": bson.M{
			"history": record,
		},
	}
	_, err := m.col.UpdateOne(ctx, filter2, update2, options.Update().SetUpsert(true))
	return err
}
