package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spicedrama/ordering-system/internal/core/domain"
)

const (
	ordersCollection      = "orders"
	orderEventsCollection = "order_events"
)

// OrderRepository persists orders and their status audit trail in MongoDB.
type OrderRepository struct {
	orders *mongo.Collection
	events *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		orders: db.Collection(ordersCollection),
		events: db.Collection(orderEventsCollection),
	}
}

type mongoOrder struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty"`
	Items     []domain.OrderItem     `bson:"items"`
	Amount    float64                `bson:"amount"`
	Status    string                 `bson:"status"`
	Address   domain.DeliveryAddress `bson:"address"`
	PlacedBy  string                 `bson:"placed_by,omitempty"`
	CreatedAt int64                  `bson:"created_at"`
	UpdatedAt int64                  `bson:"updated_at"`
}

func (mo *mongoOrder) toDomain() *domain.Order {
	return &domain.Order{
		ID:        mo.ID.Hex(),
		Items:     mo.Items,
		Amount:    mo.Amount,
		Status:    domain.OrderStatus(mo.Status),
		Address:   mo.Address,
		PlacedBy:  mo.PlacedBy,
		CreatedAt: unixToTime(mo.CreatedAt),
		UpdatedAt: unixToTime(mo.UpdatedAt),
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	doc := mongoOrder{
		Items:     order.Items,
		Amount:    order.Amount,
		Status:    string(order.Status),
		Address:   order.Address,
		PlacedBy:  order.PlacedBy,
		CreatedAt: order.CreatedAt.Unix(),
		UpdatedAt: order.UpdatedAt.Unix(),
	}

	res, err := r.orders.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *order
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var mo mongoOrder
	if err := r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return mo.toDomain(), nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	cur, err := r.orders.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Order
	for cur.Next(ctx) {
		var mo mongoOrder
		if err := cur.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		out = append(out, mo.toDomain())
	}
	return out, cur.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var mo mongoOrder
	err = r.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC().Unix()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return mo.toDomain(), nil
}

type mongoOrderEvent struct {
	OrderID   string `bson:"order_id"`
	Status    string `bson:"status"`
	Actor     string `bson:"actor,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

// InsertEvent appends a status change to the audit trail.
func (r *OrderRepository) InsertEvent(ctx context.Context, event *domain.OrderEvent) error {
	doc := mongoOrderEvent{
		OrderID:   event.OrderID,
		Status:    string(event.Status),
		Actor:     event.Actor,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.events.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}
	return nil
}
