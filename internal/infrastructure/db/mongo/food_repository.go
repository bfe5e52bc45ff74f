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
	"github.com/spicedrama/ordering-system/internal/core/ports"
)

const foodCollection = "foods"

// FoodRepository persists the food catalog in MongoDB.
type FoodRepository struct {
	coll *mongo.Collection
}

func NewFoodRepository(db *mongo.Database) *FoodRepository {
	return &FoodRepository{coll: db.Collection(foodCollection)}
}

type mongoFood struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	ImageURL    string             `bson:"image_url,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func (mf *mongoFood) toDomain() *domain.FoodItem {
	return &domain.FoodItem{
		ID:          mf.ID.Hex(),
		Name:        mf.Name,
		Description: mf.Description,
		Price:       mf.Price,
		Category:    mf.Category,
		ImageURL:    mf.ImageURL,
		CreatedAt:   unixToTime(mf.CreatedAt),
		UpdatedAt:   unixToTime(mf.UpdatedAt),
	}
}

func (r *FoodRepository) Create(ctx context.Context, item *domain.FoodItem) (*domain.FoodItem, error) {
	doc := mongoFood{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		CreatedAt:   item.CreatedAt.Unix(),
		UpdatedAt:   item.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert food: %w", err)
	}

	created := *item
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *FoodRepository) FindByID(ctx context.Context, id string) (*domain.FoodItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrFoodNotFound
	}

	var mf mongoFood
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mf); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrFoodNotFound
		}
		return nil, fmt.Errorf("find food: %w", err)
	}
	return mf.toDomain(), nil
}

func (r *FoodRepository) List(ctx context.Context) ([]*domain.FoodItem, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list food: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.FoodItem
	for cur.Next(ctx) {
		var mf mongoFood
		if err := cur.Decode(&mf); err != nil {
			return nil, fmt.Errorf("decode food: %w", err)
		}
		out = append(out, mf.toDomain())
	}
	return out, cur.Err()
}

func (r *FoodRepository) Update(ctx context.Context, id string, upd ports.UpdateFoodInput) (*domain.FoodItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrFoodNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.ImageURL != nil {
		set["image_url"] = *upd.ImageURL
	}

	var mf mongoFood
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mf)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrFoodNotFound
		}
		return nil, fmt.Errorf("update food: %w", err)
	}
	return mf.toDomain(), nil
}

func (r *FoodRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrFoodNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFoodNotFound
	}
	return nil
}
