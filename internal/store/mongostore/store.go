// Package mongostore backs a dashboard with a MongoDB collection. The
// filter expression maps onto Mongo query operators; contains becomes a
// case-insensitive regex.
package mongostore

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faciam-dev/listdash/pkg/columns"
	"github.com/faciam-dev/listdash/pkg/store"
)

type Store struct {
	DB *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{DB: db}
}

func (s *Store) Fetch(ctx context.Context, q store.ReadQuery) ([]store.Record, error) {
	filter := expressionFilter(q.Expression)
	opts := options.Find()
	if q.TopCount > 0 {
		opts.SetLimit(int64(q.TopCount))
	}
	cur, err := s.DB.Collection(q.Collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer cur.Close(ctx)
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out := make([]store.Record, len(docs))
	for i, d := range docs {
		delete(d, "_id")
		out[i] = store.Record(d)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, collection string, payload store.Record) (store.Record, error) {
	doc := bson.M{}
	for k, v := range payload {
		doc[k] = v
	}
	if doc[columns.FieldID] == nil || doc[columns.FieldID] == "" {
		doc[columns.FieldID] = primitive.NewObjectID().Hex()
	}
	if _, err := s.DB.Collection(collection).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	delete(doc, "_id")
	return store.Record(doc), nil
}

func (s *Store) Update(ctx context.Context, collection string, id any, payload store.Record) (store.Record, error) {
	set := bson.M{}
	for k, v := range payload {
		if k == columns.FieldID {
			continue
		}
		set[k] = v
	}
	res, err := s.DB.Collection(collection).UpdateOne(ctx, bson.M{columns.FieldID: id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, store.ErrNotFound
	}
	set[columns.FieldID] = id
	return store.Record(set), nil
}

func (s *Store) Delete(ctx context.Context, collection string, id any) error {
	res, err := s.DB.Collection(collection).DeleteOne(ctx, bson.M{columns.FieldID: id})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func expressionFilter(expr store.Expression) bson.M {
	if len(expr) == 0 {
		return bson.M{}
	}
	groups := make([]bson.M, 0, len(expr))
	for _, g := range expr {
		if len(g.Clauses) == 0 {
			continue
		}
		docs := make([]bson.M, 0, len(g.Clauses))
		for _, c := range g.Clauses {
			docs = append(docs, clauseDoc(c))
		}
		if g.Condition == store.Or {
			groups = append(groups, bson.M{"$or": docs})
		} else {
			groups = append(groups, bson.M{"$and": docs})
		}
	}
	switch len(groups) {
	case 0:
		return bson.M{}
	case 1:
		return groups[0]
	}
	return bson.M{"$and": groups}
}

func clauseDoc(c store.Clause) bson.M {
	switch c.Operator {
	case store.OpContains:
		return bson.M{c.Key: bson.M{"$regex": regexp.QuoteMeta(fmt.Sprint(c.Value)), "$options": "i"}}
	case store.OpNe:
		return bson.M{c.Key: bson.M{"$ne": c.Value}}
	case store.OpGt:
		return bson.M{c.Key: bson.M{"$gt": c.Value}}
	case store.OpLt:
		return bson.M{c.Key: bson.M{"$lt": c.Value}}
	case store.OpGe:
		return bson.M{c.Key: bson.M{"$gte": c.Value}}
	case store.OpLe:
		return bson.M{c.Key: bson.M{"$lte": c.Value}}
	default:
		return bson.M{c.Key: bson.M{"$eq": c.Value}}
	}
}
