package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marquee/internal/catalog"
	"marquee/internal/matching"
	"marquee/internal/merge"
	"marquee/internal/title"
)

const (
	collectionName = "titles"
	connectTimeout = 10 * time.Second
)

// Store persists titles in a MongoDB collection.
type Store struct {
	client *mongo.Client
	col    *mongo.Collection
	now    func() time.Time
}

// Open connects to uri, verifies the connection, and ensures indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	store := &Store{
		client: client,
		col:    client.Database(database).Collection(collectionName),
		now:    time.Now,
	}
	if err := store.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

func indexModels() []mongo.IndexModel {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "updatedAt", Value: 1}}},
		{Keys: bson.D{{Key: "nameKeys", Value: 1}, {Key: "year", Value: 1}}},
		{Keys: bson.D{{Key: "searchText", Value: "text"}}, Options: options.Index().SetDefaultLanguage("none")},
	}
	for _, src := range title.Sources {
		field := "externalIds." + string(src)
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{field: bson.M{"$exists": true}}),
		})
	}
	return models
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.col.Indexes().CreateMany(ctx, indexModels()); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// GetByID fetches a title by identifier. A missing title yields nil, nil.
func (s *Store) GetByID(ctx context.Context, id string) (*title.Title, error) {
	return s.findOne(ctx, bson.M{"_id": id}, nil)
}

func (s *Store) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*title.Title, error) {
	var doc titleDoc
	err := s.col.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	return doc.toTitle(), nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*title.Title, error) {
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*title.Title
	for cur.Next(ctx) {
		var doc titleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toTitle())
	}
	return out, cur.Err()
}

// UpsertByMatch creates fields as a new title when nothing matches, or merges
// fields into the first matching title of the same visibility. A non-empty
// fields.ID pins the target document.
func (s *Store) UpsertByMatch(ctx context.Context, preds []matching.Predicate, fields *title.Title) (*title.Title, error) {
	if fields == nil {
		return nil, errors.New("upsert title: nil title")
	}
	visibility := fields.Visibility
	if visibility == "" {
		visibility = title.VisibilityPlaceholder
	}

	existing, err := s.findMatch(ctx, fields.ID, visibility, matching.Exact(preds))
	if err != nil {
		return nil, fmt.Errorf("upsert title: %w", err)
	}
	now := s.now().UTC()
	var next *title.Title
	if existing == nil {
		if fields.ID != "" {
			return nil, fmt.Errorf("upsert title: %w: %s", catalog.ErrNotFound, fields.ID)
		}
		next = fields.Clone()
		next.ID = uuid.NewString()
		next.Visibility = visibility
		next.CreatedAt = now
		next.UpdatedAt = now
	} else {
		next = merge.Merge(existing, fields.Result(), now)
	}
	next.Normalize()
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("upsert title: %w", err)
	}

	doc := toDoc(next)
	if existing == nil {
		_, err = s.col.InsertOne(ctx, doc)
	} else {
		_, err = s.col.ReplaceOne(ctx, bson.M{"_id": next.ID}, doc)
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("upsert title: %w: %v", catalog.ErrConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert title: %w", err)
	}
	return next, nil
}

func (s *Store) findMatch(ctx context.Context, id string, visibility title.Visibility, preds []matching.Predicate) (*title.Title, error) {
	if id != "" {
		return s.GetByID(ctx, id)
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	for _, p := range preds {
		filter, ok := predicateFilter(p, visibility)
		if !ok {
			continue
		}
		t, err := s.findOne(ctx, filter, opts)
		if err != nil {
			return nil, fmt.Errorf("match %s: %w", p, err)
		}
		if t != nil {
			return t, nil
		}
	}
	return nil, nil
}

// FindPublicMatching returns public titles satisfying any predicate, exact
// hits first, then text hits by score and year descending.
func (s *Store) FindPublicMatching(ctx context.Context, preds []matching.Predicate) ([]*title.Title, error) {
	var (
		out  []*title.Title
		seen = make(map[string]struct{})
	)
	for _, p := range preds {
		filter, ok := predicateFilter(p, title.VisibilityPublic)
		if !ok {
			continue
		}
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
		if p.Kind == matching.KindFuzzy {
			opts = options.Find().
				SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
				SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}, {Key: "year", Value: -1}}).
				SetLimit(catalog.DefaultFuzzyLimit)
		}
		titles, err := s.find(ctx, filter, opts)
		if err != nil {
			return nil, fmt.Errorf("find public matching %s: %w", p.Kind, err)
		}
		for _, t := range titles {
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
			out = append(out, t)
		}
	}
	return out, nil
}

// FindStalePublic returns public titles due for a metadata refresh.
func (s *Store) FindStalePublic(ctx context.Context, olderThan time.Time) ([]*title.Title, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}, {Key: "_id", Value: 1}})
	titles, err := s.find(ctx, staleFilter(olderThan), opts)
	if err != nil {
		return nil, fmt.Errorf("find stale titles: %w", err)
	}
	return titles, nil
}

// FindPlaceholders returns every placeholder, oldest update first.
func (s *Store) FindPlaceholders(ctx context.Context) ([]*title.Title, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}, {Key: "_id", Value: 1}})
	titles, err := s.find(ctx, bson.M{"visibility": string(title.VisibilityPlaceholder)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find placeholders: %w", err)
	}
	return titles, nil
}

// SetMergeCandidates replaces a placeholder's candidate list and bumps its
// update time.
func (s *Store) SetMergeCandidates(ctx context.Context, id string, candidates []title.MergeCandidate) error {
	docs := make([]candidateDoc, 0, len(candidates))
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("merge candidate %d: %w", i, err)
		}
		docs = append(docs, toCandidateDoc(c))
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "visibility": string(title.VisibilityPlaceholder)},
		bson.M{"$set": bson.M{"mergeCandidates": docs, "updatedAt": s.now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set merge candidates: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("set merge candidates: %w: no placeholder %s", catalog.ErrNotFound, id)
	}
	return nil
}

// Count returns the number of titles grouped by visibility.
func (s *Store) Count(ctx context.Context) (map[title.Visibility]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$visibility"}, {Key: "n", Value: bson.M{"$sum": 1}}}}},
	}
	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count titles: %w", err)
	}
	defer cur.Close(ctx)

	counts := make(map[title.Visibility]int)
	for cur.Next(ctx) {
		var row struct {
			Visibility string `bson:"_id"`
			N          int    `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[title.Visibility(row.Visibility)] = row.N
	}
	return counts, cur.Err()
}

// DeletePlaceholders removes the given placeholders, leaving public titles.
func (s *Store) DeletePlaceholders(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.col.DeleteMany(ctx, bson.M{
		"_id":        bson.M{"$in": ids},
		"visibility": string(title.VisibilityPlaceholder),
	})
	if err != nil {
		return 0, fmt.Errorf("delete placeholders: %w", err)
	}
	return res.DeletedCount, nil
}
