package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

type PostRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		col: db.Collection(collectionPosts),
		ids: newSequence(db, collectionPosts),
	}
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PostID    int64              `bson:"postId"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Like      int                `bson:"like"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d postDoc) toDomain() domain.Post {
	return domain.Post{
		ID:        d.PostID,
		Title:     d.Title,
		Content:   d.Content,
		Like:      d.Like,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// Create inserts a new post under the next postId.
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := postDoc{
		PostID:    id,
		Title:     post.Title,
		Content:   post.Content,
		Like:      post.Like,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *post
	created.ID = id
	return &created, nil
}

// List returns all posts sorted by postId descending.
func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "postId", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// FindByID retrieves a post by its postId.
func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"postId": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	post := doc.toDomain()
	return &post, nil
}

// FindByIDs retrieves the posts whose postId is in ids.
func (r *PostRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Post, error) {
	out := make(map[int64]domain.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	posts, err := r.find(ctx, bson.M{"postId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PostRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.Post, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toDomain())
	}
	return posts, nil
}
