package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

// CommentRepository implements ports.CommentRepository using MongoDB.
type CommentRepository struct {
	col *mongo.Collection
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

type commentDoc struct {
	UserID    int64     `bson:"userId"`
	PostID    int64     `bson:"postId"`
	Content   string    `bson:"contentComment"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Upsert writes the comment in a single conditional update. When two upserts
// for a new pair race, the unique (userId, postId) index fails the loser with
// a duplicate key error; retrying it once matches the winner's document and
// overwrites its content.
func (r *CommentRepository) Upsert(ctx context.Context, userID, postID int64, content string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"userId": userID, "postId": postID}
	update := bson.M{
		"$set":         bson.M{"contentComment": content, "updatedAt": at},
		"$setOnInsert": bson.M{"createdAt": at},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.col.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		_, err = r.col.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return fmt.Errorf("upsert comment: %w", err)
	}
	return nil
}

// Delete removes the comment for the pair, reporting whether one existed.
func (r *CommentRepository) Delete(ctx context.Context, userID, postID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"userId": userID, "postId": postID})
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ListByUser returns the user's comments in creation order.
func (r *CommentRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	comments := make([]domain.Comment, 0, len(docs))
	for _, d := range docs {
		comments = append(comments, domain.Comment{
			UserID:    d.UserID,
			PostID:    d.PostID,
			Content:   d.Content,
			CreatedAt: d.CreatedAt.UTC(),
			UpdatedAt: d.UpdatedAt.UTC(),
		})
	}
	return comments, nil
}
