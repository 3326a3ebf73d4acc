package docstore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/angelmondragon/biowe-backend/internal/catalog"
)

// BlogRepository implements catalog.BlogRepository on Firestore.
type BlogRepository struct {
	client *firestore.Client
}

func (r *BlogRepository) coll() *firestore.CollectionRef {
	return r.client.Collection(postsCollection)
}

func (r *BlogRepository) ListPosts(ctx context.Context) ([]catalog.BlogPost, error) {
	q := r.coll().OrderBy("date", firestore.Desc)
	return collect(q.Documents(ctx), decodePost)
}

func (r *BlogRepository) GetPost(ctx context.Context, id string) (*catalog.BlogPost, error) {
	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	post, err := decodePost(snap)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *BlogRepository) GetPostBySlug(ctx context.Context, slug string) (*catalog.BlogPost, error) {
	posts, err := collect(r.coll().Where("slug", "==", slug).Limit(1).Documents(ctx), decodePost)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, catalog.ErrNotFound
	}
	return &posts[0], nil
}

// SavePost writes the post inside a transaction that rejects a slug held by
// another document.
func (r *BlogRepository) SavePost(ctx context.Context, post *catalog.BlogPost) error {
	ref := r.coll().Doc(post.ID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		holders, err := tx.Documents(r.coll().Where("slug", "==", post.Slug).Limit(2)).GetAll()
		if err != nil {
			return err
		}
		for _, holder := range holders {
			if holder.Ref.ID != post.ID {
				return catalog.ErrSlugTaken
			}
		}
		return tx.Set(ref, newPostDoc(post))
	})
}

func (r *BlogRepository) DeletePost(ctx context.Context, id string) error {
	_, err := r.coll().Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return catalog.ErrNotFound
	}
	return err
}

func decodePost(snap *firestore.DocumentSnapshot) (catalog.BlogPost, error) {
	var doc postDoc
	if err := snap.DataTo(&doc); err != nil {
		return catalog.BlogPost{}, err
	}
	return doc.toDomain(snap.Ref.ID), nil
}
