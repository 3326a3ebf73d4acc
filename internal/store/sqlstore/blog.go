package sqlstore

import (
	"context"
	"errors"

	"github.com/angelmondragon/biowe-backend/internal/catalog"
	"github.com/angelmondragon/biowe-backend/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	blogSlugConstraint = "blog_posts_slug_key"
	blogSlugColumn     = "blog_posts.slug"
)

// BlogRepository implements catalog.BlogRepository on SQL.
type BlogRepository struct {
	base
}

func (r *BlogRepository) ListPosts(ctx context.Context) ([]catalog.BlogPost, error) {
	var rows []blogPostRow
	if err := r.conn(ctx).Order("date DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.BlogPost, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BlogRepository) GetPost(ctx context.Context, id string) (*catalog.BlogPost, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *BlogRepository) GetPostBySlug(ctx context.Context, slug string) (*catalog.BlogPost, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *BlogRepository) SavePost(ctx context.Context, post *catalog.BlogPost) error {
	row := newBlogPostRow(post)
	err := r.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&row).Error
	if db.IsUniqueViolation(err, blogSlugConstraint) || db.IsUniqueViolation(err, blogSlugColumn) {
		return catalog.ErrSlugTaken
	}
	return err
}

func (r *BlogRepository) DeletePost(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&blogPostRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) first(ctx context.Context, query string, arg string) (*catalog.BlogPost, error) {
	var row blogPostRow
	if err := r.conn(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	post := row.toDomain()
	return &post, nil
}
