// Package catalog exposes the image catalog the game engine samples from.
// The engine only depends on the Client interface; the default
// implementation reads the images table.
package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"realguess/models"
)

// ErrInsufficientImages means the catalog holds fewer images of the
// requested category than asked for. Callers rely on getting exactly the
// count they requested, so a short sample is an error, never a smaller game.
var ErrInsufficientImages = errors.New("not enough images for requested count")

// Ref is one catalog image: a stable identifier plus an accessible locator
// and its true category.
type Ref struct {
	ID   uint   `json:"id"`
	URL  string `json:"url"`
	Type string `json:"type"` // real, ai
}

type Client interface {
	// Sample returns exactly count distinct images of the given category,
	// drawn at random, or ErrInsufficientImages.
	Sample(ctx context.Context, imageType string, count int) ([]Ref, error)

	// ResolvePaths maps image locators back to catalog refs. Unknown paths
	// are simply absent from the result.
	ResolvePaths(ctx context.Context, paths []string) ([]Ref, error)
}

type dbCatalog struct {
	db *gorm.DB
}

func NewDBCatalog(db *gorm.DB) Client {
	return &dbCatalog{db: db}
}

func (c *dbCatalog) Sample(ctx context.Context, imageType string, count int) ([]Ref, error) {
	if count <= 0 {
		return []Ref{}, nil
	}

	var images []models.Image
	err := c.db.WithContext(ctx).
		Where("type = ?", imageType).
		Order("RANDOM()").
		Limit(count).
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	if len(images) < count {
		return nil, ErrInsufficientImages
	}

	return toRefs(images), nil
}

func (c *dbCatalog) ResolvePaths(ctx context.Context, paths []string) ([]Ref, error) {
	normalized := make([]string, 0, len(paths))
	for _, p := range paths {
		normalized = append(normalized, NormalizePath(p))
	}

	var images []models.Image
	err := c.db.WithContext(ctx).
		Where("path IN ?", normalized).
		Find(&images).Error
	if err != nil {
		return nil, err
	}

	return toRefs(images), nil
}

// NormalizePath strips any serving-route prefix from an image URL so it can
// be matched against the stored catalog path.
func NormalizePath(url string) string {
	if i := strings.LastIndex(url, "admin/"); i >= 0 {
		return url[i+len("admin/"):]
	}
	return url
}

func toRefs(images []models.Image) []Ref {
	refs := make([]Ref, len(images))
	for i, img := range images {
		refs[i] = Ref{ID: img.ID, URL: img.Path, Type: img.Type}
	}
	return refs
}
