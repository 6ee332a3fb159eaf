package services

import (
	"context"
	"strings"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/observability"
	"github.com/studiostorm/server/internal/repository"
)

// AlbumService manages albums and their slugs. Sub-album slugs are prefixed
// with the parent slug ("atletiek/bk-veldlopen-2025") so nested albums stay
// addressable by a single path segment chain.
type AlbumService struct {
	albumRepo repository.AlbumRepo
	photoRepo repository.PhotoRepo
}

// NewAlbumService creates a new AlbumService
func NewAlbumService(albumRepo repository.AlbumRepo, photoRepo repository.PhotoRepo) *AlbumService {
	return &AlbumService{albumRepo: albumRepo, photoRepo: photoRepo}
}

// Create makes a new album. An empty slug is derived from the name; a
// sub-album derives its slug under the parent's.
func (s *AlbumService) Create(ctx context.Context, req models.CreateAlbumRequest) (*models.Album, error) {
	album, err := models.NewAlbum(req.Name, "")
	if err != nil {
		return nil, err
	}
	album.Description = req.Description
	album.CoverPhotoID = req.CoverPhotoID

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = models.SanitizeSlug(req.Name)
	} else {
		slug = models.SanitizeSlug(slug)
	}

	if req.ParentID != nil {
		parent, err := s.albumRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, models.ErrAlbumParentMissing
		}
		album.ParentID = req.ParentID
		slug = parent.Slug + "/" + slug
	}

	taken, err := s.albumRepo.SlugExists(ctx, slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrAlbumSlugExists
	}
	album.Slug = slug

	if err := s.albumRepo.Add(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// GetAll returns every album
func (s *AlbumService) GetAll(ctx context.Context) ([]*models.Album, error) {
	return s.albumRepo.GetAll(ctx)
}

// GetTopLevel returns albums without a parent
func (s *AlbumService) GetTopLevel(ctx context.Context) ([]*models.Album, error) {
	return s.albumRepo.GetTopLevel(ctx)
}

// GetByID returns one album or ErrAlbumNotFound
func (s *AlbumService) GetByID(ctx context.Context, id int64) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, models.ErrAlbumNotFound
	}
	return album, nil
}

// GetBySlug resolves a (possibly nested) slug to an album with its photos
// and sub-albums.
func (s *AlbumService) GetBySlug(ctx context.Context, slug string) (*models.Album, []*models.Photo, []*models.Album, error) {
	ctx, span := observability.StartServiceSpan(ctx, "album", "get_by_slug")
	defer span.End()
	span.SetAttributes(observability.AlbumSlug(slug))

	album, photos, children, err := s.getBySlug(ctx, slug)
	if err != nil {
		observability.RecordError(span, err)
		return nil, nil, nil, err
	}
	observability.SetSuccess(span)
	return album, photos, children, nil
}

func (s *AlbumService) getBySlug(ctx context.Context, slug string) (*models.Album, []*models.Photo, []*models.Album, error) {
	album, err := s.albumRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, nil, err
	}
	if album == nil {
		return nil, nil, nil, models.ErrAlbumNotFound
	}

	photos, err := s.photoRepo.GetByAlbum(ctx, album.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	children, err := s.albumRepo.GetChildren(ctx, album.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	return album, photos, children, nil
}

// Update applies an admin album update. Changing the slug of a parent does
// not rewrite child slugs; children keep the path they were created under.
func (s *AlbumService) Update(ctx context.Context, id int64, req models.UpdateAlbumRequest) (*models.Album, error) {
	album, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, models.ErrAlbumNameRequired
		}
		album.Name = name
	}
	if req.Slug != nil {
		slug := models.SanitizeSlug(*req.Slug)
		if album.ParentID != nil {
			parent, err := s.albumRepo.GetByID(ctx, *album.ParentID)
			if err != nil {
				return nil, err
			}
			if parent != nil {
				slug = parent.Slug + "/" + slug
			}
		}
		if slug != album.Slug {
			taken, err := s.albumRepo.SlugExists(ctx, slug, album.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, models.ErrAlbumSlugExists
			}
			album.Slug = slug
		}
	}
	if req.Description != nil {
		album.Description = *req.Description
	}
	if req.CoverPhotoID != nil {
		album.CoverPhotoID = req.CoverPhotoID
	}

	if err := s.albumRepo.Update(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// Delete removes an album. Photos keep their album reference cleared by the
// caller; sub-albums of a deleted parent become unreachable by slug walk
// but stay listed.
func (s *AlbumService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.albumRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.ErrAlbumNotFound
	}
	return nil
}

// RefreshPhotoCount recomputes the cached photo count for an album
func (s *AlbumService) RefreshPhotoCount(ctx context.Context, id int64) error {
	album, err := s.albumRepo.GetByID(ctx, id)
	if err != nil || album == nil {
		return err
	}

	photos, err := s.photoRepo.GetByAlbum(ctx, id)
	if err != nil {
		return err
	}

	album.PhotoCount = len(photos)
	return s.albumRepo.Update(ctx, album)
}
