package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/studiostorm/server/internal/models"
)

// In-memory repository fakes. They guard every operation with a mutex so the
// concurrency tests exercise the services against a linearizable store, the
// same guarantee the SQL layer provides.

type fakePhotoRepo struct {
	mu     sync.Mutex
	photos map[int64]*models.Photo
	nextID int64
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: make(map[int64]*models.Photo), nextID: 1}
}

func (r *fakePhotoRepo) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePhotoRepo) GetAll(ctx context.Context) ([]*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Photo, 0, len(r.photos))
	for _, p := range r.photos {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakePhotoRepo) GetFeatured(ctx context.Context) ([]*models.Photo, error) {
	all, _ := r.GetAll(ctx)
	out := all[:0]
	for _, p := range all {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePhotoRepo) GetByAlbum(ctx context.Context, albumID int64) ([]*models.Photo, error) {
	all, _ := r.GetAll(ctx)
	out := all[:0]
	for _, p := range all {
		if p.AlbumID != nil && *p.AlbumID == albumID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePhotoRepo) Add(ctx context.Context, photo *models.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if photo.ID == 0 {
		photo.ID = r.nextID
		r.nextID++
	}
	copied := *photo
	r.photos[photo.ID] = &copied
	return nil
}

func (r *fakePhotoRepo) Update(ctx context.Context, photo *models.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *photo
	r.photos[photo.ID] = &copied
	return nil
}

func (r *fakePhotoRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.photos[id]
	delete(r.photos, id)
	return ok, nil
}

func (r *fakePhotoRepo) AdjustLikes(ctx context.Context, id int64, delta int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok {
		return false, nil
	}
	p.Likes += delta
	if p.Likes < 0 {
		p.Likes = 0
	}
	return true, nil
}

func (r *fakePhotoRepo) SetLikes(ctx context.Context, id int64, likes int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.photos[id]; ok {
		p.Likes = likes
	}
	return nil
}

type fakeGalleryRepo struct {
	mu        sync.Mutex
	galleries map[string]*models.ClientGallery // by ID
	// failAdjust simulates a positional update whose counter row has
	// disappeared between membership check and write
	failAdjust bool
}

func newFakeGalleryRepo() *fakeGalleryRepo {
	return &fakeGalleryRepo{galleries: make(map[string]*models.ClientGallery)}
}

func (r *fakeGalleryRepo) Add(ctx context.Context, gallery *models.ClientGallery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *gallery
	copied.Photos = append([]models.GalleryPhoto(nil), gallery.Photos...)
	r.galleries[gallery.ID] = &copied
	return nil
}

func (r *fakeGalleryRepo) GetByID(ctx context.Context, id string) (*models.ClientGallery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.galleries[id]
	if !ok {
		return nil, nil
	}
	return copyGallery(g), nil
}

func (r *fakeGalleryRepo) GetByToken(ctx context.Context, token string) (*models.ClientGallery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.byTokenLocked(token)
	if g == nil {
		return nil, nil
	}
	return copyGallery(g), nil
}

func (r *fakeGalleryRepo) GetAll(ctx context.Context) ([]*models.ClientGallery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.ClientGallery, 0, len(r.galleries))
	for _, g := range r.galleries {
		out = append(out, copyGallery(g))
	}
	return out, nil
}

func (r *fakeGalleryRepo) GetAssignedToUser(ctx context.Context, userID string) ([]*models.ClientGallery, error) {
	all, _ := r.GetAll(ctx)
	out := all[:0]
	for _, g := range all {
		if g.IsAssignedTo(userID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGalleryRepo) Update(ctx context.Context, gallery *models.ClientGallery) error {
	return r.Add(ctx, gallery)
}

func (r *fakeGalleryRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.galleries[id]
	delete(r.galleries, id)
	return ok, nil
}

func (r *fakeGalleryRepo) AppendPhoto(ctx context.Context, galleryID string, photo *models.GalleryPhoto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.galleries[galleryID]
	if !ok {
		return fmt.Errorf("gallery %s not found", galleryID)
	}
	g.Photos = append(g.Photos, *photo)
	return nil
}

func (r *fakeGalleryRepo) AdjustPhotoLikes(ctx context.Context, token, photoID string, delta int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdjust {
		return false, nil
	}
	g := r.byTokenLocked(token)
	if g == nil {
		return false, nil
	}
	idx := findPhoto(g, photoID)
	if idx < 0 {
		return false, nil
	}
	g.Photos[idx].Likes += delta
	if g.Photos[idx].Likes < 0 {
		g.Photos[idx].Likes = 0
	}
	return true, nil
}

func (r *fakeGalleryRepo) GetPhoto(ctx context.Context, token, photoID string) (*models.GalleryPhoto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.byTokenLocked(token)
	if g == nil {
		return nil, nil
	}
	idx := findPhoto(g, photoID)
	if idx < 0 {
		return nil, nil
	}
	copied := g.Photos[idx]
	return &copied, nil
}

func (r *fakeGalleryRepo) PhotoInGallery(ctx context.Context, token, photoID string) (bool, error) {
	p, err := r.GetPhoto(ctx, token, photoID)
	return p != nil, err
}

func (r *fakeGalleryRepo) SetPhotoLikes(ctx context.Context, token, photoID string, likes int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.byTokenLocked(token)
	if g == nil {
		return nil
	}
	if idx := findPhoto(g, photoID); idx >= 0 {
		g.Photos[idx].Likes = likes
	}
	return nil
}

func (r *fakeGalleryRepo) byTokenLocked(token string) *models.ClientGallery {
	for _, g := range r.galleries {
		if g.Token == token {
			return g
		}
	}
	return nil
}

// findPhoto mirrors the store's canonical-then-raw id matching
func findPhoto(g *models.ClientGallery, photoID string) int {
	canonical := models.CanonicalPhotoID(photoID)
	for i := range g.Photos {
		if models.CanonicalPhotoID(g.Photos[i].ID) == canonical {
			return i
		}
	}
	for i := range g.Photos {
		if g.Photos[i].ID == photoID {
			return i
		}
	}
	return -1
}

func copyGallery(g *models.ClientGallery) *models.ClientGallery {
	copied := *g
	copied.Photos = append([]models.GalleryPhoto(nil), g.Photos...)
	return &copied
}

type fakeLikeRepo struct {
	mu      sync.Mutex
	records map[string]time.Time
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{records: make(map[string]time.Time)}
}

func likeKey(photoID int64, visitor models.VisitorID) string {
	return fmt.Sprintf("%d|%s", photoID, visitor)
}

func (r *fakeLikeRepo) Insert(ctx context.Context, photoID int64, visitor models.VisitorID, likedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey(photoID, visitor)
	if _, ok := r.records[key]; ok {
		return false, nil
	}
	r.records[key] = likedAt
	return true, nil
}

func (r *fakeLikeRepo) Delete(ctx context.Context, photoID int64, visitor models.VisitorID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey(photoID, visitor)
	_, ok := r.records[key]
	delete(r.records, key)
	return ok, nil
}

func (r *fakeLikeRepo) Exists(ctx context.Context, photoID int64, visitor models.VisitorID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[likeKey(photoID, visitor)]
	return ok, nil
}

func (r *fakeLikeRepo) CountForPhoto(ctx context.Context, photoID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := fmt.Sprintf("%d|", photoID)
	var n int64
	for key := range r.records {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			n++
		}
	}
	return n, nil
}

type fakeGalleryLikeRepo struct {
	mu      sync.Mutex
	records map[string]time.Time
}

func newFakeGalleryLikeRepo() *fakeGalleryLikeRepo {
	return &fakeGalleryLikeRepo{records: make(map[string]time.Time)}
}

func galleryLikeKey(token, photoID string, visitor models.VisitorID) string {
	return fmt.Sprintf("%s|%s|%s", token, models.CanonicalPhotoID(photoID), visitor)
}

func (r *fakeGalleryLikeRepo) Insert(ctx context.Context, token, photoID string, visitor models.VisitorID, likedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := galleryLikeKey(token, photoID, visitor)
	if _, ok := r.records[key]; ok {
		return false, nil
	}
	r.records[key] = likedAt
	return true, nil
}

func (r *fakeGalleryLikeRepo) Delete(ctx context.Context, token, photoID string, visitor models.VisitorID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := galleryLikeKey(token, photoID, visitor)
	_, ok := r.records[key]
	delete(r.records, key)
	return ok, nil
}

func (r *fakeGalleryLikeRepo) Exists(ctx context.Context, token, photoID string, visitor models.VisitorID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[galleryLikeKey(token, photoID, visitor)]
	return ok, nil
}

func (r *fakeGalleryLikeRepo) CountForPhoto(ctx context.Context, token, photoID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := fmt.Sprintf("%s|%s|", token, models.CanonicalPhotoID(photoID))
	var n int64
	for key := range r.records {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Add(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) CountAdmins(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.IsAdmin() {
			n++
		}
	}
	return n, nil
}
