package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
)

// ThumbnailSize pairs a max dimension with a JPEG quality
type ThumbnailSize struct {
	Name    string
	MaxDim  int
	Quality int
}

var (
	// ThumbGrid is the gallery grid size
	ThumbGrid = ThumbnailSize{Name: "grid", MaxDim: 400, Quality: 80}
	// ThumbDisplay is the lightbox display size
	ThumbDisplay = ThumbnailSize{Name: "display", MaxDim: 1600, Quality: 85}
)

// ThumbnailResult contains the generated thumbnail paths and the source
// dimensions after orientation correction
type ThumbnailResult struct {
	GridPath    string
	DisplayPath string
	Width       int
	Height      int
}

// ThumbnailService renders resized JPEG derivatives next to the original,
// in a .thumbs directory under the same Year/Month folder
type ThumbnailService struct {
	basePath string
}

// NewThumbnailService creates a new ThumbnailService
func NewThumbnailService(basePath string) *ThumbnailService {
	return &ThumbnailService{basePath: basePath}
}

// Generate decodes the image, corrects EXIF orientation and writes the grid
// and display derivatives. storedPath is the original's relative path.
func (s *ThumbnailService) Generate(imageData []byte, photoID, storedPath string, orientation int) (*ThumbnailResult, error) {
	var img image.Image
	var err error

	if isHEIC(storedPath) {
		img, err = goheif.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("failed to decode HEIC image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
	}

	img = applyOrientation(img, orientation)
	bounds := img.Bounds()

	thumbDir := filepath.Join(filepath.Dir(filepath.FromSlash(storedPath)), ".thumbs")
	if err := os.MkdirAll(filepath.Join(s.basePath, thumbDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	result := &ThumbnailResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}

	if result.GridPath, err = s.render(img, photoID, thumbDir, ThumbGrid); err != nil {
		return nil, err
	}
	if result.DisplayPath, err = s.render(img, photoID, thumbDir, ThumbDisplay); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *ThumbnailService) render(img image.Image, photoID, thumbDir string, size ThumbnailSize) (string, error) {
	// Fit never upscales and keeps aspect ratio.
	resized := imaging.Fit(img, size.MaxDim, size.MaxDim, imaging.Lanczos)

	relativePath := filepath.Join(thumbDir, fmt.Sprintf("%s_%s.jpg", photoID, size.Name))
	fullPath := filepath.Join(s.basePath, relativePath)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s thumbnail: %w", size.Name, err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: size.Quality}); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to encode %s thumbnail: %w", size.Name, err)
	}

	return strings.ReplaceAll(relativePath, string(os.PathSeparator), "/"), nil
}

// Delete removes a photo's derivatives, ignoring missing files
func (s *ThumbnailService) Delete(paths ...string) {
	for _, p := range paths {
		if p != "" {
			os.Remove(filepath.Join(s.basePath, filepath.FromSlash(p)))
		}
	}
}

// applyOrientation normalizes an image according to its EXIF orientation tag
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Rotate270(imaging.FlipH(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Rotate90(imaging.FlipH(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func isHEIC(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".heic" || ext == ".heif"
}
