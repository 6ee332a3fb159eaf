package services

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/studiostorm/server/internal/models"
)

// ExifData is the subset of EXIF metadata the catalog displays. Capture
// settings are pre-formatted for display ("f/2.8", "1/1000s", "35.0mm").
type ExifData struct {
	CameraMake   string
	CameraModel  string
	Lens         string
	ISO          int
	Aperture     string
	ShutterSpeed string
	FocalLength  string
	DateTaken    *time.Time
	Orientation  int
}

// ExifService extracts display metadata from uploaded images
type ExifService struct{}

// NewExifService creates a new ExifService
func NewExifService() *ExifService {
	return &ExifService{}
}

// Extract reads EXIF data from image bytes. Images without EXIF (or in
// formats the decoder does not understand) yield empty data, not an error.
func (s *ExifService) Extract(data []byte) *ExifData {
	return s.ExtractFromReader(bytes.NewReader(data))
}

// ExtractFromReader reads EXIF data from a reader
func (s *ExifService) ExtractFromReader(r io.Reader) *ExifData {
	result := &ExifData{Orientation: 1}

	x, err := exif.Decode(r)
	if err != nil {
		return result
	}

	result.CameraMake = stringTag(x, exif.Make)
	result.CameraModel = stringTag(x, exif.Model)
	result.Lens = stringTag(x, exif.LensModel)

	if fl, ok := ratTag(x, exif.FocalLength); ok {
		result.FocalLength = fmt.Sprintf("%.1fmm", fl)
	}
	if f, ok := ratTag(x, exif.FNumber); ok {
		result.Aperture = fmt.Sprintf("f/%.1f", f)
	}
	result.ShutterSpeed = shutterSpeed(x)

	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil {
			result.ISO = iso
		}
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil && o >= 1 && o <= 8 {
			result.Orientation = o
		}
	}
	if taken, err := x.DateTime(); err == nil {
		result.DateTaken = &taken
	}

	return result
}

// ApplyTo fills empty metadata fields on a photo. Fields the uploader set
// explicitly are left alone.
func (d *ExifData) ApplyTo(photo *models.Photo) {
	if photo.CameraMake == "" {
		photo.CameraMake = d.CameraMake
	}
	if photo.CameraModel == "" {
		photo.CameraModel = d.CameraModel
	}
	if photo.Lens == "" {
		photo.Lens = d.Lens
	}
	if photo.ISO == 0 {
		photo.ISO = d.ISO
	}
	if photo.Aperture == "" {
		photo.Aperture = d.Aperture
	}
	if photo.ShutterSpeed == "" {
		photo.ShutterSpeed = d.ShutterSpeed
	}
	if photo.FocalLength == "" {
		photo.FocalLength = d.FocalLength
	}
	if photo.DateTaken == "" && d.DateTaken != nil {
		photo.DateTaken = d.DateTaken.Format("2006-01-02")
	}
}

func stringTag(x *exif.Exif, field exif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return ""
	}
	val, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return val
}

func ratTag(x *exif.Exif, field exif.FieldName) (float64, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, false
	}
	rat, err := tag.Rat(0)
	if err != nil || rat.Denom().Int64() == 0 {
		return 0, false
	}
	return float64(rat.Num().Int64()) / float64(rat.Denom().Int64()), true
}

func shutterSpeed(x *exif.Exif) string {
	tag, err := x.Get(exif.ExposureTime)
	if err != nil {
		return ""
	}
	rat, err := tag.Rat(0)
	if err != nil {
		return ""
	}

	return formatShutterSpeed(rat.Num().Int64(), rat.Denom().Int64())
}

func formatShutterSpeed(num, denom int64) string {
	switch {
	case denom == 0:
		return ""
	case denom == 1:
		return fmt.Sprintf("%ds", num)
	case num == 1:
		return fmt.Sprintf("1/%ds", denom)
	default:
		return fmt.Sprintf("%d/%ds", num, denom)
	}
}
