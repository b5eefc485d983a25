package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
)

const (
	KB = 1024
	MB = 1024 * KB
)

// Rules restrict what a multipart field may carry. Allowed maps a sniffed
// MIME type to the extension the stored blob gets.
type Rules struct {
	MaxSize int64
	Allowed map[string]string
}

var imageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

var (
	AvatarImage  = Rules{MaxSize: 2 * MB, Allowed: imageTypes}
	CoverImage   = Rules{MaxSize: 4 * MB, Allowed: imageTypes}
	GalleryPhoto = Rules{MaxSize: 4 * MB, Allowed: imageTypes}
)

var Audio = Rules{MaxSize: 20 * MB, Allowed: map[string]string{
	"audio/mpeg":      "mp3",
	"audio/wave":      "wav",
	"audio/wav":       "wav",
	"audio/x-wav":     "wav",
	"audio/ogg":       "ogg",
	"application/ogg": "ogg",
}}

// File is a fully read, type-checked upload.
type File struct {
	OriginalName string
	ContentType  string
	Extension    string
	Size         int64
	Data         []byte
}

// Read loads fileHeader into memory after checking size and sniffed MIME type.
func Read(fileHeader *multipart.FileHeader, rules Rules) (*File, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if rules.MaxSize > 0 && fileHeader.Size > rules.MaxSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	limit := fileHeader.Size
	if rules.MaxSize > 0 {
		limit = rules.MaxSize
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Check(fileHeader.Filename, data, rules)
}

// Check applies rules to bytes that are already in memory.
func Check(name string, data []byte, rules Rules) (*File, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if rules.MaxSize > 0 && int64(len(data)) > rules.MaxSize {
		return nil, ErrFileTooLarge
	}

	mimeType, ext, ok := sniff(data, rules.Allowed)
	if !ok {
		return nil, ErrInvalidMimeType
	}

	return &File{
		OriginalName: name,
		ContentType:  mimeType,
		Extension:    ext,
		Size:         int64(len(data)),
		Data:         data,
	}, nil
}

// sniff walks the detected type and its parents (application/ogg for an
// Ogg Vorbis stream) until one is allowed. Aliases such as audio/x-wav
// match through MIME.Is.
func sniff(data []byte, allowed map[string]string) (string, string, bool) {
	candidates := make([]string, 0, len(allowed))
	for k := range allowed {
		candidates = append(candidates, k)
	}
	sort.Strings(candidates)

	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		mimeType := strings.Split(m.String(), ";")[0] // strip charset params
		if ext, ok := allowed[mimeType]; ok {
			return mimeType, ext, true
		}
		for _, c := range candidates {
			if m.Is(c) {
				return c, allowed[c], true
			}
		}
	}
	return "", "", false
}
