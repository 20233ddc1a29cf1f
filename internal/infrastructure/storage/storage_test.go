package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalog-backend/internal/config"
	"catalog-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeFromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"a.png", "image/png"},
		{"a.gif", "image/gif"},
		{"a.webp", "image/webp"},
		{"a.bmp", "image/jpeg"},
		{"noext", "image/jpeg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContentTypeFromExtension(tt.filename), tt.filename)
	}
}

func TestProductKeyAndLocalURL(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	assert.Equal(t, "products/11111111-1111-1111-1111-111111111111/a.jpg", ProductKey(id, "a.jpg"))
	assert.Equal(t, "/images/products/11111111-1111-1111-1111-111111111111/a.jpg", LocalURL(id, "a.jpg"))
}

func TestGenerateFilename_KeepsExtension(t *testing.T) {
	name := GenerateFilename("Photo.PNG")
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotEqual(t, name, GenerateFilename("Photo.PNG"))
	assert.True(t, strings.HasSuffix(GenerateFilename("blob"), ".jpg"))
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStorage(root)

	url, err := s.Put(ctx, "products/p1/a.jpg", []byte("data"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/images/products/p1/a.jpg", url)
	assert.FileExists(t, filepath.Join(root, "products", "p1", "a.jpg"))

	got, err := s.Get(ctx, "products/p1/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	require.NoError(t, s.Delete(ctx, "products/p1/a.jpg"))
	_, err = s.Get(ctx, "products/p1/a.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, "products/p1/a.jpg"))
}

func TestLocalStorage_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStorage(root)

	_, err := s.Put(ctx, "products/p1/a.jpg", []byte("a"), "")
	require.NoError(t, err)
	_, err = s.Put(ctx, "products/p2/b.jpg", []byte("b"), "")
	require.NoError(t, err)

	require.NoError(t, s.DeletePrefix(ctx, "products/p1/"))

	_, err = os.Stat(filepath.Join(root, "products", "p1"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(root, "products", "p2", "b.jpg"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	_, err := s.Put(context.Background(), "../outside.jpg", []byte("x"), "")
	assert.Error(t, err)
}

type fakeBackend struct{ kind string }

func (f fakeBackend) Put(context.Context, string, []byte, string) (string, error) { return "", nil }
func (f fakeBackend) Get(context.Context, string) ([]byte, error)                 { return nil, nil }
func (f fakeBackend) Delete(context.Context, string) error                        { return nil }
func (f fakeBackend) DeletePrefix(context.Context, string) error                  { return nil }
func (f fakeBackend) Kind() string                                                { return f.kind }

func TestBackends_Primary(t *testing.T) {
	local := NewLocalStorage(t.TempDir())

	assert.Equal(t, KindLocal, Backends{Local: local}.Primary().Kind())
	assert.Equal(t, KindLocal, Backends{Local: local, PreferRemote: true}.Primary().Kind())
	assert.Equal(t, KindLocal, Backends{Local: local, Remote: fakeBackend{KindS3}}.Primary().Kind())
	assert.Equal(t, KindS3, Backends{Local: local, Remote: fakeBackend{KindS3}, PreferRemote: true}.Primary().Kind())
}

func TestObjectBaseURL(t *testing.T) {
	aws := config.S3Config{Endpoint: "s3.amazonaws.com", Bucket: "catalog", Region: "eu-west-1"}
	assert.Equal(t, "https://catalog.s3.eu-west-1.amazonaws.com", objectBaseURL(aws, "https"))

	minio := config.S3Config{Endpoint: "localhost:9000", Bucket: "catalog"}
	assert.Equal(t, "http://localhost:9000/catalog", objectBaseURL(minio, "http"))

	cdn := config.S3Config{Endpoint: "s3.amazonaws.com", Bucket: "catalog", PublicURL: "https://cdn.example.com/"}
	assert.Equal(t, "https://cdn.example.com", objectBaseURL(cdn, "https"))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestImageProcessor_ValidateImage(t *testing.T) {
	p := NewImageProcessor(1 << 20)
	valid := pngBytes(t, 4, 4)

	format, err := p.ValidateImage(valid, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, err = p.ValidateImage(nil, "image/png")
	assert.True(t, apperr.IsValidation(err))

	_, err = p.ValidateImage(valid, "application/pdf")
	assert.True(t, apperr.IsValidation(err))

	_, err = p.ValidateImage(valid, "")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "file must be an image", err.Error())

	_, err = p.ValidateImage([]byte("definitely not an image"), "image/jpeg")
	assert.True(t, apperr.IsValidation(err))

	small := NewImageProcessor(10)
	_, err = small.ValidateImage(valid, "image/png")
	assert.True(t, apperr.IsValidation(err))
}

func TestImageProcessor_Resize(t *testing.T) {
	p := NewImageProcessor(0)
	src := pngBytes(t, 40, 20)

	out, contentType, err := p.Resize(src, 10)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 5, cfg.Height)

	same, _, err := p.Resize(src, 100)
	require.NoError(t, err)
	assert.Equal(t, src, same)

	_, _, err = p.Resize(src, 0)
	assert.True(t, apperr.IsValidation(err))
	_, _, err = p.Resize(src, MaxResizeWidth+1)
	assert.True(t, apperr.IsValidation(err))
}
