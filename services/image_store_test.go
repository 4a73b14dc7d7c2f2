package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, f.err
}

func TestCheckImage(t *testing.T) {
	data := pngBytes(t)

	contentType, err := CheckImage("photo.PNG", data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, err = CheckImage("photo.png", nil)
	assert.ErrorIs(t, err, errs.ErrBadRequest)

	_, err = CheckImage("notes.txt", data)
	assert.ErrorIs(t, err, errs.ErrBadRequest)

	_, err = CheckImage("fake.jpg", []byte("definitely not an image"))
	assert.ErrorIs(t, err, errs.ErrBadRequest)

	_, err = CheckImage("huge.png", make([]byte, MaxImageSize+1))
	assert.ErrorIs(t, err, errs.ErrMaxBodySizeExceeded)
}

func TestNewImageName(t *testing.T) {
	a := NewImageName("Holiday.JPG")
	b := NewImageName("Holiday.JPG")
	assert.Regexp(t, `^image-\d+-[0-9a-f]{8}\.jpg$`, a)
	assert.NotEqual(t, a, b)
}

func TestLocalImageStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir, "https://api.example.com/")
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := store.Save(ctx, "../escape.png", pngBytes(t), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/escape.png", saved.RelativePath)
	assert.Equal(t, "https://api.example.com/uploads/escape.png", saved.URL)
	assert.FileExists(t, filepath.Join(dir, "escape.png"))

	require.NoError(t, store.Delete(ctx, "https://elsewhere.example.com/uploads/escape.png"))
	assert.FileExists(t, filepath.Join(dir, "escape.png"))

	require.NoError(t, store.Delete(ctx, saved.URL))
	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, store.Delete(ctx, saved.RelativePath))
}

func TestS3ImageStore(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3ImageStore(fake, "portfolio", "https://cdn.example.com/")
	ctx := context.Background()

	saved, err := store.Save(ctx, "image-1.png", pngBytes(t), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/image-1.png", saved.URL)
	assert.Equal(t, "/uploads/image-1.png", saved.RelativePath)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "portfolio", aws.ToString(fake.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.puts[0].ContentType))

	require.NoError(t, store.Delete(ctx, saved.URL))
	require.NoError(t, store.Delete(ctx, "/uploads/image-2.png"))
	require.NoError(t, store.Delete(ctx, "https://other.example.com/x.png"))
	assert.Equal(t, []string{"uploads/image-1.png", "uploads/image-2.png"}, fake.deletes)

	fake.err = errors.New("access denied")
	_, err = store.Save(ctx, "image-3.png", pngBytes(t), "image/png")
	assert.Error(t, err)
	RemoveImage(ctx, store, saved.URL)
}

func TestNewImageStoreFromConfig(t *testing.T) {
	ctx := context.Background()

	store, err := NewImageStoreFromConfig(ctx, map[string]string{"UPLOAD_DIR": t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalImageStore{}, store)

	_, err = NewImageStoreFromConfig(ctx, map[string]string{"UPLOAD_DRIVER": "s3"})
	assert.True(t, errs.IsConfigError(err))

	_, err = NewImageStoreFromConfig(ctx, map[string]string{"UPLOAD_DRIVER": "ftp"})
	assert.True(t, errs.IsConfigError(err))
}
