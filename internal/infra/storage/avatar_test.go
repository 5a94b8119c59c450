package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbarber "github.com/BruksfildServices01/barbershop-booking/internal/domain/barber"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = b
	f.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestPutStoresSquareWebp(t *testing.T) {
	api := newFakeS3()
	store := NewS3AvatarStore(api, "avatars-bucket", "eu-west-1", "")

	url, err := store.Put(context.Background(), 7, pngOf(t, 300, 120))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://avatars-bucket.s3.eu-west-1.amazonaws.com/avatars/7/"), url)
	assert.True(t, strings.HasSuffix(url, ".webp"))

	require.Len(t, api.objects, 1)
	for key, body := range api.objects {
		assert.Equal(t, "image/webp", api.types[key])
		cfg, err := webp.DecodeConfig(bytes.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, AvatarSize, cfg.Width)
		assert.Equal(t, AvatarSize, cfg.Height)
	}
}

func TestPutRejectsNonImage(t *testing.T) {
	store := NewS3AvatarStore(newFakeS3(), "b", "r", "https://cdn.example")
	_, err := store.Put(context.Background(), 1, strings.NewReader("definitely not a picture"))
	assert.ErrorIs(t, err, domainbarber.ErrInvalidImageType)
}

func TestRemoveOnlyTouchesOwnObjects(t *testing.T) {
	api := newFakeS3()
	store := NewS3AvatarStore(api, "b", "r", "https://cdn.example/")
	ctx := context.Background()

	url, err := store.Put(ctx, 1, pngOf(t, 10, 10))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example/avatars/1/"))

	require.NoError(t, store.Remove(ctx, "https://elsewhere.example/avatars/1/x.webp"))
	assert.Len(t, api.objects, 1)

	require.NoError(t, store.Remove(ctx, url))
	assert.Empty(t, api.objects)
}

func TestDisabledStore(t *testing.T) {
	_, err := DisabledStore{}.Put(context.Background(), 1, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
