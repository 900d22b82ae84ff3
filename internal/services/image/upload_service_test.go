package image

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/noven-dev/image-vault/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadService(store *fakeStore, provider *fakeProvider) *UploadService {
	return NewUploadService(store, provider, "http://localhost:8080", 5*time.Second, 5*time.Second)
}

func TestUpload_Success(t *testing.T) {
	store := newFakeStore()
	provider := newFakeProvider()
	svc := newUploadService(store, provider)

	result, err := svc.Upload(context.Background(), UploadParams{
		Data:             strings.NewReader("fake png bytes"),
		Size:             14,
		OriginalFilename: "Cat.PNG",
		Title:            "my cat",
		RawTags:          `[{"label":"Cute Cats","color":"#ff0000"}]`,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.ImageID)
	assert.Equal(t, "http://localhost:8080/api/images/file/"+result.ImageID+".png", result.FileURL)

	record, err := store.Get(context.Background(), result.ImageID)
	require.NoError(t, err)
	assert.Equal(t, "my cat", record.Title)
	assert.Equal(t, int64(14), record.FileSize)
	assert.Equal(t, "Cat.PNG", record.OriginalFilename)
	assert.False(t, record.UploadDate.IsZero())
	assert.Nil(t, record.ModificationDate, "new records carry no modification date")
	require.Len(t, record.Tags, 1)
	assert.Equal(t, "cute-cats", record.Tags[0].ID)

	// 资源存储里的标识符是 imageId 加上小写扩展名
	exists, err := provider.Exists(context.Background(), result.ImageID+".png")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpload_TitleDefaultsToFilename(t *testing.T) {
	store := newFakeStore()
	svc := newUploadService(store, newFakeProvider())

	result, err := svc.Upload(context.Background(), UploadParams{
		Data:             strings.NewReader("data"),
		Size:             4,
		OriginalFilename: "holiday.jpg",
	})
	require.NoError(t, err)

	record, err := store.Get(context.Background(), result.ImageID)
	require.NoError(t, err)
	assert.Equal(t, "holiday.jpg", record.Title)
}

func TestUpload_NoFile(t *testing.T) {
	store := newFakeStore()
	provider := newFakeProvider()
	svc := newUploadService(store, provider)

	_, err := svc.Upload(context.Background(), UploadParams{Size: 0})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "NO_FILE", apperr.CodeOf(err))

	// 校验失败不得产生任何写入
	assert.Zero(t, store.count())
	assert.Zero(t, provider.count())
}

func TestUpload_InvalidTags(t *testing.T) {
	store := newFakeStore()
	provider := newFakeProvider()
	svc := newUploadService(store, provider)

	cases := []string{
		`{"label":"not an array"}`,
		`[{"label":""}]`,
		`[{"label":"   "}]`,
		`not json at all`,
	}
	for _, raw := range cases {
		_, err := svc.Upload(context.Background(), UploadParams{
			Data:             strings.NewReader("data"),
			Size:             4,
			OriginalFilename: "a.png",
			RawTags:          raw,
		})
		require.Error(t, err, "raw tags: %s", raw)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "INVALID_TAG_FORMAT", apperr.CodeOf(err))
	}

	assert.Zero(t, store.count())
	assert.Zero(t, provider.count())
}

func TestUpload_StorageFailure_NoMetadataWrite(t *testing.T) {
	store := newFakeStore()
	provider := newFakeProvider()
	provider.saveErr = errors.New("disk full")
	svc := newUploadService(store, provider)

	_, err := svc.Upload(context.Background(), UploadParams{
		Data:             strings.NewReader("data"),
		Size:             4,
		OriginalFilename: "a.png",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, "UPLOAD_FAILED", apperr.CodeOf(err))

	// 资源保存失败时绝不写元数据
	assert.Zero(t, store.count())
}

func TestUpload_MetadataFailure_NoRollback(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("backend down")
	provider := newFakeProvider()
	svc := newUploadService(store, provider)

	_, err := svc.Upload(context.Background(), UploadParams{
		Data:             strings.NewReader("data"),
		Size:             4,
		OriginalFilename: "a.png",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, "META_SAVE_FAILED", apperr.CodeOf(err))

	// 已写入的资源不回滚，孤儿留给带外对账
	assert.Equal(t, 1, provider.count())
}

func TestParseTags_Empty(t *testing.T) {
	tags, err := ParseTags("")
	require.NoError(t, err)
	assert.Nil(t, tags)

	tags, err = ParseTags("   ")
	require.NoError(t, err)
	assert.Nil(t, tags)
}

func TestParseTags_DerivesIDs(t *testing.T) {
	tags, err := ParseTags(`[{"label":"  Summer   Trip  ","color":"#00ff00"},{"label":"Pets"}]`)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "summer-trip", tags[0].ID)
	assert.Equal(t, "#00ff00", tags[0].Color)
	assert.Equal(t, "pets", tags[1].ID)
}
