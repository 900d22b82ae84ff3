package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) Store {
	t.Helper()
	store, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func sampleRecord(imageID string) *Record {
	return &Record{
		ImageID:          imageID,
		Title:            "sample",
		UploadDate:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		FileSize:         1234,
		FileType:         "image/png",
		OriginalFilename: "sample.png",
		FileURL:          "http://localhost:8080/api/images/file/" + imageID + ".png",
		Tags:             []Tag{NewTag("Sample", "#abcdef")},
	}
}

func TestBadgerStore_PutGet(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleRecord("img1")))

	record, err := store.Get(ctx, "img1")
	require.NoError(t, err)
	assert.Equal(t, "img1", record.ImageID)
	assert.Equal(t, "sample", record.Title)
	assert.Nil(t, record.ModificationDate)
	require.Len(t, record.Tags, 1)
	assert.Equal(t, "sample", record.Tags[0].ID)
}

func TestBadgerStore_PutOverwrites(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleRecord("img1")))

	updated := sampleRecord("img1")
	updated.Title = "replaced"
	require.NoError(t, store.Put(ctx, updated))

	record, err := store.Get(ctx, "img1")
	require.NoError(t, err)
	assert.Equal(t, "replaced", record.Title)
}

func TestBadgerStore_GetMissing(t *testing.T) {
	store := newTestBadgerStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_UpdateFields(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, sampleRecord("img1")))

	updated, err := store.UpdateFields(ctx, "img1", map[string]interface{}{
		"title":       "new title",
		"description": "added later",
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "added later", updated.Description)
	require.NotNil(t, updated.ModificationDate)

	// 写回生效
	record, err := store.Get(ctx, "img1")
	require.NoError(t, err)
	assert.Equal(t, "new title", record.Title)
	require.NotNil(t, record.ModificationDate)
}

func TestBadgerStore_UpdateFields_Missing(t *testing.T) {
	store := newTestBadgerStore(t)

	_, err := store.UpdateFields(context.Background(), "missing", map[string]interface{}{
		"title": "x",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_UpdateFields_Locked(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()

	locked := sampleRecord("img1")
	locked.LockFile = true
	require.NoError(t, store.Put(ctx, locked))

	_, err := store.UpdateFields(ctx, "img1", map[string]interface{}{"title": "x"})
	assert.ErrorIs(t, err, ErrLocked)

	// 锁拒绝后记录原样保留
	record, err := store.Get(ctx, "img1")
	require.NoError(t, err)
	assert.Equal(t, "sample", record.Title)
	assert.Nil(t, record.ModificationDate)
}

func TestBadgerStore_UpdateFields_RejectsUnknownField(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, sampleRecord("img1")))

	_, err := store.UpdateFields(ctx, "img1", map[string]interface{}{"fileSize": int64(1)})
	assert.Error(t, err)
}

func TestBadgerStore_DeleteIdempotent(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, sampleRecord("img1")))

	require.NoError(t, store.Delete(ctx, "img1"))
	_, err := store.Get(ctx, "img1")
	assert.ErrorIs(t, err, ErrNotFound)

	// 重复删除与删除未知键都不报错
	assert.NoError(t, store.Delete(ctx, "img1"))
	assert.NoError(t, store.Delete(ctx, "never-existed"))
}

func TestBadgerStore_ScanAll(t *testing.T) {
	store := newTestBadgerStore(t)
	ctx := context.Background()

	records, err := store.ScanAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Put(ctx, sampleRecord(id)))
	}

	records, err = store.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	seen := make(map[string]bool, 3)
	for _, record := range records {
		seen[record.ImageID] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, seen)
}

func TestBadgerStore_Ping(t *testing.T) {
	store := newTestBadgerStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(context.Background()))
}
