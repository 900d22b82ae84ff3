package image

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/noven-dev/image-vault/cache"
	"github.com/noven-dev/image-vault/internal/apperr"
	"github.com/noven-dev/image-vault/metadata"
	"golang.org/x/sync/singleflight"
)

// 排序字段
const (
	SortByTitle            = "title"
	SortByUploadDate       = "uploadDate"
	SortByModificationDate = "modificationDate"
	SortByFileSize         = "fileSize"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"

	// DefaultPageLimit 画廊默认分页大小
	DefaultPageLimit = 6
)

var recordGroup singleflight.Group

// ListOptions 画廊查询选项，零值等价于默认视图
type ListOptions struct {
	TagIDs            []string
	IncludeDuplicates bool
	SortBy            string
	SortOrder         string
	Offset            int
	Limit             int
}

// GalleryPage 画廊查询结果
type GalleryPage struct {
	Total  int                `json:"total"`
	Offset int                `json:"offset"`
	Limit  int                `json:"limit"`
	Items  []*metadata.Record `json:"items"`
}

// QueryService 画廊查询服务
// 底层只有无序全量扫描可用，过滤、去重、排序、分页全部在这里完成，
// 结果对相同数据完全确定，与扫描顺序无关
type QueryService struct {
	store       metadata.Store
	cacheHelper *cache.Helper
	metaTimeout time.Duration
}

// NewQueryService 创建查询服务
func NewQueryService(store metadata.Store, cacheHelper *cache.Helper, metaTimeout time.Duration) *QueryService {
	return &QueryService{
		store:       store,
		cacheHelper: cacheHelper,
		metaTimeout: metaTimeout,
	}
}

// ListGallery 获取画廊视图
// 全量扫描没有服务端过滤下推，这是已知的扩展上限而非缺陷
func (s *QueryService) ListGallery(ctx context.Context, opts ListOptions) (*GalleryPage, error) {
	scanCtx, cancel := context.WithTimeout(ctx, s.metaTimeout)
	defer cancel()

	records, err := s.store.ScanAll(scanCtx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "GALLERY_FETCH_FAILED",
			"Failed to fetch gallery", err)
	}

	return BuildGalleryPage(records, opts), nil
}

// GetRecord 按 imageId 获取记录（带缓存和 singleflight）
func (s *QueryService) GetRecord(ctx context.Context, imageID string) (*metadata.Record, error) {
	var cached metadata.Record
	if err := s.cacheHelper.GetCachedRecord(ctx, imageID, &cached); err == nil {
		return &cached, nil
	}

	result, err, _ := recordGroup.Do(imageID, func() (interface{}, error) {
		getCtx, cancel := context.WithTimeout(ctx, s.metaTimeout)
		defer cancel()

		record, err := s.store.Get(getCtx, imageID)
		if err != nil {
			return nil, err
		}

		if cacheErr := s.cacheHelper.CacheRecord(ctx, record); cacheErr != nil {
			log.Printf("Failed to cache record '%s': %v", imageID, cacheErr)
		}
		return record, nil
	})
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "META_NOT_FOUND",
				"Metadata not found for imageId")
		}
		return nil, apperr.Wrap(apperr.KindUpstream, "FETCH_FAILED",
			"Failed to fetch metadata", err)
	}
	return result.(*metadata.Record), nil
}

// normalizeOptions 非法入参替换为默认值
func normalizeOptions(opts ListOptions) ListOptions {
	switch opts.SortBy {
	case SortByTitle, SortByUploadDate, SortByModificationDate, SortByFileSize:
	default:
		opts.SortBy = SortByModificationDate
	}

	switch opts.SortOrder {
	case SortOrderAsc, SortOrderDesc:
	default:
		opts.SortOrder = SortOrderDesc
	}

	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultPageLimit
	}
	return opts
}

// BuildGalleryPage 把一次无序扫描变成确定性的过滤/去重/排序/分页视图
func BuildGalleryPage(records []*metadata.Record, opts ListOptions) *GalleryPage {
	opts = normalizeOptions(opts)

	// 规范化基准序：imageId 升序。消除对存储扫描顺序的依赖
	working := make([]*metadata.Record, len(records))
	copy(working, records)
	sort.Slice(working, func(i, j int) bool {
		return working[i].ImageID < working[j].ImageID
	})

	// 标签过滤，任一命中即保留
	if len(opts.TagIDs) > 0 {
		tagSet := make(map[string]struct{}, len(opts.TagIDs))
		for _, id := range opts.TagIDs {
			if id != "" {
				tagSet[id] = struct{}{}
			}
		}
		if len(tagSet) > 0 {
			filtered := working[:0]
			for _, record := range working {
				if record.HasAnyTag(tagSet) {
					filtered = append(filtered, record)
				}
			}
			working = filtered
		}
	}

	// 去重：同键保留最早上传的记录，上传时间相同时 imageId 较小者胜出。
	// 在确定性的基准序上去重，结果才可复现
	if !opts.IncludeDuplicates {
		working = dropDuplicates(working)
	}

	// 排序：比较键相等时回退到 imageId 升序，保证全序，分页才不会重叠
	sort.Slice(working, func(i, j int) bool {
		return compareRecords(working[i], working[j], opts.SortBy, opts.SortOrder)
	})

	total := len(working)

	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	items := make([]*metadata.Record, end-start)
	copy(items, working[start:end])

	return &GalleryPage{
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
		Items:  items,
	}
}

// dropDuplicates 输入必须已按 imageId 升序
func dropDuplicates(records []*metadata.Record) []*metadata.Record {
	winners := make(map[string]*metadata.Record, len(records))
	for _, record := range records {
		key := record.DuplicateKey()
		best, ok := winners[key]
		// 升序遍历之下，上传时间相同保留先出现者即保留较小 imageId
		if !ok || record.UploadDate.Before(best.UploadDate) {
			winners[key] = record
		}
	}

	out := make([]*metadata.Record, 0, len(winners))
	for _, record := range records {
		if winners[record.DuplicateKey()] == record {
			out = append(out, record)
		}
	}
	return out
}

// compareRecords 按排序字段比较，方向只作用于排序键，平局恒为 imageId 升序
func compareRecords(a, b *metadata.Record, sortBy, sortOrder string) bool {
	var cmp int
	switch sortBy {
	case SortByTitle:
		cmp = strings.Compare(a.Title, b.Title)
	case SortByUploadDate:
		cmp = compareTimes(a.UploadDate, b.UploadDate)
	case SortByFileSize:
		cmp = compareInt64(a.FileSize, b.FileSize)
	default:
		cmp = compareTimes(a.EffectiveModificationDate(), b.EffectiveModificationDate())
	}

	if cmp == 0 {
		return a.ImageID < b.ImageID
	}
	if sortOrder == SortOrderDesc {
		return cmp > 0
	}
	return cmp < 0
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
