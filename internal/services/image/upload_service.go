package image

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/noven-dev/image-vault/internal/apperr"
	"github.com/noven-dev/image-vault/metadata"
	"github.com/noven-dev/image-vault/storage"
	"github.com/noven-dev/image-vault/utils"
)

// UploadParams 上传入参
type UploadParams struct {
	Data             io.ReadSeeker
	Size             int64
	OriginalFilename string
	Title            string
	Description      string
	RawTags          string
}

// UploadResult 上传结果
type UploadResult struct {
	ImageID string `json:"imageId"`
	FileURL string `json:"fileUrl"`
}

// UploadService 负责创建流程：先写资源存储，再写元数据存储
// 两步之间没有共享事务，元数据写入失败时不回滚已写入的资源，
// 产生的孤儿资源按可用性优先的取舍接受，由带外对账处理
type UploadService struct {
	store          metadata.Store
	provider       storage.Provider
	baseURL        string
	storageTimeout time.Duration
	metaTimeout    time.Duration
}

// NewUploadService 创建上传服务
func NewUploadService(
	store metadata.Store,
	provider storage.Provider,
	baseURL string,
	storageTimeout time.Duration,
	metaTimeout time.Duration,
) *UploadService {
	return &UploadService{
		store:          store,
		provider:       provider,
		baseURL:        strings.TrimRight(baseURL, "/"),
		storageTimeout: storageTimeout,
		metaTimeout:    metaTimeout,
	}
}

// tagInput 边界上接受的标签载荷
type tagInput struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ParseTags 解析并校验标签载荷，ID 在此边界派生
func ParseTags(raw string) ([]metadata.Tag, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var inputs []tagInput
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "INVALID_TAG_FORMAT",
			"Tags must be a JSON array of {label, color} objects", err)
	}

	tags := make([]metadata.Tag, 0, len(inputs))
	for _, input := range inputs {
		if strings.TrimSpace(input.Label) == "" {
			return nil, apperr.New(apperr.KindValidation, "INVALID_TAG_FORMAT",
				"Tag label must not be empty")
		}
		tags = append(tags, metadata.NewTag(input.Label, input.Color))
	}
	return tags, nil
}

// Upload 创建一张图片：校验、存字节、写记录
func (s *UploadService) Upload(ctx context.Context, params UploadParams) (*UploadResult, error) {
	// 校验先于任何写入，失败时无副作用
	if params.Data == nil || params.Size <= 0 {
		return nil, apperr.New(apperr.KindValidation, "NO_FILE", "No image file uploaded")
	}

	tags, err := ParseTags(params.RawTags)
	if err != nil {
		return nil, err
	}

	// 标识符空间足够大，不与存储比对查重
	imageID := uuid.New().String()
	assetID := imageID + strings.ToLower(filepath.Ext(params.OriginalFilename))

	fileType := utils.DetectContentType(params.OriginalFilename, params.Data)

	saveCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	if err := s.provider.SaveWithContext(saveCtx, assetID, params.Data); err != nil {
		// 资源未落盘，元数据也不会写，此处没有孤儿
		return nil, apperr.Wrap(apperr.KindUpstream, "UPLOAD_FAILED",
			"Failed to store image data", err)
	}

	title := params.Title
	if title == "" {
		title = params.OriginalFilename
	}

	record := &metadata.Record{
		ImageID:          imageID,
		Title:            title,
		Description:      params.Description,
		UploadDate:       time.Now().UTC(),
		ModificationDate: nil,
		FileSize:         params.Size,
		FileType:         fileType,
		OriginalFilename: params.OriginalFilename,
		FileURL:          s.baseURL + "/api/images/file/" + assetID,
		Tags:             tags,
	}

	putCtx, cancel := context.WithTimeout(ctx, s.metaTimeout)
	defer cancel()
	if err := s.store.Put(putCtx, record); err != nil {
		// 资源已写入但记录写失败：不回滚，留下孤儿资源待带外对账
		log.Printf("Metadata write failed after asset '%s' was stored, orphaned asset left behind: %v", assetID, err)
		return nil, apperr.Wrap(apperr.KindUpstream, "META_SAVE_FAILED",
			"Image stored but metadata could not be saved", err)
	}

	return &UploadResult{
		ImageID: record.ImageID,
		FileURL: record.FileURL,
	}, nil
}
