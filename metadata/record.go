package metadata

import (
	"fmt"
	"strings"
	"time"
)

// Tag 图片标签，ID 由 Label 在系统边界派生，存储层不做唯一性校验
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// NewTag 创建标签并派生 ID
func NewTag(label, color string) Tag {
	return Tag{
		ID:    TagID(label),
		Label: label,
		Color: color,
	}
}

// TagID 从标签文本派生确定性 ID：小写、去首尾空白、空白段折叠为连字符
func TagID(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(label))), "-")
}

// Record 单张图片的持久化元数据
// ImageID 创建时分配且不可变；ModificationDate 在首次字段更新前为 null
type Record struct {
	ImageID          string     `json:"imageId"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	UploadDate       time.Time  `json:"uploadDate"`
	ModificationDate *time.Time `json:"modificationDate"`
	FileSize         int64      `json:"fileSize"`
	FileType         string     `json:"fileType"`
	OriginalFilename string     `json:"originalFilename"`
	FileURL          string     `json:"fileUrl"`
	Tags             []Tag      `json:"tags"`
	LockFile         bool       `json:"lockFile"`
}

// EffectiveModificationDate 排序用的有效修改时间，未更新过时回退到上传时间
func (r *Record) EffectiveModificationDate() time.Time {
	if r.ModificationDate != nil {
		return *r.ModificationDate
	}
	return r.UploadDate
}

// DuplicateKey 重复上传判定键
func (r *Record) DuplicateKey() string {
	return fmt.Sprintf("%s_%d_%s", r.OriginalFilename, r.FileSize, r.FileType)
}

// HasAnyTag 任一标签 ID 命中即为真
func (r *Record) HasAnyTag(tagIDs map[string]struct{}) bool {
	for _, tag := range r.Tags {
		if _, ok := tagIDs[tag.ID]; ok {
			return true
		}
	}
	return false
}

// Clone 深拷贝记录，避免调用方修改缓存或扫描结果中的共享切片
func (r *Record) Clone() *Record {
	clone := *r
	if r.ModificationDate != nil {
		t := *r.ModificationDate
		clone.ModificationDate = &t
	}
	if r.Tags != nil {
		clone.Tags = make([]Tag, len(r.Tags))
		copy(clone.Tags, r.Tags)
	}
	return &clone
}
