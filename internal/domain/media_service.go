package domain

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/google/uuid"
)

// AssetInput registers a file that already lives in external storage.
type AssetInput struct {
	FolderID     *string `json:"folder_id"`
	URL          string  `json:"url"`
	OriginalName string  `json:"original_name"`
	MimeType     string  `json:"mime_type"`
	Size         int64   `json:"size"`
	Width        *int    `json:"width"`
	Height       *int    `json:"height"`
	AltText      string  `json:"alt_text"`
}

type AssetPage struct {
	Items []models.MediaAsset `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

type MediaService struct {
	repo ports.MediaRepository
}

func NewMediaService(repo ports.MediaRepository) *MediaService {
	return &MediaService{repo: repo}
}

func (s *MediaService) CreateFolder(ctx context.Context, name string, parentID *string) (*models.MediaFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", ErrInvalidInput)
	}
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	f := &models.MediaFolder{ID: uuid.NewString(), Name: name, ParentID: parentID}
	if err := s.repo.CreateFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *MediaService) ListFolders(ctx context.Context) ([]models.MediaFolder, error) {
	items, err := s.repo.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.MediaFolder{}
	}
	return items, nil
}

func (s *MediaService) DeleteFolder(ctx context.Context, id string) error {
	return s.repo.DeleteFolder(ctx, id)
}

func (s *MediaService) RegisterAsset(ctx context.Context, uploadedBy string, in AssetInput) (*models.MediaAsset, error) {
	u, err := url.Parse(strings.TrimSpace(in.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: url must be an absolute http(s) url", ErrInvalidInput)
	}
	if in.Size < 0 {
		return nil, fmt.Errorf("%w: size is negative", ErrInvalidInput)
	}

	filename := path.Base(u.Path)
	if filename == "/" || filename == "." {
		filename = uuid.NewString()
	}
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(path.Ext(filename))
	}
	original := in.OriginalName
	if original == "" {
		original = filename
	}
	folderID := in.FolderID
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	a := &models.MediaAsset{
		ID:           uuid.NewString(),
		FolderID:     folderID,
		Filename:     filename,
		OriginalName: original,
		URL:          u.String(),
		Type:         MediaTypeOf(mimeType),
		MimeType:     mimeType,
		Size:         in.Size,
		Width:        in.Width,
		Height:       in.Height,
		AltText:      in.AltText,
		UploadedBy:   uploadedBy,
	}
	if err := s.repo.InsertAsset(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// MediaTypeOf classifies a mime type; anything unknown is a document.
func MediaTypeOf(mimeType string) models.MediaType {
	major, _, _ := strings.Cut(strings.ToLower(mimeType), "/")
	switch major {
	case "image":
		return models.MediaImage
	case "video":
		return models.MediaVideo
	case "audio":
		return models.MediaAudio
	default:
		return models.MediaDocument
	}
}

func (s *MediaService) GetAsset(ctx context.Context, id string) (*models.MediaAsset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *MediaService) ListAssets(ctx context.Context, folderID *string, t models.MediaType, search string, page Page) (*AssetPage, error) {
	page = NewPage(page.Page, page.Limit)
	items, total, err := s.repo.ListAssets(ctx, ports.MediaFilter{
		FolderID: folderID,
		Type:     t,
		Search:   strings.TrimSpace(search),
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.MediaAsset{}
	}
	return &AssetPage{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *MediaService) DeleteAsset(ctx context.Context, id string) error {
	return s.repo.DeleteAsset(ctx, id)
}
