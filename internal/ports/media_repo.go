package ports

import (
	"context"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type MediaFilter struct {
	FolderID *string
	Type     models.MediaType
	Search   string
	Limit    int
	Offset   int
}

type MediaRepository interface {
	CreateFolder(ctx context.Context, f *models.MediaFolder) error
	ListFolders(ctx context.Context) ([]models.MediaFolder, error)
	DeleteFolder(ctx context.Context, id string) error

	InsertAsset(ctx context.Context, a *models.MediaAsset) error
	GetAsset(ctx context.Context, id string) (*models.MediaAsset, error)
	ListAssets(ctx context.Context, f MediaFilter) ([]models.MediaAsset, int, error)
	DeleteAsset(ctx context.Context, id string) error
}
