package minio

import (
	"context"

	"github.com/einspot/storefront/internal/cfg"
	"github.com/einspot/storefront/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// ImagesInfrastructure выдаёт подписанные ссылки на изображения товаров в MinIO.
type ImagesInfrastructure struct {
	client *minio.Client
	cfg    *cfg.MinIOCfg
}

func NewImagesInfrastructure(client *minio.Client, cfg *cfg.MinIOCfg) *ImagesInfrastructure {
	return &ImagesInfrastructure{
		client: client,
		cfg:    cfg,
	}
}

// PresignedImageURL возвращает временную ссылку на объект изображения.
func (m *ImagesInfrastructure) PresignedImageURL(ctx context.Context, objectKey string) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.cfg.BucketName, objectKey, m.cfg.PresignTTL, nil)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return url.String(), nil
}
