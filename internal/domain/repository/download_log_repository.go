package repository

import (
	"context"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// DownloadLogRepository puerto de solo-anexar: no hay Update ni Delete.
type DownloadLogRepository interface {
	Create(ctx context.Context, log *entity.DownloadLog) error
	ListByPO(ctx context.Context, poID string) ([]*entity.DownloadLog, error)
	List(ctx context.Context, limit, offset int) ([]*entity.DownloadLog, error)
}
