package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

var _ repository.DownloadLogRepository = (*DownloadLogRepo)(nil)

// DownloadLogRepo bitácora de descargas, solo INSERT y SELECT.
type DownloadLogRepo struct {
	q Querier
}

func NewDownloadLogRepository(q Querier) *DownloadLogRepo {
	return &DownloadLogRepo{q: q}
}

const downloadLogColumns = `id, po_id, actor, downloaded_at, location`

// Create anexa un registro. Ubicación en blanco se guarda como "Not specified".
func (r *DownloadLogRepo) Create(ctx context.Context, l *entity.DownloadLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.DownloadedAt.IsZero() {
		l.DownloadedAt = time.Now()
	}
	if strings.TrimSpace(l.Location) == "" {
		l.Location = entity.LocationNotSpecified
	}
	query := `INSERT INTO po_download_logs (` + downloadLogColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, l.ID, l.POID, l.Actor, l.DownloadedAt, l.Location); err != nil {
		return fmt.Errorf("insert download log: %w", err)
	}
	return nil
}

// ListByPO registros de una OC, más recientes primero.
func (r *DownloadLogRepo) ListByPO(ctx context.Context, poID string) ([]*entity.DownloadLog, error) {
	query := `SELECT ` + downloadLogColumns + ` FROM po_download_logs WHERE po_id = $1 ORDER BY downloaded_at DESC, id`
	return r.list(ctx, query, poID)
}

func (r *DownloadLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.DownloadLog, error) {
	limit, offset = normalizePage(limit, offset)
	query := `SELECT ` + downloadLogColumns + ` FROM po_download_logs ORDER BY downloaded_at DESC, id LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *DownloadLogRepo) list(ctx context.Context, query string, args ...any) ([]*entity.DownloadLog, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list download logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.DownloadLog
	for rows.Next() {
		var l entity.DownloadLog
		if err := rows.Scan(&l.ID, &l.POID, &l.Actor, &l.DownloadedAt, &l.Location); err != nil {
			return nil, fmt.Errorf("scan download log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
