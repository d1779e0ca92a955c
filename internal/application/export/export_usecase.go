package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	apppurchasing "github.com/jhoicas/Compras-api/internal/application/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/permission"
	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// ContentTypeZip tipo MIME del paquete masivo.
const ContentTypeZip = "application/zip"

// Request exportación de una o varias OC en un único formato.
type Request struct {
	POIDs    []string
	Format   string // pdf | xlsx
	Location string // referencia libre; en blanco se registra "Not specified"
}

// Result documento (o ZIP) listo para descargar más el detalle por OC.
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
	Batch       *domain.BatchResult
	ArchiveKey  string // clave en almacenamiento de objetos si se subió el ZIP
}

// UseCase exporta OC aprobadas: una sola devuelve el documento tal cual; varias van en un ZIP.
// Cada OC exportada deja exactamente un DownloadLog.
type UseCase struct {
	catalog   *apppurchasing.Catalog
	logRepo   repository.DownloadLogRepository
	renderers map[string]DocumentRenderer
	packager  Packager
	store     ArchiveStore
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. store puede ser nil (sin subida del ZIP).
func NewUseCase(
	catalog *apppurchasing.Catalog,
	logRepo repository.DownloadLogRepository,
	packager Packager,
	store ArchiveStore,
	log *logger.Logger,
	renderers ...DocumentRenderer,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	byFormat := make(map[string]DocumentRenderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &UseCase{
		catalog:   catalog,
		logRepo:   logRepo,
		renderers: byFormat,
		packager:  packager,
		store:     store,
		log:       log,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Export genera los documentos. Una OC requiere download_po; varias, bulk_download_po.
// Solo las OC aprobadas se exportan; el resto falla por ítem sin detener a las demás.
func (uc *UseCase) Export(ctx context.Context, actor entity.Actor, req Request) (*Result, error) {
	ids := dedupe(req.POIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no hay OCs seleccionadas", domain.ErrInvalidInput)
	}
	action := permission.DownloadPO
	if len(ids) > 1 {
		action = permission.BulkDownloadPO
	}
	if err := permission.Check(actor.Role, action); err != nil {
		return nil, err
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	renderer, ok := uc.renderers[format]
	if !ok || !purchasing.ValidFormat(format) {
		return nil, fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, req.Format)
	}

	batch := domain.NewBatchResult()
	entries := make([]Entry, 0, len(ids))
	var firstErr error
	for _, id := range ids {
		entry, err := uc.exportOne(ctx, actor, id, renderer, req.Location)
		batch.Record(id, err)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			uc.log.Warn().Err(err).Str("po_id", id).Str("format", format).Msg("OC no exportada")
			continue
		}
		entries = append(entries, entry)
	}

	if len(ids) == 1 {
		if len(entries) == 0 {
			return nil, firstErr
		}
		return &Result{
			Filename:    entries[0].Name,
			ContentType: renderer.ContentType(),
			Data:        entries[0].Data,
			Batch:       batch,
		}, nil
	}

	if len(entries) == 0 {
		return &Result{Batch: batch}, fmt.Errorf("%w: ninguna de las %d OCs se pudo exportar", domain.ErrInvalidInput, len(ids))
	}
	data, err := uc.packager.Pack(entries)
	if err != nil {
		return nil, fmt.Errorf("empaquetar exportación: %w", err)
	}
	res := &Result{
		Filename:    purchasing.BulkArchiveName(uc.now()),
		ContentType: ContentTypeZip,
		Data:        data,
		Batch:       batch,
	}
	if uc.store != nil {
		key, err := uc.store.Put(ctx, res.Filename, data, ContentTypeZip)
		if err != nil {
			uc.log.Error().Err(err).Str("file", res.Filename).Msg("no se pudo subir el paquete de exportación")
		} else {
			res.ArchiveKey = key
		}
	}
	uc.log.Info().
		Str("actor", actor.ID).
		Str("format", format).
		Int("exported", batch.SucceededCount()).
		Int("failed", batch.FailedCount()).
		Msg("exportación masiva de OCs")
	return res, nil
}

// Downloads historial de descargas de una OC (view_po_download).
func (uc *UseCase) Downloads(ctx context.Context, actor entity.Actor, poID string) ([]*entity.DownloadLog, error) {
	if err := permission.Check(actor.Role, permission.ViewPODownload); err != nil {
		return nil, err
	}
	if _, err := uc.catalog.Order(ctx, poID); err != nil {
		return nil, err
	}
	return uc.logRepo.ListByPO(ctx, poID)
}

// AllDownloads historial global de descargas, paginado (view_po_download).
func (uc *UseCase) AllDownloads(ctx context.Context, actor entity.Actor, limit, offset int) ([]*entity.DownloadLog, error) {
	if err := permission.Check(actor.Role, permission.ViewPODownload); err != nil {
		return nil, err
	}
	return uc.logRepo.List(ctx, limit, offset)
}

func (uc *UseCase) exportOne(ctx context.Context, actor entity.Actor, id string, r DocumentRenderer, location string) (Entry, error) {
	po, err := uc.catalog.Order(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if po.Status != entity.POStatusApproved {
		return Entry{}, fmt.Errorf("%w: la OC %s está en estado %s, solo se exportan aprobadas", domain.ErrInvalidTransition, po.PONumber, po.Status)
	}
	snap, err := uc.catalog.Snapshot(ctx, po)
	if err != nil {
		return Entry{}, err
	}
	data, err := safeRender(ctx, r, snap)
	if err != nil {
		return Entry{}, err
	}
	if strings.TrimSpace(location) == "" {
		location = entity.LocationNotSpecified
	}
	logEntry := &entity.DownloadLog{POID: po.ID, Actor: actor.ID, DownloadedAt: uc.now(), Location: location}
	if err := uc.logRepo.Create(ctx, logEntry); err != nil {
		return Entry{}, fmt.Errorf("registrar descarga de %s: %w", po.PONumber, err)
	}
	return Entry{Name: snap.Filename(r.Format()), Data: data}, nil
}

// safeRender convierte un panic del generador en ErrRender.
func safeRender(ctx context.Context, r DocumentRenderer, snap purchasing.Snapshot) (data []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			data, err = nil, fmt.Errorf("%w: %s %s: %v", domain.ErrRender, r.Format(), snap.PONumber, rec)
		}
	}()
	return r.Render(ctx, snap)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
