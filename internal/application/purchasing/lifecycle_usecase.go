package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/permission"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// LifecycleUseCase aplica las transiciones de estado de una OC: created → approved | rejected,
// y su eliminación. Las operaciones en lote procesan cada id por separado y nunca revierten éxitos.
type LifecycleUseCase struct {
	poRepo repository.PurchaseOrderRepository
	log    *logger.Logger
	now    func() time.Time
}

// NewLifecycleUseCase construye el caso de uso. log puede ser nil.
func NewLifecycleUseCase(poRepo repository.PurchaseOrderRepository, log *logger.Logger) *LifecycleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LifecycleUseCase{poRepo: poRepo, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *LifecycleUseCase) WithClock(now func() time.Time) *LifecycleUseCase {
	uc.now = now
	return uc
}

// Get devuelve una OC con sus ítems. Las rechazadas solo las ve quien tiene view_rejected.
func (uc *LifecycleUseCase) Get(ctx context.Context, actor entity.Actor, poID string) (*entity.PurchaseOrder, error) {
	po, err := uc.load(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po.Status == entity.POStatusRejected {
		if err := permission.Check(actor.Role, permission.ViewRejected); err != nil {
			return nil, err
		}
	}
	return po, nil
}

// List lista OCs. Pedir explícitamente las rechazadas exige view_rejected; sin filtro de estado
// se ocultan a quien no lo tenga.
func (uc *LifecycleUseCase) List(ctx context.Context, actor entity.Actor, filter repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	canSeeRejected := permission.Can(actor.Role, permission.ViewRejected)
	if filter.Status == entity.POStatusRejected && !canSeeRejected {
		return nil, permission.Check(actor.Role, permission.ViewRejected)
	}
	list, err := uc.poRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if canSeeRejected {
		return list, nil
	}
	out := list[:0]
	for _, po := range list {
		if po.Status != entity.POStatusRejected {
			out = append(out, po)
		}
	}
	return out, nil
}

// Approve aprueba una OC en estado created.
func (uc *LifecycleUseCase) Approve(ctx context.Context, actor entity.Actor, poID string) (*entity.PurchaseOrder, error) {
	if err := permission.Check(actor.Role, permission.ApprovePO); err != nil {
		return nil, err
	}
	return uc.approve(ctx, actor, poID)
}

// ApproveMany aprueba cada id de forma independiente, en orden.
func (uc *LifecycleUseCase) ApproveMany(ctx context.Context, actor entity.Actor, poIDs []string) (*domain.BatchResult, error) {
	if err := permission.Check(actor.Role, permission.BulkApprovePO); err != nil {
		return nil, err
	}
	res := domain.NewBatchResult()
	for _, id := range poIDs {
		_, err := uc.approve(ctx, actor, id)
		uc.record(res, "approve", id, err)
	}
	uc.summary("approve", actor, res)
	return res, nil
}

// Reject rechaza una OC en estado created. Un motivo nil o en blanco queda en NULL;
// cualquier otro se guarda tal cual.
func (uc *LifecycleUseCase) Reject(ctx context.Context, actor entity.Actor, poID string, reason *string) (*entity.PurchaseOrder, error) {
	if err := permission.Check(actor.Role, permission.RejectPO); err != nil {
		return nil, err
	}
	return uc.reject(ctx, actor, poID, reason)
}

// RejectMany rechaza cada id con el mismo motivo.
func (uc *LifecycleUseCase) RejectMany(ctx context.Context, actor entity.Actor, poIDs []string, reason *string) (*domain.BatchResult, error) {
	if err := permission.Check(actor.Role, permission.RejectPO); err != nil {
		return nil, err
	}
	res := domain.NewBatchResult()
	for _, id := range poIDs {
		_, err := uc.reject(ctx, actor, id, reason)
		uc.record(res, "reject", id, err)
	}
	uc.summary("reject", actor, res)
	return res, nil
}

// Delete elimina la OC y sus ítems, sin importar el estado. Irreversible.
func (uc *LifecycleUseCase) Delete(ctx context.Context, actor entity.Actor, poID string) error {
	if err := permission.Check(actor.Role, permission.DeletePO); err != nil {
		return err
	}
	return uc.delete(ctx, poID)
}

// DeleteMany elimina cada id por separado; los fallos se cuentan y no detienen el lote.
func (uc *LifecycleUseCase) DeleteMany(ctx context.Context, actor entity.Actor, poIDs []string) (*domain.BatchResult, error) {
	if err := permission.Check(actor.Role, permission.DeletePO); err != nil {
		return nil, err
	}
	res := domain.NewBatchResult()
	for _, id := range poIDs {
		uc.record(res, "delete", id, uc.delete(ctx, id))
	}
	uc.summary("delete", actor, res)
	return res, nil
}

func (uc *LifecycleUseCase) approve(ctx context.Context, actor entity.Actor, poID string) (*entity.PurchaseOrder, error) {
	po, err := uc.load(ctx, poID)
	if err != nil {
		return nil, err
	}
	if err := po.Approve(actor.ID, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.poRepo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("aprobar OC %s: %w", po.PONumber, err)
	}
	return po, nil
}

func (uc *LifecycleUseCase) reject(ctx context.Context, actor entity.Actor, poID string, reason *string) (*entity.PurchaseOrder, error) {
	po, err := uc.load(ctx, poID)
	if err != nil {
		return nil, err
	}
	if err := po.Reject(actor.ID, normalizeReason(reason), uc.now()); err != nil {
		return nil, err
	}
	if err := uc.poRepo.Update(ctx, po); err != nil {
		return nil, fmt.Errorf("rechazar OC %s: %w", po.PONumber, err)
	}
	return po, nil
}

func (uc *LifecycleUseCase) delete(ctx context.Context, poID string) error {
	if strings.TrimSpace(poID) == "" {
		return fmt.Errorf("%w: id de OC vacío", domain.ErrInvalidInput)
	}
	return uc.poRepo.Delete(ctx, poID)
}

func (uc *LifecycleUseCase) load(ctx context.Context, poID string) (*entity.PurchaseOrder, error) {
	if strings.TrimSpace(poID) == "" {
		return nil, fmt.Errorf("%w: id de OC vacío", domain.ErrInvalidInput)
	}
	po, err := uc.poRepo.GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: OC %s", domain.ErrNotFound, poID)
	}
	return po, nil
}

func (uc *LifecycleUseCase) record(res *domain.BatchResult, op, id string, err error) {
	res.Record(id, err)
	if err != nil {
		uc.log.Warn().Err(err).Str("op", op).Str("po_id", id).Msg("fallo en lote")
	}
}

func (uc *LifecycleUseCase) summary(op string, actor entity.Actor, res *domain.BatchResult) {
	uc.log.Info().
		Str("op", op).
		Str("actor", actor.ID).
		Int("succeeded", res.SucceededCount()).
		Int("failed", res.FailedCount()).
		Msg("lote de OCs procesado")
}

func normalizeReason(reason *string) *string {
	if reason == nil || strings.TrimSpace(*reason) == "" {
		return nil
	}
	r := *reason
	return &r
}
