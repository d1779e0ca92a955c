package notify

import (
	"context"
	"fmt"
	"time"

	apppurchasing "github.com/jhoicas/Compras-api/internal/application/purchasing"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/permission"
	"github.com/jhoicas/Compras-api/internal/domain/purchasing"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

// PreparedGroup grupo de un proveedor con su mensaje ya compuesto.
type PreparedGroup struct {
	Group     *purchasing.VendorGroup
	Snapshots []purchasing.Snapshot
	Message   Message
}

// VendorKey identificador del proveedor del grupo.
func (p *PreparedGroup) VendorKey() string { return p.Group.Vendor.Key() }

// Sender datos del remitente aplicados a todos los correos.
type Sender struct {
	From     string
	FromName string
	CC       string
}

// UseCase agrupa OCs por proveedor, compone los mensajes y los entrega por correo
// o como plan de enlaces de WhatsApp.
type UseCase struct {
	catalog *apppurchasing.Catalog
	mailer  EmailSender
	sender  Sender
	stagger time.Duration
	log     *logger.Logger
}

// NewUseCase construye el caso de uso. Un stagger menor a DefaultStagger se eleva a ese mínimo.
func NewUseCase(catalog *apppurchasing.Catalog, mailer EmailSender, sender Sender, stagger time.Duration, log *logger.Logger) *UseCase {
	if stagger < DefaultStagger {
		stagger = DefaultStagger
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{catalog: catalog, mailer: mailer, sender: sender, stagger: stagger, log: log}
}

// PrepareGroups carga las OCs, descarta las que no estén aprobadas (fallo por ítem), agrupa por
// proveedor y compone un mensaje por grupo. overrides reemplaza el contacto por clave de proveedor.
// Las OCs cuyo proveedor no se resuelve quedan fuera sin error.
func (uc *UseCase) PrepareGroups(
	ctx context.Context,
	actor entity.Actor,
	poIDs []string,
	channel purchasing.Channel,
	overrides map[string]string,
) ([]*PreparedGroup, *domain.BatchResult, error) {
	if err := permission.Check(actor.Role, permission.DownloadPO); err != nil {
		return nil, nil, err
	}
	if channel != purchasing.ChannelEmail && channel != purchasing.ChannelWhatsApp {
		return nil, nil, fmt.Errorf("%w: canal %q no soportado", domain.ErrInvalidInput, channel)
	}

	loadRes := domain.NewBatchResult()
	orders := make([]*entity.PurchaseOrder, 0, len(poIDs))
	for _, id := range poIDs {
		po, err := uc.catalog.Order(ctx, id)
		if err == nil && po.Status != entity.POStatusApproved {
			err = fmt.Errorf("%w: la OC %s está en estado %s", domain.ErrInvalidTransition, po.PONumber, po.Status)
		}
		if err != nil {
			loadRes.Record(id, err)
			continue
		}
		orders = append(orders, po)
	}

	lookup, err := uc.catalog.VendorLookup(ctx, orders)
	if err != nil {
		return nil, nil, err
	}
	groups := purchasing.GroupByVendor(purchasing.NewSelection(orders...), lookup, channel)

	prepared := make([]*PreparedGroup, 0, len(groups))
	for _, g := range groups {
		if c, ok := overrides[g.Vendor.Key()]; ok {
			g.SetContact(c)
		}
		snaps := make([]purchasing.Snapshot, 0, len(g.Orders))
		for _, po := range g.Orders {
			snap, err := uc.catalog.Snapshot(ctx, po)
			if err != nil {
				return nil, nil, err
			}
			snaps = append(snaps, snap)
		}
		msg, err := ComposeBulk(g.Vendor.Name, snaps)
		if err != nil {
			return nil, nil, err
		}
		prepared = append(prepared, &PreparedGroup{Group: g, Snapshots: snaps, Message: msg})
	}
	return prepared, loadRes, nil
}

// SendEmails entrega un correo por grupo. Contacto inválido → ValidationFailure; error del
// colaborador → DeliveryFailure. Los fallos no detienen los demás grupos.
func (uc *UseCase) SendEmails(ctx context.Context, actor entity.Actor, groups []*PreparedGroup) (*domain.BatchResult, error) {
	if err := permission.Check(actor.Role, permission.DownloadPO); err != nil {
		return nil, err
	}
	res := domain.NewBatchResult()
	for _, p := range groups {
		err := uc.sendOne(ctx, p)
		res.Record(p.VendorKey(), err)
		if err != nil {
			uc.log.Warn().Err(err).Str("vendor", p.VendorKey()).Msg("correo de OC no enviado")
		}
	}
	uc.log.Info().
		Str("actor", actor.ID).
		Int("sent", res.SucceededCount()).
		Int("failed", res.FailedCount()).
		Msg("notificación por correo")
	return res, nil
}

func (uc *UseCase) sendOne(ctx context.Context, p *PreparedGroup) error {
	if p.Group.Channel != purchasing.ChannelEmail {
		return fmt.Errorf("%w: el grupo %s no es de correo", domain.ErrInvalidInput, p.VendorKey())
	}
	if err := p.Group.Validate(); err != nil {
		return err
	}
	msg := EmailMessage{
		To:       p.Group.Contact,
		ToName:   p.Group.Vendor.ContactName,
		Subject:  p.Message.Subject,
		HTML:     p.Message.HTML,
		Text:     p.Message.Text,
		From:     uc.sender.From,
		FromName: uc.sender.FromName,
		CC:       uc.sender.CC,
	}
	if msg.ToName == "" {
		msg.ToName = p.Group.Vendor.Name
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrDelivery, p.Group.Contact, err)
	}
	return nil
}

// WhatsAppPlan arma los enlaces wa.me de los grupos válidos, separados por el intervalo
// configurado. Los grupos con teléfono inválido quedan como ValidationFailure y los que no
// son del canal WhatsApp como InvalidInput.
func (uc *UseCase) WhatsAppPlan(ctx context.Context, actor entity.Actor, groups []*PreparedGroup) ([]ScheduledLink, *domain.BatchResult, error) {
	if err := permission.Check(actor.Role, permission.DownloadPO); err != nil {
		return nil, nil, err
	}
	res := domain.NewBatchResult()
	plan := make([]ScheduledLink, 0, len(groups))
	for _, p := range groups {
		if err := whatsAppReady(p); err != nil {
			res.Record(p.VendorKey(), err)
			continue
		}
		plan = append(plan, ScheduledLink{
			VendorID: p.VendorKey(),
			Phone:    purchasing.CleanPhone(p.Group.Contact),
			At:       time.Duration(len(plan)) * uc.stagger,
			URL:      WhatsAppLink(p.Group.Contact, p.Message.Text),
		})
		res.Record(p.VendorKey(), nil)
	}
	return plan, res, nil
}

func whatsAppReady(p *PreparedGroup) error {
	if p.Group.Channel != purchasing.ChannelWhatsApp {
		return fmt.Errorf("%w: el grupo %s no es de WhatsApp", domain.ErrInvalidInput, p.VendorKey())
	}
	return p.Group.Validate()
}
