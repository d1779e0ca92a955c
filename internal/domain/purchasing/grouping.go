package purchasing

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/domain/entity"
)

// Channel canal de contacto de un grupo.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Selection conjunto de OC marcadas por el usuario, en el orden en que se marcaron.
type Selection struct {
	Orders []*entity.PurchaseOrder
}

// NewSelection construye la selección ignorando referencias nil.
func NewSelection(orders ...*entity.PurchaseOrder) Selection {
	sel := Selection{Orders: make([]*entity.PurchaseOrder, 0, len(orders))}
	for _, po := range orders {
		if po != nil {
			sel.Orders = append(sel.Orders, po)
		}
	}
	return sel
}

// VendorLookup resuelve un proveedor por id; nil si no existe.
type VendorLookup func(vendorID string) *entity.Vendor

// VendorGroup OC de un mismo proveedor dentro de una selección.
type VendorGroup struct {
	Vendor  *entity.Vendor
	Orders  []*entity.PurchaseOrder
	Channel Channel
	Contact string
	Valid   bool
}

// SetContact reemplaza el destino del grupo (editable antes de enviar) y recalcula Valid.
func (g *VendorGroup) SetContact(contact string) {
	g.Contact = strings.TrimSpace(contact)
	g.Valid = validContact(g.Channel, g.Contact)
}

// Validate devuelve ErrValidation si el destino no es usable.
func (g *VendorGroup) Validate() error {
	if g.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s %q para el proveedor %s", domain.ErrValidation, g.Channel, g.Contact, g.Vendor.Name)
}

// POIDs ids de las OC del grupo en orden de selección.
func (g *VendorGroup) POIDs() []string {
	ids := make([]string, 0, len(g.Orders))
	for _, po := range g.Orders {
		ids = append(ids, po.ID)
	}
	return ids
}

// GroupByVendor particiona la selección por proveedor. Función pura:
//   - un grupo por Vendor.Key(), en el orden de primera aparición;
//   - dentro de cada grupo se conserva el orden de selección;
//   - las OC cuyo proveedor no se resuelve se descartan sin error.
func GroupByVendor(sel Selection, lookup VendorLookup, channel Channel) []*VendorGroup {
	groups := make([]*VendorGroup, 0)
	byKey := make(map[string]*VendorGroup)
	for _, po := range sel.Orders {
		vendor := lookup(po.VendorID)
		if vendor == nil || vendor.Key() == "" {
			continue
		}
		key := vendor.Key()
		g, ok := byKey[key]
		if !ok {
			g = &VendorGroup{Vendor: vendor, Channel: channel}
			g.SetContact(defaultContact(vendor, channel))
			byKey[key] = g
			groups = append(groups, g)
		}
		g.Orders = append(g.Orders, po)
	}
	return groups
}

// IndexVendors arma un VendorLookup que acepta tanto el ID como el StorageID de cada proveedor,
// de modo que una OC que referencie cualquiera de los dos caiga en el mismo grupo.
func IndexVendors(vendors []*entity.Vendor) VendorLookup {
	idx := make(map[string]*entity.Vendor, len(vendors)*2)
	for _, v := range vendors {
		if v == nil {
			continue
		}
		if v.ID != "" {
			idx[v.ID] = v
		}
		if v.StorageID != "" {
			if _, taken := idx[v.StorageID]; !taken {
				idx[v.StorageID] = v
			}
		}
	}
	return func(id string) *entity.Vendor { return idx[id] }
}

func defaultContact(v *entity.Vendor, channel Channel) string {
	if channel == ChannelWhatsApp {
		return v.Phone
	}
	return v.ContactEmail
}

func validContact(channel Channel, contact string) bool {
	if channel == ChannelWhatsApp {
		return ValidPhone(contact)
	}
	return ValidEmail(contact)
}
