// Package memory implementa los puertos de persistencia en memoria. Se usa en tests y como
// driver de desarrollo (DB_DRIVER=memory); las transacciones se serializan y se deshacen
// restaurando una copia del estado. Fuera de una tx, lecturas y escrituras esperan a que
// termine la tx en curso, así nunca se ve estado sin confirmar.
package memory

import (
	"strings"
	"sync"

	"github.com/jhoicas/reparto-api/internal/domain/entity"
)

// Store estado completo en memoria.
type Store struct {
	mu   sync.RWMutex // protege los mapas
	txMu sync.Mutex   // serializa transacciones y accesos fuera de tx

	data state
}

type state struct {
	businesses  map[string]*entity.Business
	catalog     map[string]*entity.CatalogProduct
	inventory   map[string]*entity.InventoryAsset // businessID + "|" + category
	users       map[string]*entity.User
	customers   map[string]*entity.Customer
	sales       map[string]*entity.Sale
	allocations []entity.PaymentAllocation
	expenses    map[string]*entity.Expense
	refills     map[string]*entity.Refill
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{data: state{
		businesses: map[string]*entity.Business{},
		catalog:    map[string]*entity.CatalogProduct{},
		inventory:  map[string]*entity.InventoryAsset{},
		users:      map[string]*entity.User{},
		customers:  map[string]*entity.Customer{},
		sales:      map[string]*entity.Sale{},
		expenses:   map[string]*entity.Expense{},
		refills:    map[string]*entity.Refill{},
	}}
}

// base acceso compartido de los repos al store. Fuera de tx (inTx=false) cada acceso
// toma txMu para no intercalarse con una transacción en curso.
type base struct {
	s    *Store
	inTx bool
}

func (b base) read(fn func(d *state)) {
	if !b.inTx {
		b.s.txMu.Lock()
		defer b.s.txMu.Unlock()
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	fn(&b.s.data)
}

func (b base) write(fn func(d *state) error) error {
	if !b.inTx {
		b.s.txMu.Lock()
		defer b.s.txMu.Unlock()
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(&b.s.data)
}

// snapshot copia profunda del estado (se llama con mu tomado).
func (d *state) snapshot() state {
	out := state{
		businesses:  make(map[string]*entity.Business, len(d.businesses)),
		catalog:     make(map[string]*entity.CatalogProduct, len(d.catalog)),
		inventory:   make(map[string]*entity.InventoryAsset, len(d.inventory)),
		users:       make(map[string]*entity.User, len(d.users)),
		customers:   make(map[string]*entity.Customer, len(d.customers)),
		sales:       make(map[string]*entity.Sale, len(d.sales)),
		allocations: append([]entity.PaymentAllocation(nil), d.allocations...),
		expenses:    make(map[string]*entity.Expense, len(d.expenses)),
		refills:     make(map[string]*entity.Refill, len(d.refills)),
	}
	for k, v := range d.businesses {
		c := *v
		out.businesses[k] = &c
	}
	for k, v := range d.catalog {
		c := *v
		out.catalog[k] = &c
	}
	for k, v := range d.inventory {
		c := *v
		out.inventory[k] = &c
	}
	for k, v := range d.users {
		c := *v
		out.users[k] = &c
	}
	for k, v := range d.customers {
		c := *v
		out.customers[k] = &c
	}
	for k, v := range d.sales {
		out.sales[k] = copySale(v)
	}
	for k, v := range d.expenses {
		c := *v
		out.expenses[k] = &c
	}
	for k, v := range d.refills {
		out.refills[k] = copyRefill(v)
	}
	return out
}

func copySale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	return &c
}

func copyRefill(r *entity.Refill) *entity.Refill {
	c := *r
	c.Items = append([]entity.RefillItem(nil), r.Items...)
	return &c
}

func page[T any](list []T, limit, offset int) []T {
	if offset > len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
