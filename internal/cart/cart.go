package cart

import (
	"strings"
	"sync"
)

// ItemKind classifies a cart line.
type ItemKind string

const (
	KindVehicle   ItemKind = "vehicle"
	KindOptional  ItemKind = "optional"
	KindInsurance ItemKind = "insurance"
)

// Item is one cart line. TotalCents is always Quantity * UnitPriceCents;
// the reducer recomputes it on every mutation.
type Item struct {
	ID             string   `json:"id"`
	Kind           ItemKind `json:"kind"`
	Label          string   `json:"label"`
	Quantity       int      `json:"quantity"`
	UnitPriceCents int64    `json:"unitPriceCents"`
	TotalCents     int64    `json:"totalCents"`
}

// State holds the cart lines and the running total. SessionID is zero until
// the identity step creates the server-side checkout session.
type State struct {
	SessionID  int64  `json:"sessionId,omitempty"`
	Items      []Item `json:"items"`
	TotalCents int64  `json:"totalCents"`
}

type actionType int

const (
	actionAdd actionType = iota
	actionRemove
	actionUpdateQuantity
	actionClear
	actionBindSession
)

// Action is one cart mutation. Reductions are pure: no I/O, no side effects.
type Action struct {
	typ       actionType
	item      Item
	id        string
	quantity  int
	sessionID int64
}

func AddItem(item Item) Action    { return Action{typ: actionAdd, item: item} }
func RemoveItem(id string) Action { return Action{typ: actionRemove, id: id} }

func UpdateQuantity(id string, qty int) Action {
	return Action{typ: actionUpdateQuantity, id: id, quantity: qty}
}

func Clear() Action               { return Action{typ: actionClear} }
func BindSession(id int64) Action { return Action{typ: actionBindSession, sessionID: id} }

// reduce applies one action to a state copy and returns the next state with
// the grand total recomputed. Unknown IDs for remove/update are no-ops.
func reduce(s State, a Action) State {
	next := State{SessionID: s.SessionID, Items: make([]Item, len(s.Items))}
	copy(next.Items, s.Items)

	switch a.typ {
	case actionAdd:
		id := strings.TrimSpace(a.item.ID)
		if id == "" || a.item.UnitPriceCents < 0 {
			break
		}
		qty := a.item.Quantity
		if qty <= 0 {
			qty = 1
		}
		found := false
		for i := range next.Items {
			if next.Items[i].ID == id {
				next.Items[i].Quantity += qty
				next.Items[i].TotalCents = int64(next.Items[i].Quantity) * next.Items[i].UnitPriceCents
				found = true
				break
			}
		}
		if !found {
			item := a.item
			item.ID = id
			item.Quantity = qty
			item.TotalCents = int64(qty) * item.UnitPriceCents
			next.Items = append(next.Items, item)
		}

	case actionRemove:
		next.Items = deleteItem(next.Items, a.id)

	case actionUpdateQuantity:
		// Quantity <= 0 removes the line entirely; the "-" control counts on this.
		if a.quantity <= 0 {
			next.Items = deleteItem(next.Items, a.id)
			break
		}
		for i := range next.Items {
			if next.Items[i].ID == a.id {
				next.Items[i].Quantity = a.quantity
				next.Items[i].TotalCents = int64(a.quantity) * next.Items[i].UnitPriceCents
				break
			}
		}

	case actionClear:
		next.Items = nil

	case actionBindSession:
		next.SessionID = a.sessionID
	}

	var total int64
	for _, it := range next.Items {
		total += it.TotalCents
	}
	next.TotalCents = total
	return next
}

func deleteItem(items []Item, id string) []Item {
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// Store wraps the cart state behind a mutex. One Store per active browser
// session; created at login/first visit, torn down with the session.
type Store struct {
	mu    sync.Mutex
	state State
}

func NewStore() *Store {
	return &Store{}
}

// Dispatch applies an action and returns the resulting snapshot.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, a)
	return snapshot(s.state)
}

func (s *Store) AddItem(item Item) State    { return s.Dispatch(AddItem(item)) }
func (s *Store) RemoveItem(id string) State { return s.Dispatch(RemoveItem(id)) }

func (s *Store) UpdateQuantity(id string, qty int) State {
	return s.Dispatch(UpdateQuantity(id, qty))
}

func (s *Store) Clear() State               { return s.Dispatch(Clear()) }
func (s *Store) BindSession(id int64) State { return s.Dispatch(BindSession(id)) }

// Snapshot returns a copy safe to hand to the syncer.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.state)
}

func snapshot(s State) State {
	out := State{SessionID: s.SessionID, TotalCents: s.TotalCents}
	out.Items = make([]Item, len(s.Items))
	copy(out.Items, s.Items)
	return out
}
