package cart

import "testing"

func sumItems(s State) int64 {
	var total int64
	for _, it := range s.Items {
		total += int64(it.Quantity) * it.UnitPriceCents
	}
	return total
}

func TestTotalMatchesItemSumAcrossMutations(t *testing.T) {
	store := NewStore()

	steps := []Action{
		AddItem(Item{ID: "veh-1", Kind: KindVehicle, UnitPriceCents: 45000, Quantity: 1}),
		AddItem(Item{ID: "gps", Kind: KindOptional, UnitPriceCents: 1500, Quantity: 1}),
		AddItem(Item{ID: "gps", Kind: KindOptional, UnitPriceCents: 1500, Quantity: 1}),
		UpdateQuantity("gps", 5),
		AddItem(Item{ID: "full-insurance", Kind: KindInsurance, UnitPriceCents: 9900, Quantity: 1}),
		RemoveItem("veh-1"),
		UpdateQuantity("full-insurance", 2),
		RemoveItem("does-not-exist"),
		UpdateQuantity("also-missing", 3),
	}

	for i, a := range steps {
		state := store.Dispatch(a)
		if state.TotalCents != sumItems(state) {
			t.Fatalf("step %d: total %d != item sum %d", i, state.TotalCents, sumItems(state))
		}
	}
}

func TestWorkedScenario(t *testing.T) {
	store := NewStore()

	state := store.AddItem(Item{ID: "veh-1", Kind: KindVehicle, UnitPriceCents: 45000, Quantity: 1})
	if state.TotalCents != 45000 {
		t.Fatalf("after vehicle add total = %d, want 45000", state.TotalCents)
	}

	state = store.AddItem(Item{ID: "gps", Kind: KindOptional, UnitPriceCents: 1500, Quantity: 1})
	if state.TotalCents != 46500 {
		t.Fatalf("after gps add total = %d, want 46500", state.TotalCents)
	}

	state = store.UpdateQuantity("gps", 3)
	if state.TotalCents != 49500 {
		t.Fatalf("after gps x3 total = %d, want 49500", state.TotalCents)
	}

	state = store.RemoveItem("veh-1")
	if state.TotalCents != 4500 {
		t.Fatalf("after vehicle removal total = %d, want 4500", state.TotalCents)
	}
}

func TestAddSameIDIncrementsInsteadOfDuplicating(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: "wifi", Kind: KindOptional, UnitPriceCents: 1000, Quantity: 1})
	state := store.AddItem(Item{ID: "wifi", Kind: KindOptional, UnitPriceCents: 1000, Quantity: 2})

	if len(state.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(state.Items))
	}
	if state.Items[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", state.Items[0].Quantity)
	}
	if state.Items[0].TotalCents != 3000 {
		t.Fatalf("line total = %d, want 3000", state.Items[0].TotalCents)
	}
}

func TestQuantityZeroRemovesLine(t *testing.T) {
	store := NewStore()
	store.AddItem(Item{ID: "ski-rack", Kind: KindOptional, UnitPriceCents: 2500, Quantity: 1})
	store.AddItem(Item{ID: "gps", Kind: KindOptional, UnitPriceCents: 1500, Quantity: 1})

	state := store.UpdateQuantity("ski-rack", 0)
	if len(state.Items) != 1 {
		t.Fatalf("expected one remaining line, got %d", len(state.Items))
	}
	if state.Items[0].ID != "gps" {
		t.Fatalf("remaining line = %s, want gps", state.Items[0].ID)
	}
	if state.TotalCents != 1500 {
		t.Fatalf("total = %d, want 1500", state.TotalCents)
	}

	// Negative quantities also remove instead of going below zero.
	state = store.UpdateQuantity("gps", -2)
	if len(state.Items) != 0 || state.TotalCents != 0 {
		t.Fatalf("negative quantity should empty the cart, got %+v", state)
	}
}

func TestClearResetsStateButKeepsSession(t *testing.T) {
	store := NewStore()
	store.BindSession(42)
	store.AddItem(Item{ID: "veh-9", Kind: KindVehicle, UnitPriceCents: 39900, Quantity: 1})

	state := store.Clear()
	if len(state.Items) != 0 || state.TotalCents != 0 {
		t.Fatalf("clear left residue: %+v", state)
	}
	if state.SessionID != 42 {
		t.Fatalf("clear dropped session binding, got %d", state.SessionID)
	}
}

func TestDispatchDoesNotMutatePriorSnapshots(t *testing.T) {
	store := NewStore()
	before := store.AddItem(Item{ID: "gps", Kind: KindOptional, UnitPriceCents: 1500, Quantity: 1})
	store.UpdateQuantity("gps", 7)

	if before.Items[0].Quantity != 1 {
		t.Fatalf("earlier snapshot mutated: %+v", before.Items[0])
	}
}

func TestAddRejectsEmptyIDAndNegativePrice(t *testing.T) {
	store := NewStore()
	state := store.AddItem(Item{ID: "  ", Kind: KindOptional, UnitPriceCents: 100})
	if len(state.Items) != 0 {
		t.Fatalf("blank id should be ignored")
	}
	state = store.AddItem(Item{ID: "bad", Kind: KindOptional, UnitPriceCents: -5})
	if len(state.Items) != 0 {
		t.Fatalf("negative price should be ignored")
	}
}
