package domain

import "fmt"

// Character is a player character owned by the account
type Character struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerState is the local game state optimistic effects are applied to.
// Inventory never holds zero or negative quantities.
type PlayerState struct {
	Balance    int64                `json:"balance"`
	Characters map[string]Character `json:"characters"`
	Inventory  map[int]int          `json:"inventory"`
}

// Effect describes what an action mutates locally
type Effect struct {
	BalanceDelta  int64           `json:"balance_delta,omitempty"`
	Character     *Character      `json:"character,omitempty"`
	CharacterID   string          `json:"character_id,omitempty"`
	ItemID        int             `json:"item_id,omitempty"`
	Kind          TransactionKind `json:"kind"`
	QuantityDelta int             `json:"quantity_delta,omitempty"`
}

// Snapshot captures the parts of PlayerState an effect touches, before it
// is applied
type Snapshot struct {
	Balance      int64      `json:"balance"`
	Character    *Character `json:"character,omitempty"`
	CharacterID  string     `json:"character_id,omitempty"`
	HadItem      bool       `json:"had_item,omitempty"`
	ItemID       int        `json:"item_id,omitempty"`
	ItemQuantity int        `json:"item_quantity,omitempty"`
}

// NewPlayerState returns an empty state with the given balance
func NewPlayerState(balance int64) PlayerState {
	return PlayerState{
		Balance:    balance,
		Characters: map[string]Character{},
		Inventory:  map[int]int{},
	}
}

// Clone returns a deep copy
func (s PlayerState) Clone() PlayerState {
	out := PlayerState{
		Balance:    s.Balance,
		Characters: make(map[string]Character, len(s.Characters)),
		Inventory:  make(map[int]int, len(s.Inventory)),
	}
	for id, c := range s.Characters {
		out.Characters[id] = c
	}
	for id, qty := range s.Inventory {
		out.Inventory[id] = qty
	}
	return out
}

// Plan computes the effect of an action against the current state, refusing
// actions that cannot succeed locally
func (s PlayerState) Plan(kind TransactionKind, p Payload) (Effect, error) {
	if err := p.Validate(kind); err != nil {
		return Effect{}, err
	}

	switch kind {
	case KindBuy:
		cost, ok := p.Amount()
		if !ok {
			return Effect{}, fmt.Errorf("%w: amount exceeds %d", ErrInvalidPayload, MaxTransactionAmount)
		}
		if s.Balance < cost {
			return Effect{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, cost, s.Balance)
		}
		return Effect{Kind: kind, BalanceDelta: -cost, ItemID: p.ItemID, QuantityDelta: p.Quantity}, nil
	case KindSell:
		if s.Inventory[p.ItemID] < p.Quantity {
			return Effect{}, fmt.Errorf("%w: item %d has %d, selling %d",
				ErrUnknownItem, p.ItemID, s.Inventory[p.ItemID], p.Quantity)
		}
		proceeds, ok := p.Amount()
		if !ok {
			return Effect{}, fmt.Errorf("%w: amount exceeds %d", ErrInvalidPayload, MaxTransactionAmount)
		}
		return Effect{Kind: kind, BalanceDelta: proceeds, ItemID: p.ItemID, QuantityDelta: -p.Quantity}, nil
	case KindCreateCharacter:
		if p.CharacterID == "" {
			return Effect{}, fmt.Errorf("%w: character_id is required", ErrInvalidPayload)
		}
		if len(s.Characters) >= MaxCharacters {
			return Effect{}, fmt.Errorf("%w: maximum %d characters per account", ErrTooManyCharacters, MaxCharacters)
		}
		return Effect{Kind: kind, CharacterID: p.CharacterID, Character: &Character{ID: p.CharacterID, Name: p.CharacterName}}, nil
	case KindRenameCharacter:
		if _, ok := s.Characters[p.CharacterID]; !ok {
			return Effect{}, fmt.Errorf("%w: %s", ErrUnknownCharacter, p.CharacterID)
		}
		return Effect{Kind: kind, CharacterID: p.CharacterID, Character: &Character{ID: p.CharacterID, Name: p.CharacterName}}, nil
	case KindDeleteCharacter:
		if _, ok := s.Characters[p.CharacterID]; !ok {
			return Effect{}, fmt.Errorf("%w: %s", ErrUnknownCharacter, p.CharacterID)
		}
		return Effect{Kind: kind, CharacterID: p.CharacterID}, nil
	}
	return Effect{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
}

// Capture records the pre-state an effect is about to change
func (s PlayerState) Capture(e Effect) Snapshot {
	snap := Snapshot{Balance: s.Balance}
	if e.ItemID != 0 {
		qty, ok := s.Inventory[e.ItemID]
		snap.ItemID = e.ItemID
		snap.ItemQuantity = qty
		snap.HadItem = ok
	}
	if e.CharacterID != "" {
		snap.CharacterID = e.CharacterID
		if c, ok := s.Characters[e.CharacterID]; ok {
			snap.Character = &c
		}
	}
	return snap
}

// Apply mutates the state with the effect
func (s *PlayerState) Apply(e Effect) {
	s.ensureMaps()
	s.Balance += e.BalanceDelta
	if e.ItemID != 0 && e.QuantityDelta != 0 {
		s.adjustItem(e.ItemID, e.QuantityDelta)
	}

	switch e.Kind {
	case KindCreateCharacter, KindRenameCharacter:
		if e.Character != nil {
			s.Characters[e.CharacterID] = *e.Character
		}
	case KindDeleteCharacter:
		delete(s.Characters, e.CharacterID)
	}
}

// Revert undoes an applied effect as a compensating change, so effects of
// other transactions applied in between are preserved
func (s *PlayerState) Revert(e Effect, snap Snapshot) {
	s.ensureMaps()
	s.Balance -= e.BalanceDelta
	if e.ItemID != 0 && e.QuantityDelta != 0 {
		s.adjustItem(e.ItemID, -e.QuantityDelta)
	}

	switch e.Kind {
	case KindCreateCharacter:
		delete(s.Characters, e.CharacterID)
	case KindRenameCharacter, KindDeleteCharacter:
		if snap.Character != nil {
			s.Characters[e.CharacterID] = *snap.Character
		}
	}
}

func (s *PlayerState) adjustItem(itemID, delta int) {
	qty := s.Inventory[itemID] + delta
	if qty <= 0 {
		delete(s.Inventory, itemID)
		return
	}
	s.Inventory[itemID] = qty
}

func (s *PlayerState) ensureMaps() {
	if s.Characters == nil {
		s.Characters = map[string]Character{}
	}
	if s.Inventory == nil {
		s.Inventory = map[int]int{}
	}
}
