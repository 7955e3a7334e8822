package table

// ValidActions computes what the seat may legally do. Fold is always
// offered; check only when nothing is owed, call otherwise; raise only
// when the full stack covers a minimum raise.
func (t *Table) ValidActions(seat *Seat) ActionInfo {
	info := ActionInfo{Valid: []Action{Fold}}

	if seat.CurrentBet == t.bet {
		info.Valid = append(info.Valid, Check)
	} else {
		info.Valid = append(info.Valid, Call)
	}

	info.MinRaise = t.bet + t.cfg.BigBlind
	if doubled := t.bet * 2; doubled > info.MinRaise {
		info.MinRaise = doubled
	}
	// Raising to the full stack is an implicit all-in
	info.MaxRaise = seat.CurrentBet + seat.Chips

	if info.MaxRaise >= info.MinRaise && seat.Chips > 0 {
		info.Valid = append(info.Valid, Raise)
	}

	return info
}

// Apply validates and applies a single action for the given seat,
// then advances the turn, stage or hand as required. On rejection the
// table is left unchanged.
func (t *Table) Apply(seatID int, action Action, amount int) error {
	if seatID < 0 {
		return ErrUnassigned
	}
	if !action.valid() {
		return ErrInvalidAction
	}
	if seatID >= len(t.seats) {
		return ErrInvalidSeat
	}
	if !t.stage.Betting() || seatID != t.current {
		return ErrNotYourTurn
	}

	seat := t.seats[seatID]
	if !seat.Active || seat.PendingActive {
		return ErrSeatInactive
	}

	switch action {
	case Fold:
		seat.Folded = true
		seat.Acted = true

	case Check:
		if t.bet > seat.CurrentBet {
			return ErrMustCallOrFold
		}
		seat.Acted = true

	case Call:
		owed := t.bet - seat.CurrentBet
		if owed > seat.Chips {
			return ErrInsufficientChips
		}
		seat.Chips -= owed
		seat.CurrentBet = t.bet
		t.pot += owed
		seat.Acted = true

	case Raise:
		info := t.ValidActions(seat)
		if amount < info.MinRaise {
			return ErrRaiseTooSmall
		}
		delta := amount - seat.CurrentBet
		if delta > seat.Chips {
			return ErrInsufficientChips
		}
		seat.Chips -= delta
		seat.CurrentBet = amount
		t.bet = amount
		t.pot += delta
		seat.Acted = true

		// A raise reopens the action: everyone else must act again
		for _, other := range t.seats {
			if other != seat && other.InHand() {
				other.Acted = false
			}
		}
	}

	seat.LastAction = action.String()

	t.logger.Debug("action applied",
		"table", t.id,
		"seat", seatID,
		"action", action,
		"amount", amount,
		"pot", t.pot)

	t.advanceTurn()
	t.publish(ActionAppliedEvent{Table: t.Snapshot(), SeatID: seatID, Action: action, Amount: amount})
	t.maybeFinishHand()
	return nil
}

// roundComplete reports whether the betting round is over: one seat
// left, or everyone still in has acted and matched the bet level
func (t *Table) roundComplete() bool {
	live := t.liveSeats()
	if len(live) <= 1 {
		return true
	}
	for _, s := range live {
		if !s.Acted || s.CurrentBet < t.bet {
			return false
		}
	}
	return true
}

// advanceTurn moves to the next seat due to act, or on to the next
// stage when the round is done
func (t *Table) advanceTurn() {
	if len(t.liveSeats()) <= 1 {
		t.stage = StageShowdown
		return
	}

	if t.roundComplete() {
		t.advanceStage()
		return
	}

	n := len(t.seats)
	for i := 1; i <= n; i++ {
		idx := (t.current + i) % n
		s := t.seats[idx]
		if s.InHand() && !s.PendingActive && !s.Acted {
			t.current = idx
			return
		}
	}

	// Every live seat has acted but the bets still mismatch. This
	// indicates an internal inconsistency; recover by moving on.
	t.logger.Warn("no seat due to act in open round, advancing stage", "table", t.id, "stage", t.stage)
	t.advanceStage()
}

// maybeFinishHand resolves the showdown once the stage machine lands
// there. Safe to call repeatedly.
func (t *Table) maybeFinishHand() {
	if t.stage == StageShowdown && t.pot > 0 {
		t.resolveShowdown()
	}
}
