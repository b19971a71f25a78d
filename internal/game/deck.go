package game

// shuffleDeck reorders a player's main deck with the match RNG.
func (m *MatchState) shuffleDeck(p *PlayerState) {
	r := m.rng()
	r.Shuffle(len(p.MainDeck), func(i, j int) {
		p.MainDeck[i], p.MainDeck[j] = p.MainDeck[j], p.MainDeck[i]
	})
}

// drawCards moves up to n cards from the top of the deck to hand and
// returns the ids drawn. Drawing from an empty deck is a no-op.
func (m *MatchState) drawCards(p *PlayerState, n int) []string {
	var drawn []string
	for i := 0; i < n && len(p.MainDeck) > 0; i++ {
		id := p.MainDeck[0]
		p.MainDeck = p.MainDeck[1:]
		p.Hand = append(p.Hand, id)
		drawn = append(drawn, id)
	}
	return drawn
}

// takeTop removes and returns up to n cards from the top of the deck.
func (m *MatchState) takeTop(p *PlayerState, n int) []string {
	if n > len(p.MainDeck) {
		n = len(p.MainDeck)
	}
	taken := append([]string(nil), p.MainDeck[:n]...)
	p.MainDeck = p.MainDeck[n:]
	return taken
}

// returnToBottom places cards under the deck preserving the given order.
func (m *MatchState) returnToBottom(p *PlayerState, ids []string) {
	p.MainDeck = append(p.MainDeck, ids...)
}

// redrawHand puts the whole hand back, reshuffles, and deals the same
// count again. Usable once per player, before readying up.
func (m *MatchState) redrawHand(p *PlayerState) []string {
	n := len(p.Hand)
	p.MainDeck = append(p.MainDeck, p.Hand...)
	p.Hand = nil
	m.shuffleDeck(p)
	return m.drawCards(p, n)
}

// randomDiscardFrom removes up to n random cards from the player's hand
// into the discard pile and returns the ids removed.
func (m *MatchState) randomDiscardFrom(p *PlayerState, n int) []string {
	var removed []string
	r := m.rng()
	for i := 0; i < n && len(p.Hand) > 0; i++ {
		idx := r.Intn(len(p.Hand))
		id := p.RemoveFromHand(idx)
		p.DiscardPile = append(p.DiscardPile, id)
		removed = append(removed, id)
	}
	return removed
}
