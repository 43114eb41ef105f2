package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{Seed: "test", SmallBlind: 5, BigBlind: 10, StartingStack: 1000}
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg, nil)
	require.NoError(t, err)
	return e
}

// apply is a shorthand that fails the test on an invalid action.
func apply(t *testing.T, e *Engine, typ ActionType, amount ...int) {
	t.Helper()
	req := ActionRequest{Actor: e.ActionSeat(), Type: typ}
	if len(amount) > 0 {
		req.Amount = amount[0]
	}
	require.NoError(t, e.ApplyAction(req))
}

// playOut finishes the current hand with a call-or-check policy.
func playOut(t *testing.T, e *Engine) {
	t.Helper()
	for e.Phase() != PhaseEnded {
		for _, la := range e.GetLegalActions() {
			if la.Type == ActionCheck || la.Type == ActionCall {
				apply(t, e, la.Type)
				break
			}
		}
	}
}

func stackSum(e *Engine) int {
	sum := 0
	for _, p := range e.GetSnapshot().State.Players {
		sum += p.Stack
	}
	return sum
}

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Seed: "x", SmallBlind: 0, BigBlind: 10, StartingStack: 100}, nil)
	assert.Error(t, err)

	_, err = New(Config{Seed: "x", SmallBlind: 10, BigBlind: 10, StartingStack: 100}, nil)
	assert.Error(t, err)

	_, err = New(Config{Seed: "x", SmallBlind: 5, BigBlind: 10}, nil)
	assert.Error(t, err)

	_, err = New(Config{Seed: "x", SmallBlind: 5, BigBlind: 10, Stacks: []int{100, 100}}, nil)
	assert.Error(t, err)
}

func TestNotEnoughFundedSeats(t *testing.T) {
	t.Parallel()

	_, err := New(Config{
		Seed: "x", SmallBlind: 5, BigBlind: 10,
		Stacks: []int{100, 0, 0, 0, 0, 0},
	}, nil)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestFirstHandPositions(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	snap := e.GetSnapshot()

	assert.Equal(t, 1, snap.State.HandID)
	assert.Equal(t, 0, snap.State.DealerSeat)
	assert.Equal(t, 1, snap.State.SmallBlindSeat)
	assert.Equal(t, 2, snap.State.BigBlindSeat)
	assert.Equal(t, 3, snap.State.ActionSeat)
	assert.Equal(t, "preflop", snap.State.Phase)

	assert.Equal(t, 995, snap.State.Players[1].Stack)
	assert.Equal(t, 990, snap.State.Players[2].Stack)
	assert.Equal(t, 10, snap.State.CurrentBet)
	assert.Equal(t, 20, snap.State.MinRaiseTo)

	for _, p := range snap.State.Players {
		assert.Len(t, p.HoleCards, 2, "seat %d", p.Seat)
	}
	assert.Empty(t, snap.State.Board)
}

func TestBlindAssignmentSkipsBustedSeats(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{
		Seed: "skip", SmallBlind: 5, BigBlind: 10,
		Stacks: []int{1000, 1000, 1000, 0, 1000, 1000},
	})

	snap := e.GetSnapshot()
	assert.Equal(t, 0, snap.State.DealerSeat)
	assert.Equal(t, 1, snap.State.SmallBlindSeat)
	assert.Equal(t, 2, snap.State.BigBlindSeat)
	assert.Equal(t, "out", snap.State.Players[3].Status)

	playOut(t, e)
	require.NoError(t, e.StartNextHand())

	// Seat 3 sits between the small and big blind; both scans skip it.
	snap = e.GetSnapshot()
	assert.Equal(t, 1, snap.State.DealerSeat)
	assert.Equal(t, 2, snap.State.SmallBlindSeat)
	assert.Equal(t, 4, snap.State.BigBlindSeat)
}

func TestButtonAdvancesOntoBustedSeat(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{
		Seed: "button", SmallBlind: 5, BigBlind: 10,
		Stacks: []int{1000, 1000, 1000, 0, 1000, 1000},
	})

	for hand := 1; hand < 4; hand++ {
		playOut(t, e)
		require.NoError(t, e.StartNextHand())
	}

	// The button is positional and lands on the empty seat; only the blinds
	// skip past it.
	snap := e.GetSnapshot()
	assert.Equal(t, 3, snap.State.DealerSeat)
	assert.Equal(t, 4, snap.State.SmallBlindSeat)
	assert.Equal(t, 5, snap.State.BigBlindSeat)
}

func TestStartNextHandWhileLive(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	assert.ErrorIs(t, e.StartNextHand(), ErrHandNotEnded)
}

func TestChipConservationOverManyHands(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	total := stackSum(e) + committedSum(e)

	for hand := 0; hand < 50; hand++ {
		playOut(t, e)
		require.Equal(t, total, stackSum(e), "hand %d", e.HandID())
		require.NoError(t, e.StartNextHand())
	}
}

func TestEndedHandClearsCommitments(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	total := stackSum(e) + committedSum(e)

	playOut(t, e)

	// Once pots are paid out the chips exist only in stacks; lingering
	// commitments would show up a second time in the derived pots.
	snap := e.GetSnapshot()
	require.Equal(t, "ended", snap.State.Phase)
	assert.Equal(t, total, stackSum(e))
	assert.Zero(t, committedSum(e))
	for _, p := range snap.State.Players {
		assert.Zero(t, p.StreetCommitted, "seat %d", p.Seat)
	}
	assert.Empty(t, snap.State.Pots)
}

func committedSum(e *Engine) int {
	sum := 0
	for _, p := range e.GetSnapshot().State.Players {
		sum += p.TotalCommitted
	}
	return sum
}

func TestDeterministicReplay(t *testing.T) {
	t.Parallel()

	a := newTestEngine(t, testConfig())
	b := newTestEngine(t, testConfig())

	for hand := 0; hand < 10; hand++ {
		playOut(t, a)
		playOut(t, b)

		sa, sb := a.GetSnapshot(), b.GetSnapshot()
		require.Equal(t, sa.State.Board, sb.State.Board, "hand %d", a.HandID())
		for seat := range sa.State.Players {
			require.Equal(t, sa.State.Players[seat].HoleCards, sb.State.Players[seat].HoleCards)
			require.Equal(t, sa.State.Players[seat].Stack, sb.State.Players[seat].Stack)
		}

		require.NoError(t, a.StartNextHand())
		require.NoError(t, b.StartNextHand())
	}
}

func TestLegalActionShape(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())

	// Preflop, facing the big blind: fold, call and raise.
	legal := e.GetLegalActions()
	require.Len(t, legal, 3)
	assert.Equal(t, ActionFold, legal[0].Type)
	assert.Equal(t, ActionCall, legal[1].Type)
	assert.Equal(t, ActionRaise, legal[2].Type)
	assert.Equal(t, 20, legal[2].MinAmount)
	assert.Equal(t, 1000, legal[2].MaxAmount)

	// Walk to the flop; first to act faces no bet: check and bet only.
	for i := 0; i < 5; i++ {
		apply(t, e, ActionCall)
	}
	apply(t, e, ActionCheck) // big blind option
	require.Equal(t, PhaseFlop, e.Phase())

	legal = e.GetLegalActions()
	require.Len(t, legal, 2)
	assert.Equal(t, ActionCheck, legal[0].Type)
	assert.Equal(t, ActionBet, legal[1].Type)
	assert.Equal(t, 10, legal[1].MinAmount)
	assert.Equal(t, 990, legal[1].MaxAmount)
}

func TestBigBlindHasOption(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())

	// Everyone limps; the street must not close until the big blind acts.
	for i := 0; i < 5; i++ {
		apply(t, e, ActionCall)
	}
	require.Equal(t, PhasePreflop, e.Phase())
	require.Equal(t, 2, e.ActionSeat())

	// With the blind already matched the option is check or bet, and the bet
	// must be a real raise over the blind: the blind amount itself would
	// commit nothing and reopen the round for free.
	legal := e.GetLegalActions()
	require.Len(t, legal, 2)
	assert.Equal(t, ActionCheck, legal[0].Type)
	assert.Equal(t, ActionBet, legal[1].Type)
	assert.Equal(t, 20, legal[1].MinAmount)

	err := e.ApplyAction(ActionRequest{Actor: 2, Type: ActionBet, Amount: 10})
	require.Error(t, err)
	assert.Equal(t, 990, e.GetSnapshot().State.Players[2].Stack)

	apply(t, e, ActionBet, 30)
	require.Equal(t, PhasePreflop, e.Phase())
	snap := e.GetSnapshot()
	assert.Equal(t, 30, snap.State.CurrentBet)
	assert.Equal(t, 20, snap.State.LastRaiseSize)
	assert.Equal(t, 50, snap.State.MinRaiseTo)
}

func TestBigBlindShortAllInBetDoesNotReopen(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{
		Seed: "shortoption", SmallBlind: 5, BigBlind: 10,
		Stacks: []int{100, 100, 18, 100, 100, 100},
	})

	for i := 0; i < 5; i++ {
		apply(t, e, ActionCall)
	}
	require.Equal(t, 2, e.ActionSeat())

	// The big blind's whole stack is below a minimum raise: the all-in bet
	// is allowed but the minimum for a full raise stands.
	legal := e.GetLegalActions()
	require.Len(t, legal, 2)
	assert.Equal(t, 18, legal[1].MinAmount)
	apply(t, e, ActionBet, 18)

	snap := e.GetSnapshot()
	assert.Equal(t, 18, snap.State.CurrentBet)
	assert.Equal(t, "all_in", snap.State.Players[2].Status)
	assert.Equal(t, 10, snap.State.LastRaiseSize)
	assert.Equal(t, 20, snap.State.MinRaiseTo)

	// Limpers owe the difference but may not raise.
	require.Equal(t, 3, e.ActionSeat())
	legal = e.GetLegalActions()
	require.Len(t, legal, 2)
	assert.Equal(t, ActionFold, legal[0].Type)
	assert.Equal(t, ActionCall, legal[1].Type)

	for i := 0; i < 5; i++ {
		apply(t, e, ActionCall)
	}
	assert.Equal(t, PhaseFlop, e.Phase())
}

func TestValidationRejectsWithoutMutating(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	before := e.GetSnapshot()

	tests := []struct {
		name string
		req  ActionRequest
	}{
		{"wrong seat", ActionRequest{Actor: 5, Type: ActionFold}},
		{"check facing bet", ActionRequest{Actor: 3, Type: ActionCheck}},
		{"bet facing bet", ActionRequest{Actor: 3, Type: ActionBet, Amount: 50}},
		{"raise below minimum", ActionRequest{Actor: 3, Type: ActionRaise, Amount: 15}},
		{"raise above stack", ActionRequest{Actor: 3, Type: ActionRaise, Amount: 2000}},
		{"raise not exceeding bet", ActionRequest{Actor: 3, Type: ActionRaise, Amount: 10}},
		{"unknown type", ActionRequest{Actor: 3, Type: ActionType("jam")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.ApplyAction(tt.req)
			require.Error(t, err)

			var ia *InvalidActionError
			require.ErrorAs(t, err, &ia)
			assert.Equal(t, before, e.GetSnapshot(), "state must be untouched")
		})
	}
}

func TestMinRaiseProgression(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())

	apply(t, e, ActionRaise, 30)
	snap := e.GetSnapshot()
	assert.Equal(t, 30, snap.State.CurrentBet)
	assert.Equal(t, 20, snap.State.LastRaiseSize)
	assert.Equal(t, 50, snap.State.MinRaiseTo)

	apply(t, e, ActionRaise, 100)
	snap = e.GetSnapshot()
	assert.Equal(t, 100, snap.State.CurrentBet)
	assert.Equal(t, 70, snap.State.LastRaiseSize)
	assert.Equal(t, 170, snap.State.MinRaiseTo)
}

func TestShortAllInRaiseDoesNotReopen(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{
		Seed: "short", SmallBlind: 5, BigBlind: 10,
		Stacks: []int{200, 200, 200, 200, 40, 200},
	})

	// Seat 3 makes a full raise, seat 4 goes all-in for less than a minimum
	// re-raise on top.
	apply(t, e, ActionRaise, 30)
	require.Equal(t, 4, e.ActionSeat())
	apply(t, e, ActionRaise, 40)

	snap := e.GetSnapshot()
	assert.Equal(t, 40, snap.State.CurrentBet)
	assert.Equal(t, "all_in", snap.State.Players[4].Status)
	// The short all-in is not a full raise: the minimum stands.
	assert.Equal(t, 50, snap.State.MinRaiseTo)

	// Seats yet to act retain their raise right.
	apply(t, e, ActionFold) // seat 5
	apply(t, e, ActionFold) // seat 0
	apply(t, e, ActionFold) // seat 1
	require.Equal(t, 2, e.ActionSeat())
	legal := e.GetLegalActions()
	require.Len(t, legal, 3)
	assert.Equal(t, ActionRaise, legal[2].Type)
	apply(t, e, ActionCall) // big blind calls 40

	// Back on the original raiser: call and fold only.
	require.Equal(t, 3, e.ActionSeat())
	legal = e.GetLegalActions()
	require.Len(t, legal, 2)
	assert.Equal(t, ActionFold, legal[0].Type)
	assert.Equal(t, ActionCall, legal[1].Type)

	err := e.ApplyAction(ActionRequest{Actor: 3, Type: ActionRaise, Amount: 80})
	require.Error(t, err)
	apply(t, e, ActionCall)
	assert.Equal(t, PhaseFlop, e.Phase())
}

func TestFullRaiseRestoresRaiseRight(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())

	apply(t, e, ActionRaise, 30) // seat 3
	apply(t, e, ActionRaise, 60) // seat 4, full re-raise
	apply(t, e, ActionFold)      // seat 5
	apply(t, e, ActionFold)      // seat 0
	apply(t, e, ActionFold)      // seat 1
	apply(t, e, ActionFold)      // seat 2

	// The full re-raise restores seat 3's right to raise again.
	require.Equal(t, 3, e.ActionSeat())
	legal := e.GetLegalActions()
	require.Len(t, legal, 3)
	assert.Equal(t, ActionRaise, legal[2].Type)
	assert.Equal(t, 90, legal[2].MinAmount)
}

func TestUncontestedPotReturnsUncalledBet(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())

	apply(t, e, ActionRaise, 50) // seat 3
	for i := 0; i < 5; i++ {
		apply(t, e, ActionFold)
	}

	snap := e.GetSnapshot()
	require.Equal(t, "ended", snap.State.Phase)
	// Seat 3 collects its own 50 back plus both blinds.
	assert.Equal(t, 1015, snap.State.Players[3].Stack)
	assert.Equal(t, 995, snap.State.Players[1].Stack)
	assert.Equal(t, 990, snap.State.Players[2].Stack)
	assert.Zero(t, committedSum(e))
	assert.Empty(t, snap.State.Board, "no board cards on a preflop fold-out")
}

func TestFoldEndsHandImmediately(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	for i := 0; i < 5; i++ {
		apply(t, e, ActionFold)
	}

	snap := e.GetSnapshot()
	assert.Equal(t, "ended", snap.State.Phase)
	assert.Equal(t, -1, snap.State.ActionSeat)
	// Big blind wins the small blind without acting.
	assert.Equal(t, 1005, snap.State.Players[2].Stack)
	assert.Empty(t, e.GetLegalActions())
}

func TestSidePotPartition(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{
		Seed: "sidepots", SmallBlind: 5, BigBlind: 10,
		Stacks: []int{100, 50, 100, 0, 100, 25},
	})

	// Seats commit 100/50/100/-/100/25; three distinct levels.
	apply(t, e, ActionRaise, 100) // seat 4 all-in
	apply(t, e, ActionCall)       // seat 5 all-in for 25
	apply(t, e, ActionCall)       // seat 0 all-in for 100
	apply(t, e, ActionCall)       // seat 1 all-in for 50
	apply(t, e, ActionCall)       // seat 2 all-in for 100

	snap := e.GetSnapshot()
	require.Equal(t, "ended", snap.State.Phase)

	// Settled pots live in the event log; the ended snapshot holds none.
	var awards []PotAwardedData
	for _, ev := range snap.Events {
		if ev.Type == EventPotAwarded {
			data, ok := ev.Data.(PotAwardedData)
			require.True(t, ok)
			awards = append(awards, data)
		}
	}
	require.Len(t, awards, 3)
	assert.Equal(t, 125, awards[0].Amount)
	assert.Equal(t, 100, awards[1].Amount)
	assert.Equal(t, 150, awards[2].Amount)

	assert.Empty(t, snap.State.Pots)
	assert.Equal(t, 375, stackSum(e))
	assert.Len(t, snap.State.Board, 5, "board runs out with everyone all-in")
}

func TestFoldedChipsStayInPot(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())

	apply(t, e, ActionRaise, 50) // seat 3
	apply(t, e, ActionCall)      // seat 4
	apply(t, e, ActionFold)      // seat 5
	apply(t, e, ActionFold)      // seat 0
	apply(t, e, ActionFold)      // seat 1
	apply(t, e, ActionCall)      // seat 2, big blind

	require.Equal(t, PhaseFlop, e.Phase())
	snap := e.GetSnapshot()
	require.Len(t, snap.State.Pots, 2)
	// The dead small blind forms its own level; folded contributors fund the
	// pot but are not eligible for it.
	assert.Equal(t, 20, snap.State.Pots[0].Amount)
	assert.Equal(t, []int{2, 3, 4}, snap.State.Pots[0].Eligible)
	assert.Equal(t, 135, snap.State.Pots[1].Amount)
	assert.Equal(t, []int{2, 3, 4}, snap.State.Pots[1].Eligible)
}

// TestOddChipGoesClockwiseFromButton plays three-way all-in preflop hands
// with a pot that does not divide evenly until a split shows up, then checks
// how the odd chip was assigned.
func TestOddChipGoesClockwiseFromButton(t *testing.T) {
	t.Parallel()

	splits := 0
	for trial := 0; trial < 300 && splits < 3; trial++ {
		e := newTestEngine(t, Config{
			Seed: fmt.Sprintf("oddchip-%d", trial), SmallBlind: 5, BigBlind: 10,
			Stacks: []int{51, 51, 51, 0, 0, 0},
		})

		// Three-way all-in preflop; the 153-chip pot cannot split evenly.
		apply(t, e, ActionRaise, 51)
		apply(t, e, ActionCall)
		apply(t, e, ActionCall)
		require.Equal(t, PhaseEnded, e.Phase())

		snap := e.GetSnapshot()
		for _, ev := range snap.Events {
			if ev.Type != EventPotAwarded {
				continue
			}
			data, ok := ev.Data.(PotAwardedData)
			require.True(t, ok)
			if len(data.Winners) < 2 {
				continue
			}
			splits++

			total := 0
			for _, w := range data.Winners {
				total += w.Amount
			}
			require.Equal(t, data.Amount, total)

			// Winners are paid in clockwise order from the button; shares
			// never differ by more than one chip and any extra chips come
			// first.
			for i := 1; i < len(data.Winners); i++ {
				diff := data.Winners[i-1].Amount - data.Winners[i].Amount
				assert.GreaterOrEqual(t, diff, 0)
				assert.LessOrEqual(t, diff, 1)
			}
		}
	}
	require.Positive(t, splits, "expected at least one split pot in 300 hands")
}

func TestHandEventsAndHistory(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	playOut(t, e)

	snap := e.GetSnapshot()
	types := make(map[EventType]int)
	for _, ev := range snap.Events {
		types[ev.Type]++
	}
	assert.Equal(t, 1, types[EventHandStarted])
	assert.Equal(t, 2, types[EventBlindPosted])
	assert.Positive(t, types[EventActionTaken])
	assert.Positive(t, types[EventPotAwarded])
	assert.Equal(t, 1, types[EventHandSummary])
	assert.Equal(t, 1, types[EventHandEnded])

	assert.NotEmpty(t, snap.ActionHistory)
	for _, rec := range snap.ActionHistory {
		assert.Equal(t, 1, rec.HandID)
	}
}

func TestSnapshotIsDefensiveCopy(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	snap := e.GetSnapshot()
	snap.State.Players[0].Stack = -1
	if len(snap.State.Board) > 0 {
		snap.State.Board[0] = "Xx"
	}
	snap.Events[0] = Event{}

	fresh := e.GetSnapshot()
	assert.Equal(t, 1000, fresh.State.Players[0].Stack)
	assert.Equal(t, EventHandStarted, fresh.Events[0].Type)
}

func TestBlindAllInShorterThanBlind(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{
		Seed: "shortblind", SmallBlind: 5, BigBlind: 10,
		Stacks: []int{100, 100, 4, 100, 100, 100},
	})

	// The big blind seat covers only 4 chips and is all-in at post time.
	snap := e.GetSnapshot()
	assert.Equal(t, "all_in", snap.State.Players[2].Status)
	assert.Equal(t, 4, snap.State.Players[2].TotalCommitted)
	// The table bet is still the full big blind.
	assert.Equal(t, 10, snap.State.CurrentBet)

	playOut(t, e)
	assert.Equal(t, 504, stackSum(e))
}
