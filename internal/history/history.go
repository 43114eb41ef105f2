// Package history exports finished hands in the PHH format (poker hand
// history, a TOML-based interchange format). Records are derived entirely
// from an engine snapshot's event log, so anything the engine played can be
// exported after the fact.
package history

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cardroomlabs/holdem-advisor/internal/engine"
	"github.com/cardroomlabs/holdem-advisor/internal/fileutil"
)

// Record is one hand in PHH form. Seats are 1-based on the wire ("p1".."p6")
// per the format.
type Record struct {
	Variant           string   `toml:"variant"`
	SeatCount         int      `toml:"seat_count"`
	Antes             []int    `toml:"antes"`
	BlindsOrStraddles []int    `toml:"blinds_or_straddles"`
	MinBet            int      `toml:"min_bet"`
	StartingStacks    []int    `toml:"starting_stacks"`
	FinishingStacks   []int    `toml:"finishing_stacks,omitempty"`
	Actions           []string `toml:"actions"`
	HandID            string   `toml:"hand"`
}

// FromSnapshot builds a record for the most recent hand in the snapshot.
// The hand must have ended; a live hand has no finishing stacks yet.
func FromSnapshot(snap engine.Snapshot) (*Record, error) {
	if snap.State.Phase != "ended" {
		return nil, fmt.Errorf("history: hand %d has not ended", snap.State.HandID)
	}
	handID := snap.State.HandID

	rec := &Record{
		Variant:           "NT",
		SeatCount:         len(snap.State.Players),
		Antes:             make([]int, len(snap.State.Players)),
		BlindsOrStraddles: make([]int, len(snap.State.Players)),
		MinBet:            snap.Config.BigBlind,
		HandID:            fmt.Sprintf("%d", handID),
	}

	// Hole cards are still attached to the snapshot until the next hand is
	// dealt; they come first in the action script.
	for _, p := range snap.State.Players {
		if len(p.HoleCards) == 2 {
			rec.Actions = append(rec.Actions,
				fmt.Sprintf("d dh p%d %s", p.Seat+1, strings.Join(p.HoleCards, "")))
		}
	}

	for _, ev := range snap.Events {
		if ev.HandID != handID {
			continue
		}
		switch data := ev.Data.(type) {
		case engine.HandStartedData:
			rec.StartingStacks = append([]int(nil), data.Stacks...)
		case engine.BlindPostedData:
			rec.BlindsOrStraddles[data.Seat] = data.Amount
		case engine.ActionTakenData:
			if line, ok := formatAction(data); ok {
				rec.Actions = append(rec.Actions, line)
			}
		case engine.StreetDealtData:
			rec.Actions = append(rec.Actions, "d db "+strings.Join(data.Cards, ""))
		case engine.HandEndedData:
			rec.FinishingStacks = append([]int(nil), data.Stacks...)
		}
	}

	if rec.StartingStacks == nil {
		return nil, fmt.Errorf("history: no hand_started event for hand %d", handID)
	}
	return rec, nil
}

// formatAction maps an engine action onto the PHH action vocabulary:
// f for fold, cc for check and call, cbr with the total street commitment
// for bets and raises.
func formatAction(data engine.ActionTakenData) (string, bool) {
	player := fmt.Sprintf("p%d", data.Seat+1)
	switch data.Action {
	case engine.ActionFold:
		return player + " f", true
	case engine.ActionCheck, engine.ActionCall:
		return player + " cc", true
	case engine.ActionBet, engine.ActionRaise:
		return fmt.Sprintf("%s cbr %d", player, data.Amount), true
	default:
		return "", false
	}
}

// Encode writes the record as PHH TOML.
func Encode(w io.Writer, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("history: record is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(rec)
}

// Writer persists one PHH file per hand into a directory.
type Writer struct {
	Dir string
}

// WriteHand exports the snapshot's ended hand to <dir>/hand-<id>.phh. The
// write is atomic so observers never see a truncated record.
func (w *Writer) WriteHand(snap engine.Snapshot) error {
	rec, err := FromSnapshot(snap)
	if err != nil {
		return err
	}

	var buf strings.Builder
	if err := Encode(&buf, rec); err != nil {
		return err
	}

	path := filepath.Join(w.Dir, fmt.Sprintf("hand-%s.phh", rec.HandID))
	return fileutil.WriteFileAtomic(path, []byte(buf.String()), 0o644)
}
