// Package worldview holds one node's merged belief about every car and the
// hall assignments, and the merge rules applied to messages from peers.
//
// Every rule is a per-key maximum: car replicas are ordered by the sender's
// version, the hall matrix by its (version, masterId) tag. Applying the same
// messages in any order, any number of times, gives the same worldview.
package worldview

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"elevcoord/src/types"

	"github.com/tiendc/go-deepcopy"
)

// ErrStaleUpdate is returned for messages the worldview already supersedes.
var ErrStaleUpdate = errors.New("stale update")

const NoMaster = -1

// Pending is the last set of sticky reports received from one car.
type Pending struct {
	Calls  []types.HallCall
	Served []types.HallServed
}

type Worldview struct {
	Self int
	// Version is HallVersion plus the sum of every car's version.
	Version   uint64
	MasterID  int
	Elevators map[int]types.ElevState
	Hall      types.HallMatrix

	HallVersion uint64
	HallMaster  int
	// HallSeen is the highest hall version observed, accepted or not.
	HallSeen uint64

	Pending map[int]Pending
}

// New returns the worldview of a node booted at boot. The local car starts
// unavailable at an unknown floor.
func New(self, numFloors int, boot time.Time) *Worldview {
	wv := &Worldview{
		Self:       self,
		MasterID:   NoMaster,
		Elevators:  make(map[int]types.ElevState),
		Hall:       types.NewHallMatrix(numFloors),
		HallMaster: NoMaster,
		Pending:    make(map[int]Pending),
	}
	wv.Elevators[self] = types.ElevState{
		NodeID:      self,
		Floor:       -1,
		Dir:         types.MD_Stop,
		Behaviour:   types.Unavailable,
		CabRequests: make([]bool, numFloors),
		Version:     uint64(boot.UnixMilli()),
		Active:      true,
		LastSeen:    boot,
	}
	wv.recompute()
	return wv
}

func (wv *Worldview) NumFloors() int {
	return len(wv.Hall)
}

// ApplyStateSync merges the state of a peer. It is accepted only if its
// version is newer than the replica held for the sender.
func (wv *Worldview) ApplyStateSync(msg StateSync, now time.Time) error {
	id := msg.State.NodeID
	if id == wv.Self {
		return fmt.Errorf("state sync from own id %d: %w", id, ErrStaleUpdate)
	}
	if id < 0 || len(msg.State.CabRequests) != wv.NumFloors() {
		return fmt.Errorf("invalid state sync from node %d", id)
	}
	if stored, found := wv.Elevators[id]; found && msg.State.Version <= stored.Version {
		return fmt.Errorf("state sync from node %d version %d, have %d: %w",
			id, msg.State.Version, stored.Version, ErrStaleUpdate)
	}

	st := msg.State
	st.CabRequests = slices.Clone(st.CabRequests)
	st.Active = true
	st.LastSeen = now
	wv.Elevators[id] = st
	wv.Pending[id] = Pending{
		Calls:  slices.Clone(msg.Calls),
		Served: slices.Clone(msg.Served),
	}
	wv.recompute()
	return nil
}

// ApplyHallBroadcast installs a hall matrix if its tag wins: a higher version,
// or an equal version from a lower master id.
func (wv *Worldview) ApplyHallBroadcast(msg HallRequestBroadcast) error {
	if len(msg.Hall) != wv.NumFloors() {
		return fmt.Errorf("invalid hall matrix with %d floors from node %d", len(msg.Hall), msg.MasterID)
	}
	wv.HallSeen = max(wv.HallSeen, msg.Version)

	if !tagWins(msg.Version, msg.MasterID, wv.HallVersion, wv.HallMaster) {
		return fmt.Errorf("hall broadcast (%d, %d), have (%d, %d): %w",
			msg.Version, msg.MasterID, wv.HallVersion, wv.HallMaster, ErrStaleUpdate)
	}

	wv.Hall = msg.Hall.Clone()
	wv.HallVersion = msg.Version
	wv.HallMaster = msg.MasterID
	wv.recompute()
	return nil
}

func tagWins(version uint64, master int, curVersion uint64, curMaster int) bool {
	if version != curVersion {
		return version > curVersion
	}
	return curMaster == NoMaster || master < curMaster
}

// SetLocal replaces the local car's state with the one reported by its owner.
// The version is kept; it only moves in NextLocal.
func (wv *Worldview) SetLocal(report types.LocalReport, now time.Time) {
	prev := wv.Elevators[wv.Self]
	st := report.State
	st.NodeID = wv.Self
	st.CabRequests = slices.Clone(st.CabRequests)
	st.Version = prev.Version
	st.Active = true
	st.LastSeen = now
	wv.Elevators[wv.Self] = st
	wv.Pending[wv.Self] = Pending{
		Calls:  slices.Clone(report.Calls),
		Served: slices.Clone(report.Served),
	}
}

// NextLocal bumps the local version and returns the heartbeat to broadcast.
func (wv *Worldview) NextLocal(now time.Time) StateSync {
	st := wv.Elevators[wv.Self]
	st.Version++
	st.LastSeen = now
	wv.Elevators[wv.Self] = st
	wv.recompute()

	p := wv.Pending[wv.Self]
	st.CabRequests = slices.Clone(st.CabRequests)
	return StateSync{
		State:     st,
		Calls:     slices.Clone(p.Calls),
		Served:    slices.Clone(p.Served),
		Timestamp: now,
	}
}

// Claim makes the local node the author of the hall matrix. Its version
// outranks every matrix seen so far, so the first broadcast of a new master
// supersedes the previous one.
func (wv *Worldview) Claim() {
	if wv.HallMaster == wv.Self {
		return
	}
	wv.HallVersion = max(wv.HallVersion, wv.HallSeen) + 1
	wv.HallSeen = wv.HallVersion
	wv.HallMaster = wv.Self
	wv.recompute()
}

// ApplyPending folds the sticky reports of every car into the hall matrix.
// Only the master calls it. Calls raise inactive cells of the same sequence;
// served reports clear the cell they name and bump its sequence.
func (wv *Worldview) ApplyPending() bool {
	hall := wv.Hall.Clone()
	for _, id := range slices.Sorted(maps.Keys(wv.Pending)) {
		p := wv.Pending[id]
		for _, served := range p.Served {
			if !validOrder(hall, served.Order) {
				continue
			}
			cell := &hall[served.Order.Floor][served.Order.Button]
			if cell.Pending() && cell.Seq == served.Seq {
				*cell = types.HallRequest{Status: types.HallInactive, Seq: cell.Seq + 1}
			}
		}
		for _, call := range p.Calls {
			if !validOrder(hall, call.Order) {
				continue
			}
			cell := &hall[call.Order.Floor][call.Order.Button]
			if !cell.Pending() && cell.Seq == call.Seq {
				cell.Status = types.HallRequested
			}
		}
	}
	return wv.WriteHall(hall)
}

// WriteHall installs a matrix produced by the master and bumps the hall
// version if it differs from the current one.
func (wv *Worldview) WriteHall(hall types.HallMatrix) bool {
	if hall.Equal(wv.Hall) {
		return false
	}
	wv.Hall = hall.Clone()
	wv.HallVersion = max(wv.HallVersion, wv.HallSeen) + 1
	wv.HallSeen = wv.HallVersion
	wv.HallMaster = wv.Self
	wv.recompute()
	return true
}

// HallBroadcast returns the master's broadcast of the current matrix.
func (wv *Worldview) HallBroadcast() HallRequestBroadcast {
	backup := make(map[int][]bool, len(wv.Elevators))
	for id, st := range wv.Elevators {
		backup[id] = slices.Clone(st.CabRequests)
	}
	return HallRequestBroadcast{
		Version:   wv.HallVersion,
		MasterID:  wv.HallMaster,
		Hall:      wv.Hall.Clone(),
		CabBackup: backup,
	}
}

// ActiveIDs returns the ids of the active cars in ascending order.
func (wv *Worldview) ActiveIDs() []int {
	ids := make([]int, 0, len(wv.Elevators))
	for id, st := range wv.Elevators {
		if st.Active {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Snapshot returns a copy sharing no memory with wv.
func (wv *Worldview) Snapshot() (Worldview, error) {
	out := *wv
	out.Hall = wv.Hall.Clone()
	out.Elevators = make(map[int]types.ElevState, len(wv.Elevators))
	for id, st := range wv.Elevators {
		st.CabRequests = slices.Clone(st.CabRequests)
		out.Elevators[id] = st
	}
	out.Pending = nil
	if err := deepcopy.Copy(&out.Pending, wv.Pending); err != nil {
		return out, fmt.Errorf("cannot copy pending reports: %w", err)
	}
	return out, nil
}

func (wv *Worldview) recompute() {
	v := wv.HallVersion
	for _, st := range wv.Elevators {
		v += st.Version
	}
	wv.Version = v
}

func validOrder(hall types.HallMatrix, o types.HallOrder) bool {
	return o.Floor >= 0 && o.Floor < len(hall) && (o.Button == types.HallUp || o.Button == types.HallDown)
}
