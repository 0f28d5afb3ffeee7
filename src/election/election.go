// Package election derives the master from a worldview and detects peers that
// stopped sending heartbeats.
package election

import (
	"log/slog"
	"slices"
	"time"

	"elevcoord/src/types"
	"elevcoord/src/worldview"
)

// MasterID returns the lowest active id, or worldview.NoMaster.
func MasterID(wv *worldview.Worldview) int {
	ids := wv.ActiveIDs()
	if len(ids) == 0 {
		return worldview.NoMaster
	}
	return ids[0]
}

func RoleOf(wv *worldview.Worldview, self int) types.Role {
	if MasterID(wv) == self {
		return types.Master
	}
	return types.Backup
}

// Detector marks peers inactive once they have been silent for longer than
// the heartbeat timeout, and reports who joined and who was lost.
type Detector struct {
	timeout time.Duration
	boot    time.Time
	known   []int
}

func NewDetector(timeout time.Duration, boot time.Time) *Detector {
	return &Detector{timeout: timeout, boot: boot}
}

// Ready reports whether the startup grace period is over. Until then the node
// has not had the chance to hear its peers and must not act as master.
func (d *Detector) Ready(now time.Time) bool {
	return now.Sub(d.boot) >= d.timeout
}

// Sweep times out silent peers, recomputes the master and reports changes in
// the active set. The local node never times out.
func (d *Detector) Sweep(wv *worldview.Worldview, now time.Time) (types.PeerUpdate, bool) {
	for id, st := range wv.Elevators {
		if id == wv.Self || !st.Active {
			continue
		}
		if now.Sub(st.LastSeen) > d.timeout {
			st.Active = false
			wv.Elevators[id] = st
			slog.Debug("Peer timed out", "nodeID", id, "lastSeen", st.LastSeen.Format("15:04:05.000"))
		}
	}
	wv.MasterID = MasterID(wv)

	peers := wv.ActiveIDs()
	var p types.PeerUpdate
	p.Peers = peers
	for _, id := range peers {
		if !slices.Contains(d.known, id) {
			p.New = append(p.New, id)
		}
	}
	for _, id := range d.known {
		if !slices.Contains(peers, id) {
			p.Lost = append(p.Lost, id)
		}
	}
	d.known = peers

	return p, len(p.New) > 0 || len(p.Lost) > 0
}
