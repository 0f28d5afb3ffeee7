// Package dispatcher owns the worldview of the node. It merges the local car
// report and peer messages, runs the election and, while this node is master,
// assigns hall requests and publishes the hall matrix.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"elevcoord/src/assigner"
	"elevcoord/src/config"
	"elevcoord/src/election"
	"elevcoord/src/types"
	"elevcoord/src/utils"
	"elevcoord/src/worldview"
)

type Dispatcher struct {
	cfg      config.Config
	log      *slog.Logger
	wv       *worldview.Worldview
	detector *election.Detector
	params   assigner.Params
	lights   Lights

	acting      bool
	fingerprint string
	pushed      types.HallMatrix
	cabBackup   []bool
	backupSent  bool
	localSeen   bool
	hallLamps   [][2]bool

	// status is the worldview copy taken at the last change of the peer set.
	status worldview.Worldview
}

func New(cfg config.Config, lights Lights, boot time.Time) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		log:       slog.With("component", "dispatcher"),
		wv:        worldview.New(cfg.NodeID, cfg.NumFloors, boot),
		detector:  election.NewDetector(cfg.HeartbeatTimeout, boot),
		params:    assigner.ParamsFrom(cfg),
		lights:    lights,
		hallLamps: make([][2]bool, cfg.NumFloors),
	}
}

// Run serves the worldview until ctx is cancelled. assignCh must have a
// buffer of one; the executor only ever needs the latest assignment.
func (d *Dispatcher) Run(ctx context.Context,
	localCh <-chan types.LocalReport,
	assignCh chan types.Assignment,
	rx <-chan worldview.Message,
	tx chan<- worldview.Message,
) error {
	broadcast := time.NewTicker(d.cfg.BroadcastPeriod)
	defer broadcast.Stop()

	for {
		var err error
		select {
		case <-ctx.Done():
			return nil
		case report := <-localCh:
			err = d.handleLocal(report, time.Now())
		case msg := <-rx:
			d.handleMsg(msg, time.Now())
		case <-broadcast.C:
			for _, msg := range d.tick(time.Now()) {
				select {
				case tx <- msg:
				default:
					d.log.Debug("Transmit buffer full, dropping message", "type", msg.MsgType())
				}
			}
		}
		if err != nil {
			return err
		}

		if a, changed := d.update(time.Now()); changed {
			utils.SendLatest(assignCh, a)
		}
		if err := d.syncHallLights(); err != nil {
			return fmt.Errorf("cannot set hall lights: %w", err)
		}
	}
}

func (d *Dispatcher) handleLocal(report types.LocalReport, now time.Time) error {
	if len(report.State.CabRequests) != d.cfg.NumFloors {
		return fmt.Errorf("local report with %d floors, want %d", len(report.State.CabRequests), d.cfg.NumFloors)
	}
	d.wv.SetLocal(report, now)
	d.localSeen = true
	return nil
}

func (d *Dispatcher) handleMsg(msg worldview.Message, now time.Time) {
	var err error
	switch msg := msg.(type) {
	case worldview.StateSync:
		err = d.wv.ApplyStateSync(msg, now)
	case worldview.HallRequestBroadcast:
		err = d.wv.ApplyHallBroadcast(msg)
		if backup, found := msg.CabBackup[d.cfg.NodeID]; found && d.cabBackup == nil && !d.detector.Ready(now) {
			d.cabBackup = slices.Clone(backup)
			d.log.Info("Received cab backup", "master", msg.MasterID, "cab", backup)
		}
	default:
		err = fmt.Errorf("unknown message type %T", msg)
	}

	switch {
	case err == nil:
	case errors.Is(err, worldview.ErrStaleUpdate):
		d.log.Debug("Ignoring stale update", "type", msg.MsgType(), "sender", msg.Sender(), "error", err)
	default:
		d.log.Warn("Rejected message", "type", msg.MsgType(), "sender", msg.Sender(), "error", err)
	}
}

// tick returns the messages to broadcast this period. The node stays silent
// during the startup grace period, so that the master's cab backup for it is
// not overwritten by the empty cab of a fresh boot.
func (d *Dispatcher) tick(now time.Time) []worldview.Message {
	if !d.detector.Ready(now) {
		return nil
	}
	msgs := []worldview.Message{d.wv.NextLocal(now)}
	if d.acting {
		msgs = append(msgs, d.wv.HallBroadcast())
	}
	return msgs
}

// update runs the election and, while acting as master, folds pending reports
// into the hall matrix and reassigns it. It returns the assignment for the
// executor whenever it changed.
func (d *Dispatcher) update(now time.Time) (types.Assignment, bool) {
	if p, changed := d.detector.Sweep(d.wv, now); changed {
		d.reportPeers(p)
	}

	acting := d.wv.MasterID == d.cfg.NodeID && d.detector.Ready(now)
	if acting != d.acting {
		d.acting = acting
		d.fingerprint = ""
		if acting {
			d.wv.Claim()
			d.log.Info("Acting as master", "hallVersion", d.wv.HallVersion)
		} else {
			d.log.Info("Stepping down", "master", d.wv.MasterID)
		}
	}

	if d.acting {
		if err := d.reassign(); err != nil {
			d.log.Error("Cannot assign hall requests", "error", err)
		}
	}

	if d.pushed != nil && d.pushed.Equal(d.wv.Hall) && (d.cabBackup == nil || d.backupSent) {
		return types.Assignment{}, false
	}
	d.pushed = d.wv.Hall.Clone()
	// The backup rides on every assignment; the executor restores it once.
	a := types.Assignment{Hall: d.wv.Hall.Clone(), CabBackup: slices.Clone(d.cabBackup)}
	d.backupSent = d.cabBackup != nil
	return a, true
}

// reportPeers logs a change of the peer set together with the cars as they
// are known at that moment.
func (d *Dispatcher) reportPeers(p types.PeerUpdate) {
	snap, err := d.wv.Snapshot()
	if err != nil {
		d.log.Error("Cannot snapshot worldview", "error", err)
		return
	}
	d.status = snap

	d.log.Info("Peer update", "peers", p.Peers, "new", p.New, "lost", p.Lost, "master", snap.MasterID)
	for _, id := range snap.ActiveIDs() {
		st := snap.Elevators[id]
		d.log.Debug("Car", "nodeID", id, "floor", st.Floor, "dir", st.Dir,
			"behaviour", st.Behaviour, "cab", st.CabRequests)
	}
	utils.PrintStatus(d.cfg.NodeID, election.RoleOf(&snap, d.cfg.NodeID), p)
}

// reassign runs the assigner when the pending requests or the eligible cars
// changed since the last run.
func (d *Dispatcher) reassign() error {
	d.wv.ApplyPending()

	fp := d.fingerprintOf()
	if fp == d.fingerprint {
		return nil
	}
	d.fingerprint = fp

	hall, err := assigner.Assign(d.wv.Hall, d.wv.Elevators, d.params)
	if err != nil {
		return err
	}
	if !d.wv.WriteHall(hall) {
		return nil
	}
	utils.ForEachHall(hall, func(floor int, btn types.ButtonType, cell types.HallRequest) {
		if cell.Status != types.HallAssigned {
			return
		}
		order := types.HallOrder{Floor: floor, Button: types.HallDown}
		if btn == types.BT_HallUp {
			order.Button = types.HallUp
		}
		d.log.Debug("Hall request assigned",
			"order", utils.FormatBtnEvent(types.ButtonEvent{Floor: floor, Button: btn}),
			"assignee", cell.Assignee,
			"costs", assigner.Costs(order, hall, d.wv.Elevators, d.params))
	})
	return nil
}

func (d *Dispatcher) fingerprintOf() string {
	var pending []string
	utils.ForEachHall(d.wv.Hall, func(floor int, btn types.ButtonType, cell types.HallRequest) {
		if cell.Pending() {
			pending = append(pending, fmt.Sprintf("%d/%d/%d", floor, btn, cell.Seq))
		}
	})
	var eligible []int
	for _, id := range d.wv.ActiveIDs() {
		st := d.wv.Elevators[id]
		if st.Behaviour != types.Unavailable && st.Floor >= 0 {
			eligible = append(eligible, id)
		}
	}
	return fmt.Sprint(pending, eligible)
}
