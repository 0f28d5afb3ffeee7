package dispatcher

import (
	"testing"
	"time"

	"elevcoord/src/config"
	"elevcoord/src/types"
	"elevcoord/src/utils"
	"elevcoord/src/worldview"

	"go.uber.org/mock/gomock"
)

var boot = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDispatcher(id int, lights Lights) *Dispatcher {
	cfg := config.Default()
	cfg.NodeID = id
	return New(cfg, lights, boot)
}

func idleReport(id, floor int) types.LocalReport {
	return types.LocalReport{
		State: types.ElevState{
			NodeID:      id,
			Floor:       floor,
			Dir:         types.MD_Stop,
			Behaviour:   types.Idle,
			CabRequests: make([]bool, config.NumFloors),
		},
	}
}

func heartbeat(id, floor int, version uint64) worldview.StateSync {
	return worldview.StateSync{State: types.ElevState{
		NodeID:      id,
		Floor:       floor,
		Dir:         types.MD_Stop,
		Behaviour:   types.Idle,
		CabRequests: make([]bool, config.NumFloors),
		Version:     version,
	}}
}

func TestSilentDuringGrace(t *testing.T) {
	d := newTestDispatcher(1, nil)

	if msgs := d.tick(boot.Add(500 * time.Millisecond)); len(msgs) != 0 {
		t.Errorf("sent %d messages during the grace period", len(msgs))
	}
	d.update(boot.Add(500 * time.Millisecond))
	if d.acting {
		t.Fatal("acting as master during the grace period")
	}

	now := boot.Add(time.Second)
	d.update(now)
	if !d.acting {
		t.Fatal("lone node is not acting as master")
	}
	msgs := d.tick(now)
	if len(msgs) != 2 || msgs[0].MsgType() != worldview.TypeStateSync || msgs[1].MsgType() != worldview.TypeHallBroadcast {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestMasterAssignsHallCall(t *testing.T) {
	d := newTestDispatcher(1, nil)
	now := boot.Add(time.Second)

	report := idleReport(1, 0)
	report.Calls = []types.HallCall{{Order: types.HallOrder{Floor: 2, Button: types.HallUp}}}
	if err := d.handleLocal(report, now); err != nil {
		t.Fatal(err)
	}

	a, changed := d.update(now)
	if !changed {
		t.Fatal("no assignment after a hall call")
	}
	want := types.HallRequest{Status: types.HallAssigned, Assignee: 1}
	if got := a.Hall[2][types.HallUp]; got != want {
		t.Errorf("cell = %+v, want %+v", got, want)
	}
	if d.wv.HallMaster != 1 {
		t.Errorf("hall master = %d", d.wv.HallMaster)
	}

	if _, changed := d.update(now); changed {
		t.Error("assignment resent without a change")
	}
}

func TestBackupFollowsMaster(t *testing.T) {
	d := newTestDispatcher(2, nil)
	grace := boot.Add(500 * time.Millisecond)
	now := boot.Add(time.Second)

	if err := d.handleLocal(idleReport(2, 3), grace); err != nil {
		t.Fatal(err)
	}
	d.handleMsg(heartbeat(1, 0, 10), grace)

	hall := types.NewHallMatrix(config.NumFloors)
	hall[1][types.HallDown] = types.HallRequest{Status: types.HallAssigned, Assignee: 2}
	d.handleMsg(worldview.HallRequestBroadcast{
		Version: 5, MasterID: 1, Hall: hall,
		CabBackup: map[int][]bool{2: {false, true, false, false}},
	}, grace)
	d.handleMsg(heartbeat(1, 0, 11), now)

	a, changed := d.update(now)
	if !changed {
		t.Fatal("master's hall matrix not handed to the car")
	}
	if d.acting {
		t.Error("backup is acting as master")
	}
	if !a.Hall.Equal(hall) {
		t.Errorf("hall = %+v", a.Hall)
	}
	if len(a.CabBackup) != config.NumFloors || !a.CabBackup[1] {
		t.Errorf("cab backup = %v", a.CabBackup)
	}
	if msgs := d.tick(now); len(msgs) != 1 {
		t.Errorf("backup sent %d messages, want only its heartbeat", len(msgs))
	}

	// A later backup and an older matrix change nothing.
	d.handleMsg(worldview.HallRequestBroadcast{
		Version: 6, MasterID: 1, Hall: hall,
		CabBackup: map[int][]bool{2: {true, true, true, true}},
	}, now)
	d.handleMsg(worldview.HallRequestBroadcast{
		Version: 4, MasterID: 1, Hall: types.NewHallMatrix(config.NumFloors),
	}, now)
	if _, changed := d.update(now); changed {
		t.Error("assignment resent without a change")
	}
	if d.wv.HallVersion != 6 {
		t.Errorf("hall version = %d, want 6", d.wv.HallVersion)
	}
}

func TestStepDownForLowerID(t *testing.T) {
	d := newTestDispatcher(2, nil)
	now := boot.Add(time.Second)

	d.update(now)
	if !d.acting || d.wv.HallMaster != 2 {
		t.Fatalf("acting = %v, hall master = %d", d.acting, d.wv.HallMaster)
	}

	d.handleMsg(heartbeat(1, 0, 1), now)
	d.update(now)
	if d.acting {
		t.Error("still acting with a lower id alive")
	}
	if d.wv.MasterID != 1 {
		t.Errorf("master = %d, want 1", d.wv.MasterID)
	}
}

func TestOwnEchoIgnored(t *testing.T) {
	d := newTestDispatcher(1, nil)
	before := d.wv.Elevators[1]

	echo := heartbeat(1, 3, before.Version+100)
	d.handleMsg(echo, boot)
	if got := d.wv.Elevators[1]; got.Floor != before.Floor || got.Version != before.Version {
		t.Errorf("own state overwritten: %+v", got)
	}
}

func TestInvalidLocalReport(t *testing.T) {
	d := newTestDispatcher(1, nil)
	report := idleReport(1, 0)
	report.State.CabRequests = []bool{false}
	if err := d.handleLocal(report, boot); err == nil {
		t.Error("expected an error for a report with the wrong floor count")
	}
}

func TestHallLightsFollowMatrix(t *testing.T) {
	ctrl := gomock.NewController(t)
	lights := NewMockLights(ctrl)
	d := newTestDispatcher(1, lights)
	now := boot.Add(time.Second)
	order := types.HallOrder{Floor: 2, Button: types.HallUp}

	// No lamps before the car reported.
	if err := d.syncHallLights(); err != nil {
		t.Fatal(err)
	}

	report := idleReport(1, 0)
	report.Calls = []types.HallCall{{Order: order}}
	if err := d.handleLocal(report, now); err != nil {
		t.Fatal(err)
	}
	d.update(now)

	lights.EXPECT().SetButtonLamp(types.BT_HallUp, 2, true)
	for range 2 {
		if err := d.syncHallLights(); err != nil {
			t.Fatal(err)
		}
	}

	report = idleReport(1, 2)
	report.Served = []types.HallServed{{Order: order}}
	if err := d.handleLocal(report, now); err != nil {
		t.Fatal(err)
	}
	d.update(now)
	if cell := d.wv.Hall[2][types.HallUp]; cell.Pending() || cell.Seq != 1 {
		t.Errorf("served cell = %+v", cell)
	}

	lights.EXPECT().SetButtonLamp(types.BT_HallUp, 2, false)
	if err := d.syncHallLights(); err != nil {
		t.Fatal(err)
	}
}

func TestCabBackupOnEveryAssignment(t *testing.T) {
	d := newTestDispatcher(2, nil)
	grace := boot.Add(500 * time.Millisecond)

	d.handleMsg(heartbeat(1, 0, 10), grace)
	d.handleMsg(worldview.HallRequestBroadcast{
		Version: 5, MasterID: 1, Hall: types.NewHallMatrix(config.NumFloors),
		CabBackup: map[int][]bool{2: {false, false, true, false}},
	}, grace)
	first, changed := d.update(grace)
	if !changed || !first.CabBackup[2] {
		t.Fatalf("first assignment = %+v", first)
	}

	// The matrix changes before the car has read the first assignment; the one
	// replacing it must still carry the backup.
	hall := types.NewHallMatrix(config.NumFloors)
	hall[0][types.HallUp] = types.HallRequest{Status: types.HallAssigned, Assignee: 1}
	d.handleMsg(worldview.HallRequestBroadcast{Version: 6, MasterID: 1, Hall: hall}, grace)
	second, changed := d.update(grace)
	if !changed {
		t.Fatal("new matrix not handed to the car")
	}
	if len(second.CabBackup) != config.NumFloors || !second.CabBackup[2] {
		t.Errorf("cab backup = %v, want it on every assignment", second.CabBackup)
	}

	assignCh := make(chan types.Assignment, 1)
	utils.SendLatest(assignCh, first)
	utils.SendLatest(assignCh, second)
	if got := <-assignCh; !got.CabBackup[2] {
		t.Error("backup lost when the pending assignment was replaced")
	}
}

func TestPeerUpdateKeepsStatusCopy(t *testing.T) {
	d := newTestDispatcher(1, nil)
	now := boot.Add(time.Second)

	d.handleMsg(heartbeat(3, 2, 7), now)
	d.update(now)

	st, found := d.status.Elevators[3]
	if !found || st.Floor != 2 {
		t.Fatalf("status = %+v", d.status.Elevators)
	}
	if d.status.MasterID != 1 {
		t.Errorf("status master = %d, want 1", d.status.MasterID)
	}

	// Later merges do not reach the copy.
	d.handleMsg(heartbeat(3, 0, 8), now)
	d.wv.Elevators[1].CabRequests[0] = true
	if d.status.Elevators[3].Floor != 2 || d.status.Elevators[1].CabRequests[0] {
		t.Error("status shares memory with the live worldview")
	}
}
