package requests

import (
	"testing"

	"elevcoord/src/types"
)

func hallBtn(floor int, h types.HallType) types.ButtonEvent {
	return types.ButtonEvent{Floor: floor, Button: h.Button()}
}

func TestAddRemoveIdempotent(t *testing.T) {
	s := NewStore(1, 4)
	cab := types.ButtonEvent{Floor: 2, Button: types.BT_Cab}

	if !s.Add(cab) {
		t.Fatal("first add should change the store")
	}
	if s.Add(cab) {
		t.Error("second add should be a no-op")
	}
	if !s.View()[2][types.BT_Cab] {
		t.Error("cab request missing from view")
	}
	if !s.Remove(cab) {
		t.Fatal("remove of a pending request should change the store")
	}
	if s.Remove(cab) {
		t.Error("removing an absent request should be a no-op")
	}
	if s.Add(types.ButtonEvent{Floor: 9, Button: types.BT_Cab}) {
		t.Error("out of range floor accepted")
	}
}

func TestHallCallLifecycle(t *testing.T) {
	s := NewStore(1, 4)
	btn := hallBtn(3, types.HallDown)

	if !s.Add(btn) {
		t.Fatal("hall press not recorded")
	}
	if s.Add(btn) {
		t.Error("duplicate hall press recorded twice")
	}
	if calls := s.Calls(); len(calls) != 1 || calls[0].Order.Floor != 3 {
		t.Fatalf("calls = %v", calls)
	}
	if s.View()[3][types.BT_HallDown] {
		t.Error("unassigned hall call must not enter the local view")
	}

	m := types.NewHallMatrix(4)
	m[3][types.HallDown] = types.HallRequest{Status: types.HallAssigned, Assignee: 1}
	if !s.SetHallMatrix(m) {
		t.Error("assignment to this car should change the view")
	}
	if len(s.Calls()) != 0 {
		t.Error("call should be pruned once the master shows it")
	}
	if !s.View()[3][types.BT_HallDown] {
		t.Error("assigned hall call missing from view")
	}
	if s.Add(btn) {
		t.Error("pressing an already pending hall call should be a no-op")
	}

	if !s.Remove(btn) {
		t.Fatal("serving the hall call should change the store")
	}
	served := s.Served()
	if len(served) != 1 || served[0].Seq != 0 {
		t.Fatalf("served = %v", served)
	}

	// The master has not processed the report yet: the cell stays cleared locally.
	if s.SetHallMatrix(m) {
		t.Error("stale matrix must not re-add a served call")
	}
	if s.View()[3][types.BT_HallDown] {
		t.Error("served call came back")
	}

	done := types.NewHallMatrix(4)
	done[3][types.HallDown] = types.HallRequest{Status: types.HallInactive, Seq: 1}
	s.SetHallMatrix(done)
	if len(s.Served()) != 0 {
		t.Error("served report should be pruned after the master clears the cell")
	}
}

func TestAssignmentToOtherCar(t *testing.T) {
	s := NewStore(1, 4)
	m := types.NewHallMatrix(4)
	m[1][types.HallUp] = types.HallRequest{Status: types.HallAssigned, Assignee: 2}
	if s.SetHallMatrix(m) {
		t.Error("another car's assignment should not change this view")
	}
	if s.Remove(hallBtn(1, types.HallUp)) {
		t.Error("cannot serve a call assigned elsewhere")
	}
}

func TestRelinquishAndRestore(t *testing.T) {
	s := NewStore(0, 3)
	m := types.NewHallMatrix(3)
	m[2][types.HallDown] = types.HallRequest{Status: types.HallAssigned, Assignee: 0}
	s.SetHallMatrix(m)

	if !s.Relinquish() {
		t.Error("relinquish should drop the hall request")
	}
	if Count(s.View()) != 0 {
		t.Error("view should be empty")
	}

	s.Add(types.ButtonEvent{Floor: 0, Button: types.BT_Cab})
	if !s.RestoreCab([]bool{true, true, false}) {
		t.Error("restore should add floor 1")
	}
	if got := s.Cab(); !got[0] || !got[1] || got[2] {
		t.Errorf("cab = %v", got)
	}
	if s.RestoreCab([]bool{true, true, false}) {
		t.Error("restore is a merge and should be idempotent")
	}
}

func TestCounting(t *testing.T) {
	reqs := types.NewRequests(5)
	reqs[1][types.BT_Cab] = true
	reqs[4][types.BT_HallDown] = true

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"above 1", Above(reqs, 1), true},
		{"above 4", Above(reqs, 4), false},
		{"below 1", Below(reqs, 1), false},
		{"below 2", Below(reqs, 2), true},
		{"here 1", Here(reqs, 1), true},
		{"beyond up from 2", Beyond(reqs, 2, types.MD_Up), true},
		{"beyond stop", Beyond(reqs, 2, types.MD_Stop), false},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	low, high, ok := Extremes(reqs)
	if !ok || low != 1 || high != 4 {
		t.Errorf("Extremes = %d, %d, %v", low, high, ok)
	}
	if Count(reqs) != 2 {
		t.Errorf("Count = %d", Count(reqs))
	}
}
