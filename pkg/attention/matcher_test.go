package attention

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func face(x, y int) Box {
	return Box{X: x, Y: y, W: 120, H: 120}
}

func TestMatcher_Continuity(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	s := NewStore()

	// Jitter within the gates every frame
	jitter := []Box{
		face(200, 100),
		face(210, 104),
		{X: 195, Y: 98, W: 130, H: 118},
		face(220, 110),
		face(205, 96),
	}

	var id int
	for i, box := range jitter {
		res := m.Match(s, []Box{box}, t0.Add(time.Duration(i)*100*time.Millisecond))
		if i == 0 {
			id = res.Assigned[0]
			continue
		}
		if res.Assigned[0] != id {
			t.Fatalf("frame %d: id = %d, want %d", i, res.Assigned[0], id)
		}
		if len(res.Created) != 0 || len(res.Dropped) != 0 {
			t.Fatalf("frame %d: created=%v dropped=%v, want none", i, res.Created, res.Dropped)
		}
	}

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestMatcher_EvictionNeverReusesIDs(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	s := NewStore()

	first := m.Match(s, []Box{face(100, 100)}, t0)
	if first.Assigned[0] != 0 {
		t.Fatalf("first id = %d, want 0", first.Assigned[0])
	}

	gap := m.Match(s, nil, t0.Add(100*time.Millisecond))
	if len(gap.Dropped) != 1 || gap.Dropped[0] != 0 {
		t.Fatalf("Dropped = %v, want [0]", gap.Dropped)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after empty frame, want 0", s.Len())
	}

	back := m.Match(s, []Box{face(100, 100)}, t0.Add(200*time.Millisecond))
	if back.Assigned[0] != 1 {
		t.Errorf("reappearing face id = %d, want 1", back.Assigned[0])
	}
}

func TestMatcher_NoDoubleClaim(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	s := NewStore()
	m.Match(s, []Box{face(5, 0)}, t0)

	// Both boxes are inside the gates of track 0; the first one claims it.
	res := m.Match(s, []Box{face(0, 0), face(6, 0)}, t0.Add(time.Second))

	if res.Assigned[0] != 0 {
		t.Errorf("first box id = %d, want 0", res.Assigned[0])
	}
	if res.Assigned[1] == res.Assigned[0] {
		t.Fatalf("both boxes resolved to track %d", res.Assigned[0])
	}
	if len(res.Created) != 1 || res.Created[0] != res.Assigned[1] {
		t.Errorf("Created = %v, want [%d]", res.Created, res.Assigned[1])
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestMatcher_PicksNearest(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	s := NewStore()
	m.Match(s, []Box{face(0, 0), face(40, 0)}, t0) // ids 0 and 1

	res := m.Match(s, []Box{face(35, 0), face(2, 0)}, t0.Add(time.Second))
	if res.Assigned[0] != 1 {
		t.Errorf("box near track 1 got id %d", res.Assigned[0])
	}
	if res.Assigned[1] != 0 {
		t.Errorf("box near track 0 got id %d", res.Assigned[1])
	}
}

func TestMatcher_TieGoesToOldestTrack(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	s := NewStore()
	s.Create(face(110, 100), t0) // id 0
	s.Create(face(90, 100), t0)  // id 1

	res := m.Match(s, []Box{face(100, 100)}, t0.Add(time.Second))
	if res.Assigned[0] != 0 {
		t.Errorf("tie resolved to %d, want 0", res.Assigned[0])
	}
	if len(res.Dropped) != 1 || res.Dropped[0] != 1 {
		t.Errorf("Dropped = %v, want [1]", res.Dropped)
	}
}

func TestMatcher_Gates(t *testing.T) {
	tests := []struct {
		name    string
		next    Box
		matched bool
	}{
		{"same box", face(100, 100), true},
		{"just inside distance", face(149, 100), true},
		{"at distance threshold", face(150, 100), false},
		{"diagonal beyond threshold", face(140, 140), false},
		{"size diff just inside", Box{X: 100, Y: 100, W: 170, H: 169}, true},
		{"size diff at threshold", Box{X: 100, Y: 100, W: 170, H: 170}, false},
		{"much larger face", Box{X: 100, Y: 100, W: 200, H: 200}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMatcher(DefaultConfig())
			s := NewStore()
			m.Match(s, []Box{face(100, 100)}, t0)

			res := m.Match(s, []Box{tc.next}, t0.Add(time.Second))
			got := res.Assigned[0] == 0
			if got != tc.matched {
				t.Errorf("matched = %v, want %v (id %d)", got, tc.matched, res.Assigned[0])
			}
		})
	}
}

func TestMatcher_CenterAnchor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MatchAnchor = AnchorCenter
	m := NewMatcher(cfg)

	// Corners are 60px apart but centres only 30px apart.
	a := Box{X: 100, Y: 100, W: 100, H: 100}
	b := Box{X: 160, Y: 100, W: 40, H: 100}

	if d := m.Distance(a, b); d != 30 {
		t.Errorf("Distance() = %v, want 30", d)
	}

	corner := NewMatcher(DefaultConfig())
	if d := corner.Distance(a, b); d != 60 {
		t.Errorf("corner Distance() = %v, want 60", d)
	}
}

func TestMatcher_EmptyStoreCreatesAll(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	s := NewStore()

	res := m.Match(s, []Box{face(0, 0), face(400, 0), face(800, 0)}, t0)
	want := []int{0, 1, 2}
	for i, id := range res.Assigned {
		if id != want[i] {
			t.Errorf("Assigned[%d] = %d, want %d", i, id, want[i])
		}
	}
	if len(res.Created) != 3 {
		t.Errorf("Created = %v, want 3 ids", res.Created)
	}
}
