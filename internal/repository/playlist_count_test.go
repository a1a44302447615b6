package repository

import "testing"

// playlistMirror models the playlist membership set with its mirrored
// video_count, including the video-delete path: the FK cascade removes
// membership rows, and the delete transaction decrements each affected
// playlist with the same video_count > 0 guard the SQL uses.
type playlistMirror struct {
	members map[string]map[string]bool // playlist -> video set
	counts  map[string]int64
}

func newPlaylistMirror() *playlistMirror {
	return &playlistMirror{
		members: make(map[string]map[string]bool),
		counts:  make(map[string]int64),
	}
}

func (m *playlistMirror) add(playlist, video string) bool {
	set := m.members[playlist]
	if set == nil {
		set = make(map[string]bool)
		m.members[playlist] = set
	}
	if set[video] {
		return false
	}
	set[video] = true
	m.counts[playlist]++
	return true
}

// deleteVideo mimics DELETE FROM videos: decrement every containing
// playlist, then cascade the membership rows away.
func (m *playlistMirror) deleteVideo(video string) {
	for playlist, set := range m.members {
		if !set[video] {
			continue
		}
		if m.counts[playlist] > 0 {
			m.counts[playlist]--
		}
		delete(set, video)
	}
}

// reconcile mimics the maintenance pass: rewrite counts from the
// membership table. Returns the number of repaired playlists.
func (m *playlistMirror) reconcile() int {
	repaired := 0
	for playlist, set := range m.members {
		if actual := int64(len(set)); m.counts[playlist] != actual {
			m.counts[playlist] = actual
			repaired++
		}
	}
	return repaired
}

func TestVideoDeleteKeepsPlaylistCountsInSync(t *testing.T) {
	m := newPlaylistMirror()
	m.add("p1", "v1")
	m.add("p1", "v2")
	m.add("p2", "v1")

	m.deleteVideo("v1")

	for playlist, set := range m.members {
		if m.counts[playlist] != int64(len(set)) {
			t.Errorf("playlist %s: count = %d, members = %d; mirror drifted",
				playlist, m.counts[playlist], len(set))
		}
	}
	if m.counts["p1"] != 1 || m.counts["p2"] != 0 {
		t.Errorf("counts after delete = %v, want p1=1 p2=0", m.counts)
	}
}

func TestVideoDeleteDecrementNeverGoesNegative(t *testing.T) {
	m := newPlaylistMirror()
	// Drifted state: membership exists but the count already reads 0.
	m.members["p1"] = map[string]bool{"v1": true}
	m.counts["p1"] = 0

	m.deleteVideo("v1")
	if m.counts["p1"] != 0 {
		t.Errorf("count = %d, want 0; guarded decrement must not underflow", m.counts["p1"])
	}
}

func TestPlaylistCountReconcileRepairsDrift(t *testing.T) {
	m := newPlaylistMirror()
	m.add("p1", "v1")
	m.add("p1", "v2")
	m.add("p2", "v3")

	// Simulate a counter that drifted without its membership changing.
	m.counts["p1"] = 7

	if repaired := m.reconcile(); repaired != 1 {
		t.Fatalf("repaired = %d, want 1", repaired)
	}
	if m.counts["p1"] != 2 {
		t.Errorf("count = %d, want 2 after reconcile", m.counts["p1"])
	}
	if m.reconcile() != 0 {
		t.Error("second reconcile should find nothing to repair")
	}
}
