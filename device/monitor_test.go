package device

import "testing"

func TestDiffSetAddedAndRemoved(t *testing.T) {
	old := map[string]Volume{"a": {ID: "a"}, "b": {ID: "b"}}
	next := map[string]Volume{"b": {ID: "b"}, "c": {ID: "c"}}

	var events []MonitorEvent
	diffSet(old, next, EventVolumeAdded, EventVolumeRemoved, func(e MonitorEvent) {
		events = append(events, e)
	})

	var added, removed []string
	for _, e := range events {
		switch e.Kind {
		case EventVolumeAdded:
			added = append(added, e.ID)
		case EventVolumeRemoved:
			removed = append(removed, e.ID)
		}
	}
	if len(added) != 1 || added[0] != "c" {
		t.Fatalf("expected added=[c], got %v", added)
	}
	if len(removed) != 1 || removed[0] != "a" {
		t.Fatalf("expected removed=[a], got %v", removed)
	}
}

func TestGraphMountForPathLongestMatch(t *testing.T) {
	g := &Graph{
		Mounts: map[string]Mount{
			"root": {ID: "root", RootURI: "file:///"},
			"home": {ID: "home", RootURI: "file:///home"},
		},
	}
	m, ok := g.MountForPath("/home/user/docs")
	if !ok || m.ID != "home" {
		t.Fatalf("expected longest-prefix match 'home', got %+v ok=%v", m, ok)
	}
}
