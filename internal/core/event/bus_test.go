package event

import "testing"

func TestBus_DeliversNextTickInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e UnitSpawned) { got = append(got, "spawned:"+e.Kind) })
	Subscribe(b, func(e UnitKilled) { got = append(got, "killed:"+string(e.Cause)) })

	Emit(b, UnitSpawned{Kind: "human"})
	Emit(b, UnitKilled{Cause: CauseFall})
	Emit(b, UnitSpawned{Kind: "lander"})

	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("events delivered before swap: %v", got)
	}
	if b.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", b.Pending())
	}

	b.SwapBuffers()
	b.DispatchAll()
	want := []string{"spawned:human", "killed:fall", "spawned:lander"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if b.Pending() != 0 {
		t.Errorf("back buffer not cleared, Pending = %d", b.Pending())
	}
}
