package telemetry

// WindowStats holds aggregated statistics for one window of ticks.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Population at window end
	Humans          int `csv:"humans"`
	Landers         int `csv:"landers"`
	Searching       int `csv:"searching"`
	Pursuing        int `csv:"pursuing"`
	Capturing       int `csv:"capturing"`
	Escaping        int `csv:"escaping"`
	Attacking       int `csv:"attacking"`
	HumansAvailable int `csv:"humans_available"`

	// Events during window
	Spawned     int `csv:"spawned"`
	Claims      int `csv:"claims"`
	Drops       int `csv:"drops"`
	Exits       int `csv:"exits"`
	Shot        int `csv:"shot"`
	FellToDeath int `csv:"fell"`
	Captured    int `csv:"captured"`
	Removed     int `csv:"removed"`
	PlayerHits  int `csv:"player_hits"`
}

// Population is a snapshot of unit counts taken at window end.
type Population struct {
	Humans          int
	HumansAvailable int
	Landers         int
	Searching       int
	Pursuing        int
	Capturing       int
	Escaping        int
	Attacking       int
}
