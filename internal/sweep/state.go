package sweep

// CellState is the lifecycle of one grid cell within a run.
type CellState int

// Cell states. A cell leaves Pending exactly once.
const (
	Pending CellState = iota
	Skipped
	Completed
)

func (s CellState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Skipped:
		return "skipped"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Cell is one (context length, depth) trial and what happened to it.
type Cell struct {
	ContextLength int
	DepthPercent  int
	State         CellState
	Score         int
	Cost          float64
}

// Summary reports a finished or aborted run.
type Summary struct {
	RunID     string
	Total     int
	Completed int
	Skipped   int
	// Built counts contexts constructed in dry-run mode.
	Built int
	Cost  float64
	Cells []Cell
}
