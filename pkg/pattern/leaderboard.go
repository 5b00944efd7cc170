package pattern

// Leaderboard represents a ranked list of items by metric.
type Leaderboard struct {
	Label      string
	MetricName string // e.g. "Statement"
	Items      []LeaderboardItem
	TotalCount int // total before filtering to top N
	ShowRank   bool
}

// LeaderboardItem is a single ranked entry.
type LeaderboardItem struct {
	Name    string
	Metric  string  // formatted value, e.g. "40% (4 / 10)"
	Value   float64 // numeric value for sorting
	Rank    int
	Context string // environment the unit belongs to
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }
