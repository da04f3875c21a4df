package analytics

// Tally summarizes what happened in one cabinet since it started.
type Tally struct {
	Spawns       int     `json:"spawns"`
	BonusSpawns  int     `json:"bonusSpawns"`
	HostileHits  int     `json:"hostileHits"`
	BonusHits    int     `json:"bonusHits"`
	FriendlyHits int     `json:"friendlyHits"`
	Expiries     int     `json:"expiries"`
	Triggers     int     `json:"triggers"`   // shots: quiet-to-loud transitions of the gate
	LoudFrames   int     `json:"loudFrames"` // frames the gate stayed loud
	Accuracy     float64 `json:"accuracy"`   // percentage of shots that hit a hostile target
	BestScore    uint16  `json:"bestScore"`

	accurate       int
	lastHitShot int
}
