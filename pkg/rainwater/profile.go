package rainwater

// Profile is the full breakdown of a trap computation.
type Profile struct {
	Heights      []int `json:"heights"`
	LeftHighest  []int `json:"left_highest"`
	RightHighest []int `json:"right_highest"`
	Water        []int `json:"water"`
	Total        int   `json:"total"`
}

// Basin is a maximal run of adjacent positions that hold water.
// Start and End are inclusive indexes into the profile.
type Basin struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Level  int `json:"level"`
	Volume int `json:"volume"`
}

// Compute returns the derived profiles and per-position water for heights.
// The input slice is copied; Profile.Total always equals Trap(heights),
// including its saturation at math.MaxInt.
func Compute(heights []int) Profile {
	p := Profile{
		Heights:      append([]int(nil), heights...),
		LeftHighest:  leftHighest(heights),
		RightHighest: rightHighest(heights),
		Water:        make([]int, len(heights)),
	}
	if p.Heights == nil {
		p.Heights = []int{}
	}

	for i, h := range heights {
		w := min(p.LeftHighest[i], p.RightHighest[i]) - h
		if w < 0 {
			w = 0
		}
		p.Water[i] = w
		p.Total, _ = addWater(p.Total, w)
	}
	return p
}

// WaterLevel returns the surface level above position i, which is the
// height of the bar itself when no water sits there.
func (p Profile) WaterLevel(i int) int {
	return p.Heights[i] + p.Water[i]
}

// MaxHeight returns the highest bar in the profile, or 0 when it is empty.
func (p Profile) MaxHeight() int {
	if len(p.LeftHighest) == 0 {
		return 0
	}
	return p.LeftHighest[len(p.LeftHighest)-1]
}

// Basins splits the water of p into contiguous runs, left to right.
// A run ends where a position holds no water or where the surface level
// changes, so neighbouring pools at different levels are reported apart.
func Basins(p Profile) []Basin {
	var basins []Basin
	var cur *Basin

	for i, w := range p.Water {
		if w == 0 {
			cur = nil
			continue
		}
		level := p.WaterLevel(i)
		if cur != nil && cur.Level == level && cur.End == i-1 {
			cur.End = i
			cur.Volume += w
			continue
		}
		basins = append(basins, Basin{Start: i, End: i, Level: level, Volume: w})
		cur = &basins[len(basins)-1]
	}
	return basins
}
