package domain

// VoteCounts is the aggregate cache entry for a poll: derived, rebuildable
// from the vote log, never the system of record. Region is logged with each
// vote but deliberately not bucketed here.
type VoteCounts struct {
	Total      int64              `json:"total"`
	Options    []int64            `json:"options"`
	ByGender   map[string][]int64 `json:"byGender"`
	ByAgeGroup map[string][]int64 `json:"byAgeGroup"`
}

func NewVoteCounts(optionCount int) *VoteCounts {
	return &VoteCounts{
		Options:    make([]int64, optionCount),
		ByGender:   map[string][]int64{},
		ByAgeGroup: map[string][]int64{},
	}
}

// Increment applies one vote to the counts. Demographic buckets are lazily
// initialized on first sight of a value.
func (c *VoteCounts) Increment(optionIndex int, demo Demographics) {
	c.Total++
	c.Options[optionIndex]++

	if demo.Gender != nil {
		if c.ByGender[*demo.Gender] == nil {
			c.ByGender[*demo.Gender] = make([]int64, len(c.Options))
		}
		c.ByGender[*demo.Gender][optionIndex]++
	}

	if demo.AgeGroup != nil {
		if c.ByAgeGroup[*demo.AgeGroup] == nil {
			c.ByAgeGroup[*demo.AgeGroup] = make([]int64, len(c.Options))
		}
		c.ByAgeGroup[*demo.AgeGroup][optionIndex]++
	}
}

// Clone returns a deep copy so cache adapters can hand out entries without
// sharing backing arrays with callers.
func (c *VoteCounts) Clone() *VoteCounts {
	out := &VoteCounts{
		Total:      c.Total,
		Options:    append([]int64(nil), c.Options...),
		ByGender:   make(map[string][]int64, len(c.ByGender)),
		ByAgeGroup: make(map[string][]int64, len(c.ByAgeGroup)),
	}
	for k, v := range c.ByGender {
		out.ByGender[k] = append([]int64(nil), v...)
	}
	for k, v := range c.ByAgeGroup {
		out.ByAgeGroup[k] = append([]int64(nil), v...)
	}
	return out
}
