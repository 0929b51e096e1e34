package ranking

import (
	"math"
	"sort"

	"github.com/curia-dev/curia/pkg/council"
)

// Aggregate folds every evaluator's parsed ranking into one placement per
// node. Labels map back to nodes through labelToNode; unknown labels are
// skipped and duplicate labels within one ranking keep their first
// position. The result sorts by mean position ascending, then vote count
// descending, then node id.
func Aggregate(rankings []council.Ranking, labelToNode map[string]string) []council.AggregateRank {
	type tally struct {
		sum   int
		votes int
	}
	tallies := make(map[string]*tally)

	for _, r := range rankings {
		seen := make(map[string]bool, len(r.Labels))
		for i, label := range r.Labels {
			if seen[label] {
				continue
			}
			seen[label] = true

			nodeID, ok := labelToNode[label]
			if !ok {
				continue
			}
			t := tallies[nodeID]
			if t == nil {
				t = &tally{}
				tallies[nodeID] = t
			}
			t.sum += i + 1
			t.votes++
		}
	}

	nodeLabel := make(map[string]string, len(labelToNode))
	for label, nodeID := range labelToNode {
		nodeLabel[nodeID] = label
	}

	out := make([]council.AggregateRank, 0, len(tallies))
	for nodeID, t := range tallies {
		mean := float64(t.sum) / float64(t.votes)
		out = append(out, council.AggregateRank{
			NodeID:       nodeID,
			Label:        nodeLabel[nodeID],
			MeanPosition: math.Round(mean*100) / 100,
			Votes:        t.votes,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanPosition != out[j].MeanPosition {
			return out[i].MeanPosition < out[j].MeanPosition
		}
		if out[i].Votes != out[j].Votes {
			return out[i].Votes > out[j].Votes
		}
		return out[i].NodeID < out[j].NodeID
	})
	return out
}
