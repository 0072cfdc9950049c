package subtitle_test

import (
	"fmt"
	"testing"

	"github.com/subtitle-flow/backend/internal/subtitle"
)

func makeCues(n int) []subtitle.Cue {
	cues := make([]subtitle.Cue, n)
	for i := range cues {
		cues[i] = subtitle.Cue{
			ID:        fmt.Sprintf("%d", i+1),
			StartTime: float64(i),
			EndTime:   float64(i) + 0.5,
			Text:      fmt.Sprintf("line %d", i+1),
		}
	}
	return cues
}

func TestPlanBatchesSixtyByTwentyFive(t *testing.T) {
	batches := subtitle.PlanBatches(makeCues(60), 25)

	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	for i, want := range []int{25, 25, 10} {
		if len(batches[i].Cues) != want {
			t.Errorf("batch %d has %d cues, want %d", i, len(batches[i].Cues), want)
		}
		if batches[i].Index != i+1 || batches[i].Total != 3 {
			t.Errorf("batch %d numbering = (%d, %d)", i, batches[i].Index, batches[i].Total)
		}
	}
}

func TestPlanBatchesPartitionsExactly(t *testing.T) {
	for _, tc := range []struct{ n, size int }{
		{1, 25}, {24, 25}, {25, 25}, {26, 25}, {100, 7}, {5, 1},
	} {
		cues := makeCues(tc.n)
		batches := subtitle.PlanBatches(cues, tc.size)

		wantBatches := (tc.n + tc.size - 1) / tc.size
		if len(batches) != wantBatches {
			t.Fatalf("n=%d size=%d: got %d batches, want %d", tc.n, tc.size, len(batches), wantBatches)
		}

		var flattened []subtitle.Cue
		for _, b := range batches {
			flattened = append(flattened, b.Cues...)
		}
		if len(flattened) != tc.n {
			t.Fatalf("n=%d size=%d: concatenation has %d cues", tc.n, tc.size, len(flattened))
		}
		for i := range cues {
			if flattened[i] != cues[i] {
				t.Fatalf("n=%d size=%d: cue %d out of order", tc.n, tc.size, i)
			}
		}
	}
}

func TestPlanBatchesDefaultsBatchSize(t *testing.T) {
	batches := subtitle.PlanBatches(makeCues(30), 0)
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2 with default batch size", len(batches))
	}
}

func TestEstimateSeconds(t *testing.T) {
	if got := subtitle.EstimateSeconds(0, 25); got != 0 {
		t.Fatalf("EstimateSeconds(0) = %d", got)
	}
	one := subtitle.EstimateSeconds(10, 25)
	three := subtitle.EstimateSeconds(60, 25)
	if one <= 0 || three != 3*one {
		t.Fatalf("estimates not proportional to batch count: %d, %d", one, three)
	}
}
