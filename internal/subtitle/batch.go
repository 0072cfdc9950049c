package subtitle

// DefaultBatchSize is the number of cues sent to the translation backend
// per call when the caller does not choose one.
const DefaultBatchSize = 25

// estimateSecondsPerBatch is the advisory per-batch latency used by
// EstimateSeconds. It is a heuristic, never used for correctness.
const estimateSecondsPerBatch = 4

// Batch is a contiguous, order-preserving chunk of cues.
type Batch struct {
	Cues  []Cue
	Index int // 1-based position within the plan
	Total int // total batches in the plan
}

// PlanBatches partitions cues into contiguous chunks of at most batchSize.
// Concatenating the batches in order reproduces the input exactly;
// contiguity preserves whatever local context the translator can exploit.
func PlanBatches(cues []Cue, batchSize int) []Batch {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	total := (len(cues) + batchSize - 1) / batchSize
	batches := make([]Batch, 0, total)

	for i := 0; i < len(cues); i += batchSize {
		end := i + batchSize
		if end > len(cues) {
			end = len(cues)
		}
		batches = append(batches, Batch{
			Cues:  cues[i:end],
			Index: len(batches) + 1,
			Total: total,
		})
	}

	return batches
}

// EstimateSeconds is an advisory duration estimate for translating totalCues
// cues with the given batch size.
func EstimateSeconds(totalCues, batchSize int) int {
	if totalCues <= 0 {
		return 0
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	batches := (totalCues + batchSize - 1) / batchSize
	return batches * estimateSecondsPerBatch
}
