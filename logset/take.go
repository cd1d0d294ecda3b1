package logset

// planTake computes the per-partition record quotas for a bounded take of n
// records. The allocation is a greedy, order-preserving single pass: walking
// the partitions ascending, each non-empty partition is assigned
// min(remaining, count) until the budget is spent. Partitions that cover no
// records, or that are visited after the budget hits zero, receive no entry
// at all so that they are never scheduled as tasks.
//
// The returned map is keyed by partition index and its values always sum to
// min(n, total record count). For n < 1 the map is empty.
func planTake(partitions []Partition, n int64) map[int]int64 {
	quotas := make(map[int]int64, len(partitions))
	if n < 1 {
		return quotas
	}

	remaining := n
	for _, p := range partitions {
		if remaining == 0 {
			break
		}
		count := p.Count()
		if count == 0 {
			continue
		}
		quota := count
		if remaining < quota {
			quota = remaining
		}
		quotas[p.Index] = quota
		remaining -= quota
	}
	return quotas
}
