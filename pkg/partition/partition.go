// pkg/partition/partition.go

// Package partition assigns each worker a contiguous, inclusive range of pages.
package partition

import "fmt"

// Range is the inclusive page range [Start, End] owned by one worker. A range
// with End < Start holds no pages.
type Range struct {
	Worker int
	Start  int64
	End    int64
}

// Len returns the number of pages in the range.
func (r Range) Len() int64 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Empty reports whether the range holds no pages.
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether page falls inside the range.
func (r Range) Contains(page int64) bool {
	return page >= r.Start && page <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("worker %d [%d, %d]", r.Worker, r.Start, r.End)
}

// Plan computes the range of worker id out of workers. Every worker gets
// totalPages/workers pages and the last one also takes the remainder.
func Plan(totalPages int64, workers, id int) Range {
	if workers <= 0 || id < 0 || id >= workers {
		panic(fmt.Sprintf("partition: invalid worker %d of %d", id, workers))
	}
	perWorker := totalPages / int64(workers)
	start := perWorker * int64(id)
	end := start + perWorker - 1
	if id == workers-1 {
		end = totalPages - 1
	}
	return Range{Worker: id, Start: start, End: end}
}

// PlanAll returns the ranges of every worker, ordered by id.
func PlanAll(totalPages int64, workers int) []Range {
	ranges := make([]Range, workers)
	for id := range ranges {
		ranges[id] = Plan(totalPages, workers, id)
	}
	return ranges
}

// Workers clamps the requested worker count so that every worker owns at
// least one page. An empty file still gets a single worker.
func Workers(totalPages int64, requested int) int {
	if requested < 1 {
		requested = 1
	}
	if totalPages < int64(requested) {
		if totalPages < 1 {
			return 1
		}
		return int(totalPages)
	}
	return requested
}
