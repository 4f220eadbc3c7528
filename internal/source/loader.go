package source

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// Load discovers and parses all expense exports under path.
// It uses a bounded worker pool for parallel parsing.
func Load(path string, opts Options, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := Scan(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ParseFile(files[idx], opts)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.RowErrors += pr.RowErrors
		result.Credits += pr.Credits
		result.Expenses = append(result.Expenses, pr.Expenses...)
	}

	return result, nil
}
