package naming

import (
	"fmt"
	"sync"
)

// CollisionResolver tracks artifact bases claimed by source files and
// resolves duplicates by appending " - dupN" suffixes. Distinct sources can
// sanitize to the same base ("Vidéo.mp4" and "Video.mp4" both yield
// "Video"), and without arbitration they would write into the same artifact
// directory. All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	claims   map[string]string // source+base → granted base, for stable re-claims
	owners   map[string]string // granted base → source path that owns it
	counters map[string]int    // requested base → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		claims:   make(map[string]string),
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Claim returns the final artifact base for source. If base is unclaimed it
// is granted as-is; a repeat claim by the same source returns whatever it was
// granted before. Otherwise a " - dupN" variant is generated.
func (cr *CollisionResolver) Claim(source, base string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	key := source + "\x00" + base
	if prior, ok := cr.claims[key]; ok {
		return prior
	}

	if _, taken := cr.owners[base]; !taken {
		cr.owners[base] = source
		cr.claims[key] = base
		return base
	}

	counter := cr.counters[base]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := fmt.Sprintf("%s - dup%d", base, counter)
		if _, taken := cr.owners[candidate]; !taken {
			cr.counters[base] = counter + 1
			cr.owners[candidate] = source
			cr.claims[key] = candidate
			return candidate
		}
		counter++
	}
}
