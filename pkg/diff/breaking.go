package diff

import "sort"

// breakingSet collects unique breaking-change messages.
type breakingSet struct {
	seen map[string]struct{}
}

func newBreakingSet() *breakingSet {
	return &breakingSet{seen: make(map[string]struct{})}
}

func (b *breakingSet) add(msg string) {
	b.seen[msg] = struct{}{}
}

func (b *breakingSet) sorted() []string {
	out := make([]string, 0, len(b.seen))
	for msg := range b.seen {
		out = append(out, msg)
	}
	sort.Strings(out)
	return out
}
