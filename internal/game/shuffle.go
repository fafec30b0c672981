// internal/game/shuffle.go
package game

import "math/rand"

// Shuffled returns a uniformly random permutation of in, leaving the input
// untouched. Fisher-Yates: walk from the last index down, swapping with a
// uniform pick from the unvisited prefix.
func Shuffled(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// pickOne selects a uniformly random element of in. Caller guarantees in is
// non-empty.
func pickOne(in []string) string {
	return in[rand.Intn(len(in))]
}
