package astro

import (
	"encoding/base32"
	"hash/fnv"
	"strings"
)

// HashFromDoc produces the stable scope hash used when no filename is
// available to hash instead (spec.md §6.4). It round-trips the document back
// to source text via PrintToSource, then hashes that text.
func HashFromDoc(doc *Node) string {
	var b strings.Builder
	PrintToSource(&b, doc)
	source := strings.TrimSpace(b.String())
	return HashFromSource(source)
}

// HashFromSource is the deterministic 8-character digest described in
// spec.md §6.4: lowercase base32 over the alphabet
// "abcdefghijklmnopqrstuvwxyz234567", built from the 64-bit FNV-1a hash of
// the input bytes. Collisions are tolerated (spec.md §9, open questions) —
// this isn't a cryptographic hash, just a stable, fast one.
func HashFromSource(source string) string {
	h := fnv.New64a()
	h.Write([]byte(source))
	sum := h.Sum64()

	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (8 * i))
	}
	enc := base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
	return enc.EncodeToString(buf[:])[:8]
}

// HashFromTransitionName combines the source hash with a per-transition
// counter, matching spec.md §6.4's transition-scope hash rule.
func HashFromTransitionName(sourceHash string, counter int) string {
	return HashFromSource(sourceHash + "-" + itoa(counter))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
