package sem

// idFor derives a deterministic 4-character kernel id for a semaphore name,
// used as the kernel-named-semaphore registry key. Names of 4 bytes or
// fewer map directly, padded with 'X'; longer names keep their first byte
// and hash the rest into 3 alphabetic characters, so two different long
// names collide only as often as the hash does. Any resulting NUL is
// replaced with 'X' so the id is always safe to use as a map key or
// filesystem-path component.
func idFor(name string) string {
	id := [4]byte{'X', 'X', 'X', 'X'}

	if len(name) <= 4 {
		copy(id[:], name)
	} else {
		id[0] = name[0]
		var hash uint32
		for i := 1; i < len(name); i++ {
			hash = hash*31 + uint32(name[i])
		}
		id[1] = 'A' + byte(hash%26)
		id[2] = 'A' + byte((hash/26)%26)
		id[3] = 'A' + byte((hash/(26*26))%26)
	}

	for i, c := range id {
		if c == 0 {
			id[i] = 'X'
		}
	}
	return string(id[:])
}
