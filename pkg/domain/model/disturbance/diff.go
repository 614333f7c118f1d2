package disturbance

// DiffRemoved returns the entries of old that are absent from incoming,
// compared by the identity triple. A nil incoming list means the update does
// not mention affecteds at all, so nothing counts as removed. Output keeps
// the iteration order of old and never repeats an identity.
func DiffRemoved(old, incoming []Affected) []Affected {
	if incoming == nil {
		return nil
	}

	keep := make(map[string]struct{}, len(incoming))
	for _, a := range incoming {
		keep[a.Key()] = struct{}{}
	}

	var removed []Affected
	emitted := make(map[string]struct{}, len(old))
	for _, a := range old {
		key := a.Key()
		if _, ok := keep[key]; ok {
			continue
		}
		if _, ok := emitted[key]; ok {
			continue
		}
		emitted[key] = struct{}{}
		removed = append(removed, a)
	}
	return removed
}

// DiffAdded returns the entries of incoming that are absent from old,
// compared by the identity triple. A nil incoming list yields nothing; a nil
// old list makes every incoming entry an addition. Output keeps the iteration
// order of incoming and never repeats an identity.
func DiffAdded(old, incoming []Affected) []Affected {
	if incoming == nil {
		return nil
	}

	known := make(map[string]struct{}, len(old))
	for _, a := range old {
		known[a.Key()] = struct{}{}
	}

	var added []Affected
	emitted := make(map[string]struct{}, len(incoming))
	for _, a := range incoming {
		key := a.Key()
		if _, ok := known[key]; ok {
			continue
		}
		if _, ok := emitted[key]; ok {
			continue
		}
		emitted[key] = struct{}{}
		added = append(added, a)
	}
	return added
}
