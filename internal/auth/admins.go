package auth

import "sort"

// AdminSet is the static set of user ids allowed to manage the shop.
type AdminSet struct {
	ids map[int64]struct{}
}

func NewAdminSet(ids []int64) AdminSet {
	set := AdminSet{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		if id > 0 {
			set.ids[id] = struct{}{}
		}
	}
	return set
}

// IsAdmin reports whether userID holds the admin capability.
func (s AdminSet) IsAdmin(userID int64) bool {
	_, ok := s.ids[userID]
	return ok
}

// IDs returns the admin ids in ascending order.
func (s AdminSet) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s AdminSet) Len() int {
	return len(s.ids)
}
