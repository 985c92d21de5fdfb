package mapitem

import "sort"

// Group is one set of candidate duplicates sharing an identity key.
// Members are sorted by (dataVersion ascending, id descending), which
// puts the merge target last and lines the sources up least
// authoritative first.
type Group struct {
	Key  Key
	Maps []*Map
}

// Target returns the merge target: the member with the highest
// dataVersion, breaking ties toward the lowest id since the oldest
// record is the one most likely still referenced. With the group's sort
// order that is always the last member.
func (g Group) Target() *Map { return g.Maps[len(g.Maps)-1] }

// Sources returns the members to fold into the target, in the order
// merges must run: least authoritative first.
func (g Group) Sources() []*Map { return g.Maps[:len(g.Maps)-1] }

func (g Group) minID() int {
	id := g.Maps[0].ID()
	for _, m := range g.Maps[1:] {
		if m.ID() < id {
			id = m.ID()
		}
	}
	return id
}

// GroupDuplicates partitions maps into groups of records sharing an
// identity key. Singletons are not duplicates and are dropped, as are
// records whose key cannot be derived. The result is deterministic for a
// fixed input: groups are ordered by their lowest member id and members
// by (dataVersion ascending, id descending).
func GroupDuplicates(maps []*Map) []Group {
	byKey := make(map[Key][]*Map)
	for _, m := range maps {
		key, ok := m.Key()
		if !ok {
			continue
		}
		byKey[key] = append(byKey[key], m)
	}

	var groups []Group
	for key, members := range byKey {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			if members[i].DataVersion() != members[j].DataVersion() {
				return members[i].DataVersion() < members[j].DataVersion()
			}
			return members[i].ID() > members[j].ID()
		})
		groups = append(groups, Group{Key: key, Maps: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].minID() < groups[j].minID()
	})
	return groups
}
