package roster

import "sort"

// Roster — снимок состава клана: tag -> имя участника.
type Roster map[string]string

// Member — элемент отсортированного списка участников.
type Member struct {
	Tag  string
	Name string
}

// Clone возвращает копию снимка (живую map наружу не отдаём).
func Clone(r Roster) Roster {
	cp := make(Roster, len(r))
	for tag, name := range r {
		cp[tag] = name
	}
	return cp
}

// Diff сравнивает два снимка. joined — кто есть в cur, но не в prev
// (имя берём из cur); left — кто есть в prev, но не в cur (имя из prev).
// Чистая функция, O(len(prev)+len(cur)).
func Diff(prev, cur Roster) (joined, left Roster) {
	joined = Roster{}
	left = Roster{}
	for tag, name := range cur {
		if _, ok := prev[tag]; !ok {
			joined[tag] = name
		}
	}
	for tag, name := range prev {
		if _, ok := cur[tag]; !ok {
			left[tag] = name
		}
	}
	return joined, left
}

// SortedByName — участники по имени по возрастанию, не больше limit
// (limit <= 0 — без ограничения). При равных именах — по тегу, чтобы
// порядок был стабильным.
func SortedByName(r Roster, limit int) []Member {
	members := make([]Member, 0, len(r))
	for tag, name := range r {
		members = append(members, Member{Tag: tag, Name: name})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].Tag < members[j].Tag
	})
	if limit > 0 && len(members) > limit {
		members = members[:limit]
	}
	return members
}
