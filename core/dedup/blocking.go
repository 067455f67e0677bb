package dedup

import "github.com/konradh/hpi-ii-project-2022/model"

// BlockingKeyFunc maps a person to a blocking key. Only persons sharing a
// key under at least one of the functions are ever compared pairwise, which
// keeps the quadratic comparison inside small groups.
type BlockingKeyFunc func(person *model.Person) string

// The four keys are chosen so that a single typo or a swapped spelling in
// one field still leaves the pair sharing at least one key: each key skips
// a different part of name and birth date.
func blockingKeys() []BlockingKeyFunc {
	return []BlockingKeyFunc{
		func(p *model.Person) string {
			return prefix(p.FirstName, 3) + suffix(p.LastName, 3) + offset(p.LastName, 3)
		},
		func(p *model.Person) string {
			return prefix(p.LastName, 4) + substring(p.BirthDate, 2, 7)
		},
		func(p *model.Person) string {
			return suffix(p.BirthDate, 5) + suffix(p.FirstName, 3)
		},
		func(p *model.Person) string {
			return substring(p.BirthDate, 2, 7) + offset(p.FirstName, 3)
		},
	}
}

// The slicing helpers clamp out-of-range bounds instead of failing, short
// names simply produce shorter keys. Rune based so umlauts are not split.

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func suffix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func offset(s string, i int) string {
	runes := []rune(s)
	if len(runes) <= i {
		return ""
	}
	return string(runes[i:])
}

func substring(s string, i, j int) string {
	runes := []rune(s)
	if i > len(runes) {
		i = len(runes)
	}
	if j > len(runes) {
		j = len(runes)
	}
	return string(runes[i:j])
}

// groupByKey buckets persons by one blocking key, dropping singleton groups.
func groupByKey(persons []*model.Person, key BlockingKeyFunc) [][]*model.Person {
	buckets := make(map[string][]*model.Person)
	for _, person := range persons {
		k := key(person)
		buckets[k] = append(buckets[k], person)
	}
	groups := make([][]*model.Person, 0, len(buckets))
	for _, group := range buckets {
		if len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups
}
