package season

import (
	"sort"
	"strconv"

	"github.com/stockwise-dev/agingprov/internal/model"
)

// Size of bucket2 and bucket3; bucket1 is configurable and bucket4 takes
// the rest.
const middleBucketSize = 3

// IsSentinel reports whether code is one of the non-dated canonical codes
// that are placed in buckets unconditionally.
func IsSentinel(code string) bool {
	switch code {
	case Unknown, Continuity, Old, Legacy:
		return true
	}
	return false
}

type sortKey struct {
	year         int
	autumnWinter bool
}

func (k sortKey) after(o sortKey) bool {
	if k.year != o.year {
		return k.year > o.year
	}
	return k.autumnWinter && !o.autumnWinter
}

// keyOf ranks a code by year, with AW treated as the later half of a year.
// Short or malformed codes rank at the bottom.
func keyOf(code string) sortKey {
	if len(code) < 4 {
		return sortKey{}
	}
	year, err := strconv.Atoi(code[len(code)-2:])
	if err != nil {
		return sortKey{}
	}
	return sortKey{year: year, autumnWinter: code[:2] == "AW"}
}

// Rank returns the distinct dated codes in codes, newest first. Sentinels
// are dropped. Codes with equal keys keep their first-seen order.
func Rank(codes []string) []string {
	seen := make(map[string]bool)
	var ranked []string
	for _, c := range codes {
		if IsSentinel(c) || seen[c] {
			continue
		}
		seen[c] = true
		ranked = append(ranked, c)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return keyOf(ranked[i]).after(keyOf(ranked[j]))
	})
	return ranked
}

// Layout is the season-to-bucket assignment for a single run. It is
// derived from the seasons present in that run's data.
type Layout struct {
	members map[model.Bucket][]string
	index   map[string]model.Bucket
}

// NewLayout ranks the seasons and slices them into buckets: the newest
// firstBucket codes, then two blocks of three, then the remainder.
// Continuity always goes to bucket1. Unknown joins it when sentinelsInFirst
// is set and goes to bucket4 otherwise. Old- and AW97 always go to bucket4.
func NewLayout(seasons []string, firstBucket int, sentinelsInFirst bool) Layout {
	ranked := Rank(seasons)

	cut1 := clamp(firstBucket, len(ranked))
	cut2 := clamp(firstBucket+middleBucketSize, len(ranked))
	cut3 := clamp(firstBucket+2*middleBucketSize, len(ranked))

	b1 := append([]string{}, ranked[:cut1]...)
	b2 := append([]string{}, ranked[cut1:cut2]...)
	b3 := append([]string{}, ranked[cut2:cut3]...)
	b4 := append([]string{}, ranked[cut3:]...)

	if sentinelsInFirst {
		b1 = append(b1, Unknown, Continuity)
	} else {
		b1 = append(b1, Continuity)
		b4 = append(b4, Unknown)
	}
	b4 = append(b4, Old, Legacy)

	l := Layout{
		members: map[model.Bucket][]string{
			model.Bucket1: b1,
			model.Bucket2: b2,
			model.Bucket3: b3,
			model.Bucket4: b4,
		},
		index: make(map[string]model.Bucket),
	}
	for _, b := range model.Buckets {
		for _, code := range l.members[b] {
			if _, ok := l.index[code]; !ok {
				l.index[code] = b
			}
		}
	}
	return l
}

// BucketOf returns the bucket holding code. Codes outside buckets 1-3
// belong to bucket4.
func (l Layout) BucketOf(code string) model.Bucket {
	if b, ok := l.index[code]; ok {
		return b
	}
	return model.Bucket4
}

// Seasons returns the codes assigned to b, sentinels included.
func (l Layout) Seasons(b model.Bucket) []string {
	return l.members[b]
}

func clamp(n, upper int) int {
	if n < 0 {
		return 0
	}
	if n > upper {
		return upper
	}
	return n
}
