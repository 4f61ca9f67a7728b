package tempvoice

import (
	"math/rand"
	"strconv"
	"strings"
)

var romanNumbers = []struct {
	letter string
	value  int
}{
	{"M", 1000}, {"CM", 900}, {"D", 500}, {"CD", 400},
	{"C", 100}, {"XC", 90}, {"L", 50}, {"XL", 40},
	{"X", 10}, {"IX", 9}, {"V", 5}, {"IV", 4}, {"I", 1},
}

func toRoman(number int) string {
	var b strings.Builder
	for _, rn := range romanNumbers {
		for number >= rn.value {
			b.WriteString(rn.letter)
			number -= rn.value
		}
	}
	return b.String()
}

// squadNames hands out names from a shuffled list, repeating only after the
// whole list is exhausted.
type squadNames struct {
	names []string
	index int
}

func newSquadNames(names []string) *squadNames {
	shuffled := make([]string, len(names))
	copy(shuffled, names)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &squadNames{names: shuffled}
}

func (s *squadNames) next() string {
	if len(s.names) == 0 {
		return ""
	}
	name := s.names[s.index]
	if s.index >= len(s.names)-1 {
		s.index = 0
	} else {
		s.index++
	}
	return name
}

const channelNameLimit = 32

// formatChannelName substitutes a creator-channel name template and truncates
// the result to the platform's channel-name length limit.
func formatChannelName(template, displayName string, num int, squadName string) string {
	name := strings.NewReplacer(
		"{user}", displayName,
		"{num}", strconv.Itoa(num),
		"{squad_title}", squadName,
		"{roman_num}", toRoman(num),
	).Replace(template)

	runes := []rune(name)
	if len(runes) > channelNameLimit {
		return string(runes[:channelNameLimit])
	}
	return name
}
