package guidance

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const elevatorKeyword = "ascenseur"

var (
	separatorRe = regexp.MustCompile(`[,.\s]+`)

	startFloorRe = regexp.MustCompile(`de (rez-de-chaussée|(\d+)(?:er|ème) [ée]tage)`)

	// "au" has to open a word. A bare "au" also matches inside "bureau", so
	// "Le bureau 201 est à l'étage 1" would target floor 201 and resolve nothing.
	targetFloorRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(?:au|vers l'[ée]tage|pour arriver au) (\d+)(?:er|ème)?(?: [ée]tage)?`)
	floorNumberRe = regexp.MustCompile(`l'[ée]tage (\d+)`)

	directionRe = regexp.MustCompile(`puis à (droite|gauche)`)

	roomRe = regexp.MustCompile(`bureau \d+|salle réunion \d+|salle \d+|entrée principale|direction|ascenseur`)
)

// Parse extracts the target room, floors and turn direction from a French
// guidance instruction. Text without any recognised token yields a zero Query.
func Parse(text string) Query {
	if strings.TrimSpace(text) == "" {
		return Query{}
	}

	s := normalize(text)

	var q Query

	if m := startFloorRe.FindStringSubmatch(s); m != nil {
		if strings.Contains(m[1], "rez-de-chaussée") {
			q.StartFloor = intPtr(0)
		} else if n, err := strconv.Atoi(m[2]); err == nil {
			q.StartFloor = intPtr(n)
		}
	}

	if m := targetFloorRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			q.TargetFloor = intPtr(n)
		}
	} else if m := floorNumberRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			q.TargetFloor = intPtr(n)
		}
	}

	if m := directionRe.FindStringSubmatch(s); m != nil {
		switch m[1] {
		case "droite":
			q.Direction = DirectionRight
		case "gauche":
			q.Direction = DirectionLeft
		}
	}

	q.TargetLabel = capitalize(pickRoom(roomRe.FindAllString(s, -1)))

	return q
}

// pickRoom prefers the last mention that is not the elevator; elevators are
// usually waypoints. When only elevators are mentioned the last one wins.
func pickRoom(matches []string) string {
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i] != elevatorKeyword {
			return matches[i]
		}
	}
	if len(matches) > 0 {
		return matches[len(matches)-1]
	}
	return ""
}

// normalize composes accents, lower-cases and collapses punctuation runs into single spaces.
func normalize(text string) string {
	s := norm.NFC.String(text)
	s = strings.ReplaceAll(s, "’", "'")
	s = cases.Lower(language.French).String(s)
	return separatorRe.ReplaceAllString(s, " ")
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.French).String(string(r)) + s[size:]
}
