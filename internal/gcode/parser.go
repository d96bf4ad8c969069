package gcode

import (
	"bufio"
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// MoveType classifies a parsed motion.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0 travel
	MoveFeed                    // G1 with XY motion
	MovePlunge                  // G1 straight down
	MoveRetract                 // any straight move up
)

// zEpsilon is the Z change below which a move counts as level.
const zEpsilon = 0.001

// GCodeMove is one G0/G1 motion with absolute start and end positions.
type GCodeMove struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

// machine is the modal state carried from line to line.
type machine struct {
	x, y, z  float64
	feed     float64
	motion   int // 0 or 1, -1 before the first G0/G1
	relative bool
}

// ParseGCode reads the G0/G1 motions of a program written by Generator or
// any similar post-processor. Motion and distance modes are modal (G90,
// G91), so a line with coordinates only repeats the last G0 or G1. Other
// commands and both comment styles are ignored.
func ParseGCode(code string) []GCodeMove {
	var moves []GCodeMove
	m := machine{motion: -1}

	sc := bufio.NewScanner(strings.NewReader(code))
	for sc.Scan() {
		words := tokenize(sc.Text())
		if len(words) == 0 {
			continue
		}
		to := [3]float64{m.x, m.y, m.z}
		moved := false
		for _, w := range words {
			switch w.letter {
			case 'G':
				switch w.value {
				case 0, 1:
					m.motion = int(w.value)
				case 90:
					m.relative = false
				case 91:
					m.relative = true
				}
			case 'X', 'Y', 'Z':
				axis := int(w.letter - 'X')
				if m.relative {
					to[axis] += w.value
				} else {
					to[axis] = w.value
				}
				moved = true
			case 'F':
				m.feed = w.value
			}
		}
		if !moved || m.motion < 0 {
			continue
		}
		mv := GCodeMove{
			FromX: m.x, FromY: m.y, FromZ: m.z,
			ToX: to[0], ToY: to[1], ToZ: to[2],
			FeedRate: m.feed,
		}
		mv.Type = classify(m.motion == 0, mv)
		moves = append(moves, mv)
		m.x, m.y, m.z = to[0], to[1], to[2]
	}
	return moves
}

type word struct {
	letter byte
	value  float64
}

// tokenize splits a line into address words, dropping comments and words
// whose number does not parse.
func tokenize(line string) []word {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	var words []word
	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case c == '(':
			end := strings.IndexByte(line[i:], ')')
			if end < 0 {
				return words
			}
			i += end + 1
			continue
		case 'a' <= c && c <= 'z':
			c -= 'a' - 'A'
		case c < 'A' || c > 'Z':
			i++
			continue
		}
		j := i + 1
		for j < len(line) && strings.IndexByte("+-.0123456789", line[j]) >= 0 {
			j++
		}
		if v, err := strconv.ParseFloat(line[i+1:j], 64); err == nil {
			words = append(words, word{letter: c, value: v})
		}
		i = j
	}
	return words
}

func classify(rapid bool, m GCodeMove) MoveType {
	dz := m.ToZ - m.FromZ
	level := m.FromX == m.ToX && m.FromY == m.ToY
	switch {
	case dz > zEpsilon && (rapid || level):
		return MoveRetract
	case rapid:
		return MoveRapid
	case dz < -zEpsilon && level:
		return MovePlunge
	default:
		return MoveFeed
	}
}

// Summary holds toolpath statistics for a parsed program.
type Summary struct {
	Moves         int
	RapidDistance float64 // mm, including retracts
	CutDistance   float64 // mm in the XY plane
	Plunges       int
	PlungeDepth   float64 // mm of downward Z travel

	// EstimatedMinutes ignores acceleration.
	EstimatedMinutes float64
}

// Summarize totals the moves of a program. Feed moves without a feed rate
// use s.FeedRate; rapids travel at s.RapidRate.
func Summarize(moves []GCodeMove, s model.CutSettings) Summary {
	sum := Summary{Moves: len(moves)}
	for _, m := range moves {
		dx, dy, dz := m.ToX-m.FromX, m.ToY-m.FromY, m.ToZ-m.FromZ
		switch m.Type {
		case MoveRapid, MoveRetract:
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			sum.RapidDistance += d
			sum.EstimatedMinutes += minutes(d, s.RapidRate)
		case MovePlunge:
			sum.Plunges++
			sum.PlungeDepth += -dz
			sum.EstimatedMinutes += minutes(-dz, orDefault(m.FeedRate, s.PlungeRate))
		case MoveFeed:
			d := math.Hypot(dx, dy)
			sum.CutDistance += d
			sum.EstimatedMinutes += minutes(d, orDefault(m.FeedRate, s.FeedRate))
		}
	}
	return sum
}

func minutes(dist, rate float64) float64 {
	if rate <= 0 {
		return 0
	}
	return dist / rate
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
