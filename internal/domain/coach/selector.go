package coach

import "errors"

var ErrInsufficientCapacity = errors.New("not enough seats available in the coach")

type Strategy string

const (
	StrategyContiguous Strategy = "contiguous"
	StrategyFallback   Strategy = "fallback"
)

func (s Strategy) String() string {
	return string(s)
}

type Selection struct {
	Seats    []int
	Strategy Strategy
}

// SelectSeats picks count seats out of available (ascending free seats).
//
// The first row, scanning 1..12, that holds count consecutive free seats wins.
// Windows never cross a row boundary. When no row qualifies the lowest count
// free seats are taken regardless of row, so adjacency is best effort while the
// count is guaranteed.
func SelectSeats(available []int, count int) (Selection, error) {
	if !IsValidCount(count) {
		return Selection{}, ErrInvalidCount
	}

	free := make(map[int]struct{}, len(available))
	for _, s := range available {
		free[s] = struct{}{}
	}

	if seats := findContiguous(free, count); seats != nil {
		return Selection{Seats: seats, Strategy: StrategyContiguous}, nil
	}

	if len(free) < count {
		return Selection{}, ErrInsufficientCapacity
	}
	return Selection{Seats: firstAvailable(available, count), Strategy: StrategyFallback}, nil
}

func findContiguous(free map[int]struct{}, count int) []int {
	for row := 1; row <= RowCount; row++ {
		rowSeats := SeatsInRow(row)
		if len(rowSeats) < count {
			continue
		}

	window:
		for i := 0; i+count <= len(rowSeats); i++ {
			block := rowSeats[i : i+count]
			for _, s := range block {
				if _, ok := free[s]; !ok {
					continue window
				}
			}
			out := make([]int, count)
			copy(out, block)
			return out
		}
	}
	return nil
}

func firstAvailable(available []int, count int) []int {
	out := make([]int, 0, count)
	seen := make(map[int]struct{}, count)
	for _, s := range available {
		if len(out) == count {
			break
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
