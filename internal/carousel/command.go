package carousel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agausmann/river-layouts/internal/config"
)

// CommandErrorKind classifies why a command was rejected.
type CommandErrorKind int

const (
	UnknownCommand CommandErrorKind = iota
	MissingArgument
	InvalidArgument
)

// CommandError reports a rejected command. Rejected commands never
// mutate state and never end the session.
type CommandError struct {
	Kind CommandErrorKind
	Name string // command for UnknownCommand, argument otherwise
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case MissingArgument:
		return fmt.Sprintf("missing argument: %q", e.Name)
	case InvalidArgument:
		return fmt.Sprintf("invalid value for argument %q", e.Name)
	default:
		return fmt.Sprintf("unknown command: %q", e.Name)
	}
}

// OpKind tags a parsed command operation.
type OpKind int

const (
	OpMainCount OpKind = iota
	OpMainRatio
	OpScrollNext
	OpScrollPrev
	OpScrollReset
	OpFocusFollow
	OpMainLocation
)

// Op is one parsed command. Commands are parsed once at the boundary;
// nothing past this point inspects raw strings.
type Op struct {
	Kind     OpKind
	Delta    int     // OpMainCount
	Ratio    float64 // OpMainRatio
	Index    int     // OpFocusFollow
	Location config.MainLocation
}

// ParseCommand parses a command string into an Op.
//
//	main-count +N | -N
//	main-ratio +F | -F
//	scroll next | prev | reset
//	focus-follow <index>
//	main-location left | right
func ParseCommand(cmd string) (Op, error) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return Op{}, &CommandError{Kind: UnknownCommand, Name: ""}
	}

	switch fields[0] {
	case "main-count":
		if len(fields) < 2 {
			return Op{}, &CommandError{Kind: MissingArgument, Name: "delta"}
		}
		arg := fields[1]
		if !strings.HasPrefix(arg, "+") && !strings.HasPrefix(arg, "-") {
			return Op{}, &CommandError{Kind: InvalidArgument, Name: "delta"}
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			return Op{}, &CommandError{Kind: InvalidArgument, Name: "delta"}
		}
		return Op{Kind: OpMainCount, Delta: n}, nil

	case "main-ratio":
		if len(fields) < 2 {
			return Op{}, &CommandError{Kind: MissingArgument, Name: "delta"}
		}
		arg := fields[1]
		if !strings.HasPrefix(arg, "+") && !strings.HasPrefix(arg, "-") {
			return Op{}, &CommandError{Kind: InvalidArgument, Name: "delta"}
		}
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Op{}, &CommandError{Kind: InvalidArgument, Name: "delta"}
		}
		return Op{Kind: OpMainRatio, Ratio: f}, nil

	case "scroll":
		if len(fields) < 2 {
			return Op{}, &CommandError{Kind: MissingArgument, Name: "direction"}
		}
		switch fields[1] {
		case "next":
			return Op{Kind: OpScrollNext}, nil
		case "prev":
			return Op{Kind: OpScrollPrev}, nil
		case "reset":
			return Op{Kind: OpScrollReset}, nil
		default:
			return Op{}, &CommandError{Kind: InvalidArgument, Name: "direction"}
		}

	case "focus-follow":
		if len(fields) < 2 {
			return Op{}, &CommandError{Kind: MissingArgument, Name: "index"}
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil || i < 0 {
			return Op{}, &CommandError{Kind: InvalidArgument, Name: "index"}
		}
		return Op{Kind: OpFocusFollow, Index: i}, nil

	case "main-location":
		if len(fields) < 2 {
			return Op{}, &CommandError{Kind: MissingArgument, Name: "location"}
		}
		switch config.MainLocation(fields[1]) {
		case config.MainLocationLeft, config.MainLocationRight:
			return Op{Kind: OpMainLocation, Location: config.MainLocation(fields[1])}, nil
		default:
			return Op{}, &CommandError{Kind: InvalidArgument, Name: "location"}
		}

	default:
		return Op{}, &CommandError{Kind: UnknownCommand, Name: fields[0]}
	}
}

// Apply applies one operation to the state. Every operation clamps: the
// state is always valid afterward, for any command sequence.
func (s *State) Apply(op Op) {
	switch op.Kind {
	case OpMainCount:
		upper := s.LastViewCount
		if upper < 1 {
			upper = 1
		}
		s.MainCount += op.Delta
		if s.MainCount < 1 {
			s.MainCount = 1
		}
		if s.MainCount > upper {
			s.MainCount = upper
		}

	case OpMainRatio:
		s.MainRatio += op.Ratio
		if s.MainRatio < 0.05 {
			s.MainRatio = 0.05
		}
		if s.MainRatio > 0.95 {
			s.MainRatio = 0.95
		}

	case OpScrollNext:
		m := s.Metrics()
		s.ScrollOffset = ClampOffset(s.ScrollOffset+float64(m.Stride), m.MaxOffset)

	case OpScrollPrev:
		m := s.Metrics()
		s.ScrollOffset = ClampOffset(s.ScrollOffset-float64(m.Stride), m.MaxOffset)

	case OpScrollReset:
		s.ScrollOffset = 0

	case OpFocusFollow:
		s.focusFollow(op.Index)

	case OpMainLocation:
		s.MainLocation = op.Location
	}
}

// focusFollow shifts the offset by the minimum amount that brings the
// secondary view at index fully into the viewport. Views already
// visible are left alone; a view wider than the viewport is aligned to
// the viewport's leading edge.
func (s *State) focusFollow(index int) {
	m := s.Metrics()
	if m.SecondaryCount == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > m.SecondaryCount-1 {
		index = m.SecondaryCount - 1
	}

	// Position of the view relative to the viewport's leading edge.
	left := float64(index*m.Stride) - s.ScrollOffset
	right := left + float64(m.ColumnWidth)

	switch {
	case m.ColumnWidth > m.ViewportWidth:
		s.ScrollOffset = float64(index * m.Stride)
	case left < 0:
		s.ScrollOffset += left
	case right > float64(m.ViewportWidth):
		s.ScrollOffset += right - float64(m.ViewportWidth)
	}

	s.ScrollOffset = ClampOffset(s.ScrollOffset, m.MaxOffset)
}
