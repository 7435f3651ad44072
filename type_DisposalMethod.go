package tracker

import "fmt"

// DisposalMethod defines which lots a disposal consumes first.
type DisposalMethod int

const (
	// FIFO consumes the oldest lots first.
	FIFO DisposalMethod = iota
	// LIFO consumes the newest lots first.
	LIFO
	// SpecificLot consumes the single lot designated by the transaction.
	SpecificLot
)

func (m DisposalMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case SpecificLot:
		return "specific"
	default:
		return "unknown"
	}
}

// ParseDisposalMethod parses a string into a DisposalMethod.
func ParseDisposalMethod(s string) (DisposalMethod, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "specific":
		return SpecificLot, nil
	default:
		return 0, fmt.Errorf("unknown disposal method: %q", s)
	}
}
