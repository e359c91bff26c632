package spy

import (
	"fmt"

	"github.com/roach88/tracespy/internal/event"
)

// Category selects which extractor and matcher list apply to an event.
// The mapping from event class to category is total: every admitted event
// lands in exactly one category.
type Category int

const (
	CategoryArguments Category = iota + 1
	CategoryLocals
	CategoryReturn
	CategoryException
)

// String returns the wire/config name of the category.
func (c Category) String() string {
	switch c {
	case CategoryArguments:
		return "arguments"
	case CategoryLocals:
		return "locals"
	case CategoryReturn:
		return "return"
	case CategoryException:
		return "exception"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// CategoryFromString parses a config category name.
func CategoryFromString(s string) (Category, error) {
	switch s {
	case "arguments":
		return CategoryArguments, nil
	case "locals":
		return CategoryLocals, nil
	case "return":
		return CategoryReturn, nil
	case "exception":
		return CategoryException, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

// categoryForClass is the total class->category mapping used for routing.
// An unknown class is a corrupted event, not a routable condition.
func categoryForClass(cl event.Class) Category {
	switch cl {
	case event.ClassCall:
		return CategoryArguments
	case event.ClassLine:
		return CategoryLocals
	case event.ClassReturn:
		return CategoryReturn
	case event.ClassRaise:
		return CategoryException
	default:
		panic(fmt.Sprintf("spy: no category for event class %d", int(cl)))
	}
}
