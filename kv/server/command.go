package server

import (
	"strings"

	"github.com/pingcap/errors"
)

// ErrInvalidCommand is returned for an unknown verb or a wrong argument count. The session
// reports it as a single diagnostic line and keeps going.
var ErrInvalidCommand = errors.New("Invalid method or number of arguments")

// Command is one decoded input line. A line is decoded exactly once into one of the variant
// types below and dispatched by type switch; nothing downstream re-parses strings.
type Command interface {
	cmd()
}

type Get struct{ Key string }
type Set struct{ Key, Value string }
type Unset struct{ Key string }
type NumEqualTo struct{ Value string }
type Begin struct{}
type Rollback struct{}
type Commit struct{}
type End struct{}

func (Get) cmd()        {}
func (Set) cmd()        {}
func (Unset) cmd()      {}
func (NumEqualTo) cmd() {}
func (Begin) cmd()      {}
func (Rollback) cmd()   {}
func (Commit) cmd()     {}
func (End) cmd()        {}

// Parse decodes one input line. The verb is case-insensitive; arguments are space-separated
// tokens and never contain spaces. A blank line decodes to (nil, nil) and produces no output.
// Any verb/arity pair outside the command table yields ErrInvalidCommand.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	verb, args := strings.ToUpper(fields[0]), fields[1:]

	switch verb {
	case "GET":
		if len(args) != 1 {
			return nil, ErrInvalidCommand
		}
		return Get{Key: args[0]}, nil
	case "SET":
		if len(args) != 2 {
			return nil, ErrInvalidCommand
		}
		return Set{Key: args[0], Value: args[1]}, nil
	case "UNSET":
		if len(args) != 1 {
			return nil, ErrInvalidCommand
		}
		return Unset{Key: args[0]}, nil
	case "NUMEQUALTO":
		if len(args) != 1 {
			return nil, ErrInvalidCommand
		}
		return NumEqualTo{Value: args[0]}, nil
	case "BEGIN":
		if len(args) != 0 {
			return nil, ErrInvalidCommand
		}
		return Begin{}, nil
	case "ROLLBACK":
		if len(args) != 0 {
			return nil, ErrInvalidCommand
		}
		return Rollback{}, nil
	case "COMMIT":
		if len(args) != 0 {
			return nil, ErrInvalidCommand
		}
		return Commit{}, nil
	case "END":
		if len(args) != 0 {
			return nil, ErrInvalidCommand
		}
		return End{}, nil
	default:
		return nil, ErrInvalidCommand
	}
}
