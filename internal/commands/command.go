package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeShow    Type = "show"
	TypeClear   Type = "clear"
	TypeMarkAll Type = "markall"
	TypeClone   Type = "clone"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

// ShowArgs carries a navigation status: "", "active" or "completed".
type ShowArgs struct {
	Status string
}

type MarkAllArgs struct {
	Done bool
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Show    *ShowArgs
	MarkAll *MarkAllArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, raw, head)
	case TypeShow:
		return parseShow(input, args)
	case TypeClear:
		return Command{Type: TypeClear, Raw: input}, nil
	case TypeMarkAll:
		return parseMarkAll(input, args)
	case TypeClone:
		return Command{Type: TypeClone, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd keeps the text after the verb verbatim apart from outer trimming,
// so inner spacing survives.
func parseAdd(input, raw, head string) (Command, error) {
	text := strings.TrimSpace(raw[len(head):])
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: input, Add: &AddArgs{Text: text}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires all, active or completed"}
	}
	switch subject := strings.ToLower(args[0]); subject {
	case "all":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Status: ""}}, nil
	case "active", "completed":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Status: subject}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown show subject: %s", subject)}
	}
}

func parseMarkAll(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "markall requires done or undone"}
	}
	switch strings.ToLower(args[0]) {
	case "done", "complete", "completed":
		return Command{Type: TypeMarkAll, Raw: raw, MarkAll: &MarkAllArgs{Done: true}}, nil
	case "undone", "active", "open":
		return Command{Type: TypeMarkAll, Raw: raw, MarkAll: &MarkAllArgs{Done: false}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("markall expects done or undone, got %s", args[0])}
	}
}
