package core

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

type Command int

const (
	CmdUnknown Command = iota
	CmdNext
	CmdToggleSplitHorizon
	CmdQuit
)

// Commander supplies manual-step commands. Next blocks until a command is available; io.EOF ends the run.
type Commander interface {
	Next(exchange int) (Command, error)
}

func ParseCommand(s string) Command {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "n", "next":
		return CmdNext
	case "s", "split":
		return CmdToggleSplitHorizon
	case "q", "quit", "exit":
		return CmdQuit
	}
	return CmdUnknown
}

// LineCommander reads one command per line
type LineCommander struct {
	sc *bufio.Scanner
	// Prompt, if set, is called before every read
	Prompt func(exchange int)
}

func NewLineCommander(r io.Reader) *LineCommander {
	return &LineCommander{sc: bufio.NewScanner(r)}
}

func (c *LineCommander) Next(exchange int) (Command, error) {
	if c.Prompt != nil {
		c.Prompt(exchange)
	}
	if !c.sc.Scan() {
		if err := c.sc.Err(); err != nil {
			return CmdUnknown, err
		}
		return CmdUnknown, io.EOF
	}
	return ParseCommand(c.sc.Text()), nil
}

// awaitCommand blocks until the commander allows the next round. Toggling split horizon and
// unrecognized input do not advance.
func (s *Simulator) awaitCommand() (bool, error) {
	for {
		cmd, err := s.commander.Next(s.exchange)
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch cmd {
		case CmdNext:
			return true, nil
		case CmdToggleSplitHorizon:
			s.SetSplitHorizon(!s.splitHorizon)
		case CmdQuit:
			return false, nil
		default:
			s.Log(UnknownCommand, "unrecognized command, ignoring", "exchange", s.exchange)
		}
	}
}
