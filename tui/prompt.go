package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Ask prints label and reads one line. io.EOF is returned once input is
// exhausted.
func (t *Tui) Ask(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)

	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// AskValid re-prompts until validate accepts the answer.
func (t *Tui) AskValid(label string, validate func(string) error) (string, error) {
	for {
		answer, err := t.Ask(label)
		if err != nil {
			return "", err
		}

		if err := validate(answer); err != nil {
			t.Warn("%v", err)
			continue
		}

		return answer, nil
	}
}

// Confirm asks a yes/no question. An empty answer picks def.
func (t *Tui) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}

	for {
		answer, err := t.Ask(fmt.Sprintf("%s [%s]", label, hint))
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}

		t.Warn("please answer y or n")
	}
}
