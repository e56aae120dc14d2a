package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrNoChoices is returned by Pick when there is nothing to choose from.
var ErrNoChoices = errors.New("no choices")

// Choice is one entry in a Pick menu.
type Choice struct {
	Name        string
	Description string
}

// Pick asks the user to choose one of choices and returns its name.
// Typing filters the list by name prefix.
func Pick(label string, choices []Choice, stdin io.ReadCloser, stdout io.WriteCloser) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	sel := &promptui.Select{
		Label: label,
		Items: choices,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Name | cyan }}  {{ .Description | faint }}",
			Inactive: "  {{ .Name }}  {{ .Description | faint }}",
			Selected: "{{ .Name | green }}",
		},
		Searcher: func(input string, index int) bool {
			return strings.HasPrefix(choices[index].Name, strings.TrimSpace(input))
		},
		Stdin:  stdin,
		Stdout: stdout,
	}

	idx, _, err := sel.Run()
	if err != nil {
		return "", err
	}

	return choices[idx].Name, nil
}
