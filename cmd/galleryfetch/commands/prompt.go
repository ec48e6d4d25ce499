package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	promptPhrase = "What are you searching for? "
	promptCount  = "How many galleries would you like to download? "

	msgNotInteger  = "Please enter an integer."
	msgOutOfRange  = "Please enter a number between 0 and %d."
	msgNothingToDo = "It looks like you don't want to download anything. Goodbye."
	msgGoodbye     = "Goodbye."
	msgDownloading = "Downloading..."
	msgSuccess     = "Success!"
	msgFailure     = "There was an error when downloading galleries."
)

// prompter asks the interactive questions of the fetch command.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints question and returns the trimmed answer. End of input counts
// as an empty answer.
func (p *prompter) ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Phrase asks for the search phrase. An empty answer means the user wants
// to quit.
func (p *prompter) Phrase() (string, error) {
	return p.ask(promptPhrase)
}

// Count asks how many galleries to download until it gets an integer in
// [0, limit]. ok is false when the answer is empty.
func (p *prompter) Count(limit int) (int, bool, error) {
	for {
		answer, err := p.ask(promptCount)
		if err != nil {
			return 0, false, err
		}
		if answer == "" {
			return 0, false, nil
		}

		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, msgNotInteger)
			continue
		}
		if n < 0 || n > limit {
			fmt.Fprintf(p.out, msgOutOfRange+"\n", limit)
			continue
		}
		return n, true, nil
	}
}
