package cmdline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/scrapectl/internal/command"
)

const maxInputAttempts = 3

var errNeedTwoNumbers = errors.New("expected two numbers separated by whitespace")

// verifyNumbers runs the interactive division check for commands that carry
// a retry limit after a successful unprofiled run.
func (c *Controller) verifyNumbers(cmd command.Command) {
	limiter, ok := cmd.(command.RetryLimiter)
	if !ok {
		return
	}
	if _, carried := limiter.RetryLimit(); !carried {
		return
	}

	x, y, ok := c.readTwoNumbers()
	if !ok {
		fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.prompt.no_input"))
		return
	}
	calc, ok := cmd.(command.Calculator)
	if !ok {
		fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.calc.error", errors.New("command cannot calculate")))
		return
	}
	result, err := calc.Calculate(calc.Divide, x, y)
	if err != nil {
		fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.calc.error", err))
		return
	}
	fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.calc.result", result))
}

func (c *Controller) readTwoNumbers() (float64, float64, bool) {
	reader := bufio.NewReader(c.Stdin)
	for attempt := 1; attempt <= maxInputAttempts; attempt++ {
		fmt.Fprint(c.Stdout, c.Printer.Sprintf("cli.prompt.numbers"))
		line, err := reader.ReadString('\n')
		if err == nil || (errors.Is(err, io.EOF) && line != "") {
			x, y, parseErr := parseTwoNumbers(line)
			if parseErr == nil {
				return x, y, true
			}
			err = parseErr
		}
		if attempt == maxInputAttempts {
			fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.prompt.failed", maxInputAttempts))
			break
		}
		fmt.Fprintln(c.Stdout, c.Printer.Sprintf("cli.prompt.retry", err))
	}
	return 0, 0, false
}

func parseTwoNumbers(line string) (float64, float64, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, errNeedTwoNumbers
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
