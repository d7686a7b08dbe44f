package usecase

import (
	"fmt"
	"strconv"
	"strings"
)

const fallbackCount = 10

// CommandPolicy controls how the run parameter string is interpreted.
type CommandPolicy struct {
	DefaultCount int
	// Strict stops the run on invalid input instead of continuing with DefaultCount.
	Strict bool
}

// Command is the parsed run parameter string.
type Command struct {
	Help   bool
	Count  int
	Notice string
	Abort  bool
}

// ParseCommand interprets the free-text parameter: "help", empty, or an item count.
func ParseCommand(params string, maxCount int, policy CommandPolicy) Command {
	def := policy.DefaultCount
	if def <= 0 {
		def = fallbackCount
	}
	if maxCount > 0 && def > maxCount {
		def = maxCount
	}

	params = strings.TrimSpace(params)
	switch {
	case strings.EqualFold(params, "help"):
		return Command{Help: true}
	case params == "":
		return Command{Count: def}
	}

	n, err := strconv.Atoi(params)
	if err != nil || n < 1 {
		return Command{Count: def, Notice: "Please enter a valid number", Abort: policy.Strict}
	}
	if maxCount > 0 && n > maxCount {
		return Command{
			Count:  def,
			Notice: fmt.Sprintf("Please enter a smaller number (at most %d)", maxCount),
			Abort:  policy.Strict,
		}
	}
	return Command{Count: n}
}

func usage(src SourceProfile, def int) string {
	if def <= 0 {
		def = fallbackCount
	}
	return fmt.Sprintf("%[1]s - Fetch %[2]ss from %[1]s and create tickets.\n\n"+
		"Usage: /%[1]s <number_of_%[2]ss_to_fetch>\n\n"+
		"`number_of_%[2]ss_to_fetch`: Number of %[2]ss to fetch. Should be a number between 1 and %[3]d. "+
		"If not specified, it defaults to %[4]d.",
		src.Name, src.Noun, src.MaxCount, def)
}
