package process

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flaskkit/manage/internal/core/domain/process"
	procp "github.com/flaskkit/manage/internal/core/ports/process"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	commandStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

// DryRunExecutor prints each command line instead of running it.
type DryRunExecutor struct {
	out io.Writer
}

func NewDryRunExecutor(out io.Writer) *DryRunExecutor {
	return &DryRunExecutor{out: out}
}

// Run writes "+ <command line>" and reports success.
func (e *DryRunExecutor) Run(ctx context.Context, cmd process.Command) (int, error) {
	if err := ctx.Err(); err != nil {
		return 1, err
	}
	line := strings.Join(quoteArgs(cmd.FullCommandLine()), " ")
	if _, err := fmt.Fprintln(e.out, promptStyle.Render("+")+" "+commandStyle.Render(line)); err != nil {
		return 1, err
	}
	return 0, nil
}

// quoteArgs single-quotes arguments the shell would split or expand.
func quoteArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'$`\\*?;&|<>(){}[]#~") {
			a = "'" + strings.ReplaceAll(a, "'", `'"'"'`) + "'"
		}
		out[i] = a
	}
	return out
}

var _ procp.Executor = (*DryRunExecutor)(nil)
