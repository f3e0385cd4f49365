package console

import (
	"fmt"
	"io"

	"github.com/lox/ratscrew/internal/statistics"
)

// PrintSummary writes the end-of-session report
func PrintSummary(w io.Writer, s *statistics.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, HeaderStyle.Render("Session Summary"))
	fmt.Fprintf(w, "Rounds played: %d\n", s.Rounds)
	if s.Rounds == 0 {
		return
	}

	for _, name := range s.Players() {
		fmt.Fprintf(w, "%-12s won %d (%.0f%%)  slaps %d  piles %d\n",
			name, s.Wins[name], s.WinRate(name)*100, s.Slaps[name], s.Piles[name])
	}
	fmt.Fprintln(w, InfoStyle.Render(fmt.Sprintf("Turns per round: mean %.1f, median %.0f, min %d, max %d",
		s.Mean(), s.Median(), s.MinTurns, s.MaxTurns)))
}
