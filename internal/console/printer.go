package console

import (
	"fmt"
	"io"

	"github.com/lox/ratscrew/internal/game"
)

// Printer writes a play-by-play of round events to a terminal
type Printer struct {
	out       io.Writer
	formatter *game.EventFormatter
}

// NewPrinter creates a printer. Cards are coloured by suit unless plain is set.
func NewPrinter(out io.Writer, plain bool) *Printer {
	opts := game.FormattingOptions{LongCardNames: true}
	if !plain {
		opts.CardStyle = StyleCard
	}
	return &Printer{
		out:       out,
		formatter: game.NewEventFormatter(opts),
	}
}

// OnEvent implements game.EventSubscriber
func (p *Printer) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, HeaderStyle.Render("Game Start!"))
		for i, seat := range e.Seats {
			fmt.Fprintf(p.out, "Player %d: %s (%d cards)\n", i+1, seat.Name, seat.Cards)
		}
		return
	case game.RoundEndEvent:
		p.printRoundEnd(e)
		return
	}

	line := p.formatter.Format(event)
	if line == "" {
		return
	}

	switch event.EventType() {
	case game.EventTypePileClaimed:
		line = SlapStyle.Render(line)
	case game.EventTypeChallengeStart, game.EventTypeChallengeEnd:
		line = ChallengeStyle.Render(line)
	}
	fmt.Fprintln(p.out, line)
}

func (p *Printer) printRoundEnd(e game.RoundEndEvent) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, HeaderStyle.Render(fmt.Sprintf("%s wins the game!", e.Winner)))
	fmt.Fprintf(p.out, "Round %s lasted %d turns\n", e.RoundID, e.Turns)
	for _, s := range e.Stats {
		fmt.Fprintln(p.out, InfoStyle.Render(p.formatter.FormatPlayerStats(s)))
	}
}
