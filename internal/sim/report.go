package sim

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrintExpeditions writes the expedition length summary and risk table
func PrintExpeditions(w io.Writer, d Distribution, tag language.Tag) error {
	p := message.NewPrinter(tag)
	data := pterm.TableData{{"Card", "Ended here", "Chance", "Ended by now"}}
	for _, row := range d.Risk() {
		data = append(data, []string{
			p.Sprintf("%d", row.Card),
			p.Sprintf("%d", row.Ended),
			p.Sprintf("%.2f%%", row.Chance*100),
			p.Sprintf("%.2f%%", row.Cumulative*100),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(data).Srender()
	if err != nil {
		return err
	}
	summary := p.Sprintf("%d expeditions, mean length %.2f cards, %d emptied the deck",
		d.Trials, d.Mean(), d.Survived)
	box := pterm.DefaultBox.WithTitle("Expedition length").WithTitleTopCenter().Sprint(summary)
	_, err = fmt.Fprintf(w, "%s\n%s\n", box, table)
	return err
}

// PrintTournament writes the policy standings
func PrintTournament(w io.Writer, r Result, tag language.Tag) error {
	p := message.NewPrinter(tag)
	data := pterm.TableData{{"Policy", "Games", "Wins", "Win rate", "Avg treasure"}}
	for _, e := range r.Entries {
		rate := 0.0
		if e.Games > 0 {
			rate = float64(e.Wins) / float64(e.Games) * 100
		}
		data = append(data, []string{
			e.Policy,
			p.Sprintf("%d", e.Games),
			p.Sprintf("%d", e.Wins),
			p.Sprintf("%.1f%%", rate),
			p.Sprintf("%.2f", e.Average()),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	title := p.Sprintf("%d games", r.Games)
	_, err = fmt.Fprintf(w, "%s\n%s\n", pterm.DefaultBox.WithTitle("Tournament").Sprint(title), table)
	return err
}
