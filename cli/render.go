package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"meteo/forecast"
	"meteo/manager"
)

func printSuggestions(cmd *cobra.Command, locations []manager.Location) {
	if len(locations) == 0 {
		cmd.Printf("no matches\n")
		return
	}
	for i, location := range locations {
		cmd.Printf("%2d  %-10d %s\n", i+1, location.ID, location.Title())
	}
}

// render prints the state the way the widget lays it out: header, current cards,
// the 24 hour strip and the 7 day strip. A failed fetch is returned after printing
// whatever snapshot is still shown.
func render(cmd *cobra.Command, state manager.State) error {
	if state.Selected != nil {
		cmd.Printf("LOCATION\t %s\n", state.Selected.Title())
	}

	if state.Snapshot != nil {
		view := forecast.NewView(state.Selected, *state.Snapshot)

		cmd.Printf("TEMPERATURE\t %v°C\n", view.Current.Temperature)
		cmd.Printf("WIND SPEED\t %v km/h\n", view.Current.WindSpeed)
		cmd.Printf("RAIN\t\t %v mm\n", view.Current.Rain)
		if view.Current.Humidity != nil {
			cmd.Printf("HUMIDITY\t %v%%\n", *view.Current.Humidity)
		}

		cmd.Printf("\nHOUR\t\t")
		for _, hour := range view.Hourly {
			cmd.Printf("%5s  ", hour.Label)
		}
		cmd.Printf("\nSKY\t\t")
		for _, hour := range view.Hourly {
			cmd.Printf("%5s  ", hour.Icon)
		}
		cmd.Printf("\nTEMP\t\t")
		for _, hour := range view.Hourly {
			cmd.Printf("%5.1f  ", hour.Temperature)
		}
		cmd.Printf("\n")

		cmd.Printf("\nDAY\t\t")
		for _, day := range view.Daily {
			cmd.Printf("%5s  ", day.Day)
		}
		cmd.Printf("\nSKY\t\t")
		for _, day := range view.Daily {
			cmd.Printf("%5s  ", day.Icon)
		}
		cmd.Printf("\nTEMP\t\t")
		for _, day := range view.Daily {
			cmd.Printf("%5.1f  ", day.Temperature)
		}
		cmd.Printf("\nHUMIDITY\t")
		for _, day := range view.Daily {
			cmd.Printf("%5.0f  ", day.Humidity)
		}
		cmd.Printf("\nWIND\t\t")
		for _, day := range view.Daily {
			cmd.Printf("%5.1f  ", day.WindSpeed)
		}
		cmd.Printf("\n")
	}

	if state.Error != "" {
		return errors.New(state.Error)
	}
	return nil
}
