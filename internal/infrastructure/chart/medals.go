package chart

import (
	"bytes"
	"fmt"

	"github.com/riskibarqy/federation-awards/internal/domain/results"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	PNGContentType = "image/png"
	maxClubs       = 15
)

var (
	goldColor   = drawing.ColorFromHex("d4af37")
	silverColor = drawing.ColorFromHex("a8a9ad")
	bronzeColor = drawing.ColorFromHex("cd7f32")
	textColor   = drawing.ColorFromHex("333333")
)

// MedalRenderer draws a stacked bar per club: gold, silver, bronze.
type MedalRenderer struct {
	Width  int
	Height int
}

func NewMedalRenderer() MedalRenderer {
	return MedalRenderer{Width: 900, Height: 480}
}

func (MedalRenderer) ContentType() string {
	return PNGContentType
}

func (m MedalRenderer) RenderMedals(res results.CompetitionResults) ([]byte, error) {
	tally := res.TallyByClub()
	if len(tally) == 0 {
		return renderNoData("No medals awarded yet")
	}
	if len(tally) > maxClubs {
		tally = tally[:maxClubs]
	}

	bars := make([]gochart.StackedBar, 0, len(tally))
	for _, club := range tally {
		bars = append(bars, gochart.StackedBar{
			Name: club.ClubName,
			Values: []gochart.Value{
				{Label: "Gold", Value: float64(club.Gold), Style: gochart.Style{FillColor: goldColor, StrokeColor: goldColor}},
				{Label: "Silver", Value: float64(club.Silver), Style: gochart.Style{FillColor: silverColor, StrokeColor: silverColor}},
				{Label: "Bronze", Value: float64(club.Bronze), Style: gochart.Style{FillColor: bronzeColor, StrokeColor: bronzeColor}},
			},
		})
	}

	graph := gochart.StackedBarChart{
		Title:      res.Competition.Name + " - medals by club",
		TitleStyle: gochart.Style{FontColor: textColor},
		Width:      m.Width,
		Height:     m.Height,
		XAxis:      gochart.Style{FontColor: textColor, TextRotationDegrees: 45},
		YAxis:      gochart.Style{FontColor: textColor},
		Bars:       bars,
	}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(gochart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render medal chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoData(msg string) ([]byte, error) {
	graph := gochart.Chart{
		Width:  400,
		Height: 200,
		Elements: []gochart.Renderable{
			func(r gochart.Renderer, cb gochart.Box, _ gochart.Style) {
				r.SetFontColor(textColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(gochart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render placeholder chart: %w", err)
	}
	return buffer.Bytes(), nil
}
