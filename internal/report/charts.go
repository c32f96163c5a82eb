package report

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var palette = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255}, // blue
	color.RGBA{R: 255, G: 127, B: 14, A: 255}, // orange
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
}

func seriesColor(i int) color.Color {
	return palette[i%len(palette)]
}

// ScoresPlot draws component scores over time as lines.
func ScoresPlot(series []ScoreSeries) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "PCA of standardized mortality rates 60+ (per 100,000)"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Component value"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range series {
		points := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			points[j].X = float64(s.Dates[j].Unix())
			points[j].Y = v
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, err
		}
		line.Color = seriesColor(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	return p, nil
}

// LoadingsPlot draws component loadings per age band as grouped bars.
func LoadingsPlot(series []LoadingSeries) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Contribution of age groups to PC1 and PC2 (standardized)"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Component loading"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	width := vg.Points(18)
	for i, s := range series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return nil, err
		}
		bars.Color = seriesColor(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(float64(i)-float64(len(series)-1)/2)
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}

	if len(series) > 0 {
		labels := make([]string, len(series[0].Bands))
		for i, b := range series[0].Bands {
			labels[i] = b.String()
		}
		p.NominalX(labels...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return p, nil
}
