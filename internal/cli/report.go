package cli

import (
	"fmt"
	"math"

	"github.com/go-loudnorm/loudnorm/pkg/audio"
)

// PrintAnalysis renders an AudioAnalysis for --analyze-only, reusing the
// same key/value styling as PrintVersion.
func PrintAnalysis(path string, result audio.AudioAnalysis) {
	fmt.Println(heading.Render(path))

	row := func(key, val string) {
		fmt.Printf("  %s %s\n", label.Render(key+":"), value.Render(val))
	}

	row("Peak", fmt.Sprintf("%.2f dB", result.PeakDB))
	row("RMS", fmt.Sprintf("%.2f dB", result.RMSDB))
	row("Integrated", fmt.Sprintf("%.2f LUFS", result.Integrated))
	if result.ShortTerm != nil {
		row("Short-term", fmt.Sprintf("%.2f LUFS", *result.ShortTerm))
	}
	if result.Range != nil {
		row("Loudness range", fmt.Sprintf("%.2f LU", *result.Range))
	}
	row("True peak", fmt.Sprintf("%.2f dBTP", result.TruePeakDB))
	row("Required gain", fmt.Sprintf("%.3fx (%.2f dB)", result.RequiredGain, linearToDB(result.RequiredGain)))

	if result.Dynamic != nil {
		row("Problem spots", fmt.Sprintf("%d", len(result.Dynamic.ProblemSpots)))
		for _, spot := range result.Dynamic.ProblemSpots {
			tag := "too loud"
			if spot.TooQuiet {
				tag = "too quiet"
			}
			fmt.Printf("    frame %d (%.2fs): %.2f dB, %s\n", spot.FrameIndex, spot.Time, spot.GainDB, tag)
		}
	}

	row("Preview", fmt.Sprintf("%s gain %.2f dB -> peak %.2f dB, rms %.2f dB, true peak %.2f dB",
		result.Preview.Method, result.Preview.AppliedGainDB,
		result.Preview.After.PeakDB, result.Preview.After.RMSDB, result.Preview.After.TruePeakDB))
}

func linearToDB(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}
