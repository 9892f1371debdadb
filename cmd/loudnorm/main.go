// Command loudnorm normalizes the loudness of PCM audio files using
// ITU-R BS.1770-4 / EBU R128 metering.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-loudnorm/loudnorm/internal/adapter"
	"github.com/go-loudnorm/loudnorm/internal/cli"
	"github.com/go-loudnorm/loudnorm/internal/tui"
	"github.com/go-loudnorm/loudnorm/pkg/audio"
	"github.com/go-loudnorm/loudnorm/pkg/dsp/apply"
	"github.com/go-loudnorm/loudnorm/pkg/dsp/dynamics"
)

var version = "0.1.0"

// The decode step always asks ffmpeg to mix down or up to stereo; the DSP
// core treats channel count as a property of the decoded buffer from that
// point on.
const decodeChannels = 2

// CLI defines the loudnorm command-line interface.
type CLI struct {
	Version bool     `short:"v" help:"Show version information"`
	Method  string   `short:"m" default:"lufs" help:"Normalization method: peak, rms, lufs, dynamic"`
	Target  float64  `short:"t" default:"-14" help:"Target level in dB or LUFS, depending on method"`
	Ceiling float64  `short:"c" default:"-1.0" help:"True-peak ceiling in dBTP (lufs and dynamic methods)"`
	Preset  string   `short:"p" default:"voice" help:"Dynamic preset: voice, meditation, music"`
	Rate    int      `default:"48000" help:"Working sample rate for decode"`
	Analyze bool     `name:"analyze-only" help:"Analyze only: print measurements and exit without writing output"`
	Files   []string `arg:"" name:"files" help:"Audio files to normalize" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("loudnorm"),
		kong.Description("Loudness normalization for PCM audio"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Help(cli.HelpPrinter),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if len(cliArgs.Files) == 0 {
		cli.PrintError("no input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	cfg, err := buildConfig(cliArgs)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	if cliArgs.Analyze {
		runAnalyzeOnly(cliArgs.Files, cfg, cliArgs.Rate)
		return
	}

	runInteractive(cliArgs.Files, cfg, cliArgs.Rate)
}

func buildConfig(cliArgs *CLI) (audio.NormalizationConfig, error) {
	switch strings.ToLower(cliArgs.Method) {
	case "peak":
		return audio.PeakNormalization(cliArgs.Target), nil
	case "rms":
		return audio.RMSNormalization(cliArgs.Target), nil
	case "lufs":
		return audio.LUFSNormalization(cliArgs.Target, cliArgs.Ceiling), nil
	case "dynamic":
		dyn := dynamicPreset(cliArgs.Preset)
		dyn.TruePeakLimitDB = cliArgs.Ceiling
		return audio.DynamicNormalization(dyn), nil
	default:
		return audio.NormalizationConfig{}, fmt.Errorf("unknown method %q: want peak, rms, lufs, or dynamic", cliArgs.Method)
	}
}

func dynamicPreset(name string) dynamics.Config {
	switch strings.ToLower(name) {
	case "meditation":
		return dynamics.MeditationConfig()
	case "music":
		return dynamics.MusicConfig()
	default:
		return dynamics.VoiceConfig()
	}
}

// runAnalyzeOnly decodes and measures every file without re-encoding,
// reusing the façade's measurement pass per the CLI's dry-run mode.
func runAnalyzeOnly(paths []string, cfg audio.NormalizationConfig, rate int) {
	ctx := context.Background()
	exitCode := 0

	for _, path := range paths {
		buf, err := adapter.Decode(ctx, path, rate, decodeChannels)
		if err != nil {
			cli.PrintError(fmt.Sprintf("%s: %v", path, err))
			exitCode = 1
			continue
		}

		result, err := audio.Analyze(buf, cfg)
		if err != nil {
			cli.PrintError(fmt.Sprintf("%s: %v", path, err))
			exitCode = 1
			continue
		}

		if result.Dynamic != nil && len(result.Dynamic.FinalGain) == 1 {
			cli.PrintWarning(fmt.Sprintf("%s: shorter than two frames, dynamic normalization degrades to unit gain", path))
		}

		cli.PrintAnalysis(path, result)
	}

	os.Exit(exitCode)
}

// runInteractive processes every file with the bubbletea progress display,
// applying the solved gain and writing normalized output alongside the
// source with a "-normalized" suffix.
func runInteractive(paths []string, cfg audio.NormalizationConfig, rate int) {
	model := tui.NewModel(paths)
	program := tea.NewProgram(model)

	go func() {
		for i, path := range paths {
			program.Send(tui.FileStartMsg{FileIndex: i, Path: path})

			gainDB, truePeakDB, err := processFile(program, i, path, cfg, rate)
			program.Send(tui.FileCompleteMsg{FileIndex: i, GainDB: gainDB, TruePeakDB: truePeakDB, Error: err})
		}
		program.Send(tui.AllCompleteMsg{})
	}()

	if _, err := program.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("ui error: %v", err))
		os.Exit(1)
	}
}

func processFile(program *tea.Program, index int, path string, cfg audio.NormalizationConfig, rate int) (gainDB, truePeakDB float64, err error) {
	ctx := context.Background()

	buf, err := adapter.Decode(ctx, path, rate, decodeChannels)
	if err != nil {
		return 0, 0, err
	}
	program.Send(tui.ProgressMsg{FileIndex: index, Stage: "analyze", Progress: 1.0})

	result, err := audio.Analyze(buf, cfg)
	if err != nil {
		return 0, 0, err
	}

	gainDB = result.Preview.AppliedGainDB
	truePeakDB = result.Preview.After.TruePeakDB

	if result.Dynamic != nil {
		apply.Envelope(buf.Samples, result.Dynamic.FinalGain, result.Dynamic.FrameSamples)
	} else {
		apply.Scalar(buf.Samples, result.RequiredGain)
	}

	outPath := outputPath(path)
	progress := func(fraction float64) {
		program.Send(tui.ProgressMsg{FileIndex: index, Stage: "encode", Progress: fraction})
	}

	if err := adapter.Encode(ctx, outPath, buf, progress); err != nil {
		return gainDB, truePeakDB, err
	}

	return gainDB, truePeakDB, nil
}

func outputPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + "-normalized" + ext
}

