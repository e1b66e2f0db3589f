package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"objradar.klederson.com/internal/app"
	"objradar.klederson.com/internal/config"
	"objradar.klederson.com/internal/detection"
	"objradar.klederson.com/internal/logging"
	"objradar.klederson.com/internal/speech"
)

var (
	flagDemo        bool
	flagDevice      int
	flagModel       string
	flagModelConfig string
	flagLabels      string
	flagConfig      string
	flagFilterClass string
	flagNoVoice     bool
	flagSpeechCmd   string
	flagLogFile     string
	flagDebug       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "objradar",
		Short: "Object Radar - camera object detections on a terminal radar scope",
		Long: `Object Radar runs an object detector on camera frames and plots every
detected object as a contact on a rotating ASCII radar, with the camera's
bounding boxes shown alongside and spoken counts of what was found.

Real capture needs a binary built with -tags gocv and a detection model.
Use --demo flag for demonstration mode without a camera or model.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run in demo mode with synthetic detections (no camera required)")
	rootCmd.Flags().IntVar(&flagDevice, "device", 0, "Camera device index")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "Detection model weights (.onnx, .pb, .weights)")
	rootCmd.Flags().StringVar(&flagModelConfig, "model-config", "", "Detection model config, if the format needs one")
	rootCmd.Flags().StringVar(&flagLabels, "labels", "", "Class labels file, one per line (default: COCO)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "JSON settings file")
	rootCmd.Flags().StringVar(&flagFilterClass, "filter-class", "", "Class selected by the filter key (default \"person\")")
	rootCmd.Flags().BoolVar(&flagNoVoice, "no-voice", false, "Start with voice notifications muted")
	rootCmd.Flags().StringVar(&flagSpeechCmd, "speech-cmd", "", "Speech command, e.g. \"espeak -s 160\"")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log, logCloser, err := logging.Open(flagLogFile, flagDebug)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	cam, src, sourceName, err := openSource(settings, log)
	if err != nil {
		if errors.Is(err, detection.ErrNoCapture) {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			fmt.Fprintln(os.Stderr, "Camera capture is not compiled into this binary.")
			fmt.Fprintln(os.Stderr, "Try one of:")
			fmt.Fprintln(os.Stderr, "  go build -tags gocv .   (needs OpenCV 4)")
			fmt.Fprintln(os.Stderr, "  ./objradar --demo       (demo mode, no hardware needed)")
		}
		return err
	}

	sink, closeSink := openSink(settings.SpeechCommand, log)
	defer closeSink()

	model := app.New(app.Options{
		Settings:   settings,
		Camera:     cam,
		Source:     src,
		Sink:       sink,
		SourceName: sourceName,
		Log:        log,
	})
	defer func() {
		if err := model.Close(); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithFields(logrus.Fields{
		"source": sourceName,
		"poll":   settings.Poll(),
		"fps":    settings.FPS,
		"filter": settings.ActiveFilter,
	}).Info("starting")

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(settings.FPS),
	)

	_, err = p.Run()
	return err
}

// loadSettings reads --config when given and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		settings = loaded
	}

	if cmd.Flags().Changed("filter-class") {
		settings.FilterClass = flagFilterClass
	}
	if flagNoVoice {
		settings.VoiceEnabled = false
	}
	if flagSpeechCmd != "" {
		settings.SpeechCommand = flagSpeechCmd
	}
	return settings, settings.Validate()
}

// openSource returns the frame and detection sources.
func openSource(settings *config.Settings, log logrus.FieldLogger) (detection.Camera, detection.Source, string, error) {
	if flagDemo {
		src := detection.NewMockSource(time.Now().UnixNano()).WithLatency(120 * time.Millisecond)
		return detection.NewMockCamera(settings.FrameWidth, settings.FrameHeight), src, "demo", nil
	}

	if flagModel == "" {
		return nil, nil, "", errors.New("--model is required unless --demo is set")
	}

	cam, err := detection.OpenCamera(flagDevice, settings.FrameWidth, settings.FrameHeight)
	if err != nil {
		return nil, nil, "", fmt.Errorf("open camera %d: %w", flagDevice, err)
	}
	src, err := detection.OpenModel(flagModel, flagModelConfig, flagLabels)
	if err != nil {
		cam.Close()
		return nil, nil, "", fmt.Errorf("open model: %w", err)
	}

	log.WithFields(logrus.Fields{"device": flagDevice, "model": flagModel}).Info("camera and model ready")
	return cam, src, fmt.Sprintf("camera %d", flagDevice), nil
}

// openSink picks the speech engine. Without one, notifications only reach
// the log and the status bar.
func openSink(command string, log logrus.FieldLogger) (speech.Sink, func()) {
	logSink := speech.LogSink{Log: log.WithField("component", "speech")}

	name, args, err := speech.FindEngine(command)
	if err != nil {
		log.WithError(err).Warn("voice notifications disabled")
		return logSink, func() {}
	}

	cs := speech.NewCommandSink(name, args, log.WithField("component", "speech"))
	return speech.Multi{cs, logSink}, func() { cs.Close() }
}
