package main

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/tuyactl/internal/app"
	"github.com/dokzlo13/tuyactl/internal/config"
	"github.com/dokzlo13/tuyactl/internal/device"
	"github.com/dokzlo13/tuyactl/internal/device/mqttbridge"
	"github.com/dokzlo13/tuyactl/internal/intent"
)

const version = "0.1"

const description = `CLI utility for Tuya RGBW bulbs (local protocol 3.5), such as the
Ledvance Smart+ WiFi E27 A60.

The first three arguments are mandatory:
  tuyactl DEV_ID IP LOCAL_KEY [flags]

Example:
  tuyactl a1b2c3d4e5f6g7h8ijklmn 192.168.0.238 'WQ!zYx8#kLp3vBn@' --tail

LOCAL_KEY may be given as ${ENV_VAR} to read it from the environment.`

type flags struct {
	configPath string
	status     bool
	tail       string
	on         bool
	off        bool
	brightness int
	shade      int
	rgb        string
	saturation int
	raw        string
	debug      bool
	settle     time.Duration
	protocol   string
}

func main() {
	setupLogging("info", false, false)

	root := newRootCommand(&flags{})
	root.SetArgs(joinOptionalValue(os.Args[1:], "--tail"))

	if err := root.Execute(); err != nil {
		msg := "Command failed"
		if device.IsTransport(err) {
			msg = "Device communication failed"
		}
		log.Error().Err(err).Msg(msg)
		os.Exit(app.ExitCode(err))
	}
}

func newRootCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tuyactl DEV_ID IP LOCAL_KEY",
		Short:         "Control a Tuya RGBW bulb over the local network",
		Long:          description,
		Version:       version,
		Args:          exactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "Path to configuration file")
	fs.BoolVar(&f.status, "status", false, "Print current device status")
	fs.StringVar(&f.tail, "tail", "", "Continuously print status every SEC seconds (minimum 0.2)")
	fs.Lookup("tail").NoOptDefVal = "1"
	fs.BoolVar(&f.on, "on", false, "Turn on the bulb (DPS 20)")
	fs.BoolVar(&f.off, "off", false, "Turn off the bulb (DPS 20)")
	fs.IntVar(&f.brightness, "brightness", 0, "Brightness percent 1-100 (DPS 22, white mode)")
	fs.IntVar(&f.shade, "shade", 0, "Color temperature in Kelvin 2300-9000 (DPS 23, white mode)")
	fs.StringVar(&f.rgb, "rgb", "", "RGB color R,G,B with 0-255 each (DPS 24, colour mode)")
	fs.IntVar(&f.saturation, "saturation", intent.DefaultSaturation, "Saturation percent 1-100 for --rgb")
	fs.StringVar(&f.raw, "raw", "", "12-digit hex HSV string HHHHSSSSVVVV for DPS 24 (alternative to --rgb)")
	fs.BoolVar(&f.debug, "debug", false, "Enable verbose device transport logs")
	fs.DurationVar(&f.settle, "settle", 0, "Pause after a mode switch and before the final status read (default from config, 300ms)")
	fs.StringVar(&f.protocol, "protocol", "", "Device local protocol version (default from config, 3.5)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &intent.ValidationError{Reason: err.Error()}
	})

	return cmd
}

func run(cmd *cobra.Command, args []string, f *flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", f.configPath).Msg("Failed to load configuration")
	}

	level := cfg.Log.Level
	if f.debug {
		level = "debug"
	}
	setupLogging(level, cfg.Log.UseJSON, cfg.Log.Colors)
	mqttbridge.SetupLogging(f.debug)

	log.Logger = log.With().Str("invocation", uuid.NewString()).Logger()

	if f.settle > 0 {
		cfg.Command.SettleDelay = config.Duration(f.settle)
	}
	if f.protocol != "" {
		cfg.Device.ProtocolVersion = f.protocol
	}

	u, err := userIntent(cmd, f)
	if err != nil {
		return err
	}

	target := device.Target{
		DeviceID: args[0],
		Address:  args[1],
		Key:      localKey(args[2]),
		Version:  cfg.Device.ProtocolVersion,
	}

	log.Debug().
		Str("device", target.DeviceID).
		Str("address", target.Address).
		Str("version", target.Version).
		Msg("Starting tuyactl")

	dialer := mqttbridge.NewDialer(mqttbridge.Options{
		Broker:      cfg.Bridge.Broker,
		Username:    cfg.Bridge.Username,
		Password:    cfg.Bridge.Password,
		TopicPrefix: cfg.Bridge.TopicPrefix,
		ClientID:    cfg.Bridge.ClientID,
		Timeout:     cfg.Bridge.Timeout.Duration(),
	})

	return app.New(cfg, dialer, cmd.OutOrStdout()).Run(app.SignalContext(), target, u)
}

// userIntent collects the flags into a UserIntent. Numeric flags are only
// set when given explicitly.
func userIntent(cmd *cobra.Command, f *flags) (intent.UserIntent, error) {
	fs := cmd.Flags()

	u := intent.UserIntent{
		On:     f.on,
		Off:    f.off,
		Status: f.status,
		RGB:    f.rgb,
		Raw:    f.raw,
	}

	if fs.Changed("brightness") {
		u.Brightness = &f.brightness
	}
	if fs.Changed("shade") {
		u.Shade = &f.shade
	}
	if fs.Changed("saturation") {
		u.Saturation = &f.saturation
	}

	if fs.Changed("tail") {
		interval, err := parseSeconds(f.tail)
		if err != nil {
			return intent.UserIntent{}, intent.Invalid("tail", "%v", err)
		}
		u.Tail = &interval
	}

	return u, nil
}

// maxSeconds is the longest interval a time.Duration can hold.
var maxSeconds = math.Floor(float64(math.MaxInt64) / float64(time.Second))

func parseSeconds(s string) (time.Duration, error) {
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("expected seconds, got %q", s)
	}
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return 0, fmt.Errorf("expected a finite number of seconds, got %q", s)
	}
	if math.Abs(sec) > maxSeconds {
		return 0, fmt.Errorf("%q seconds is out of range (max %.0f)", s, maxSeconds)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

// envRef matches an argument that is exactly one ${VAR} or ${VAR:default}
// reference.
var envRef = regexp.MustCompile(`^\$\{[^}]+\}$`)

// localKey returns the LOCAL_KEY argument, read from the environment when it
// is a single ${VAR} reference. Any other key is used verbatim.
func localKey(arg string) string {
	if envRef.MatchString(arg) {
		return config.ExpandEnvString(arg)
	}
	return arg
}

// joinOptionalValue lets a flag with an optional value take it from the next
// argument ("--tail 5" as well as "--tail=5"), as long as that argument is a
// number.
func joinOptionalValue(args []string, name string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == name && i+1 < len(args) {
			if _, err := strconv.ParseFloat(args[i+1], 64); err == nil {
				out = append(out, name+"="+args[i+1])
				i++
				continue
			}
		}
		out = append(out, args[i])
	}
	return out
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &intent.ValidationError{
				Reason: fmt.Sprintf("expected DEV_ID IP LOCAL_KEY, got %d argument(s)", len(args)),
			}
		}
		return nil
	}
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
