package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/tuyactl/internal/command"
	"github.com/dokzlo13/tuyactl/internal/config"
	"github.com/dokzlo13/tuyactl/internal/device"
	"github.com/dokzlo13/tuyactl/internal/intent"
	"github.com/dokzlo13/tuyactl/internal/orchestrator"
	"github.com/dokzlo13/tuyactl/internal/poller"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
)

// App runs one invocation against one bulb.
// It owns the device session for the duration of Run.
type App struct {
	cfg    *config.Config
	dialer device.Dialer
	out    io.Writer
}

// New creates a new App instance. Status output is written to out.
func New(cfg *config.Config, dialer device.Dialer, out io.Writer) *App {
	return &App{
		cfg:    cfg,
		dialer: dialer,
		out:    out,
	}
}

// Run validates the intent, builds the command and only then opens the
// device session, so invalid input never touches the network.
func (a *App) Run(ctx context.Context, target device.Target, u intent.UserIntent) error {
	plan, err := intent.Resolve(u)
	if err != nil {
		return err
	}

	var cmd command.Command
	if m, ok := plan.(intent.Mutate); ok {
		cmd, err = command.Build(m)
		if err != nil {
			return err
		}
	}

	if target.Version == "" {
		target.Version = a.cfg.Device.ProtocolVersion
	}

	session, err := a.dialer.Dial(ctx, target)
	if err != nil {
		return device.Wrap(device.OpConnect, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close device session")
		}
	}()

	switch p := plan.(type) {
	case intent.Tail:
		return poller.New(session, p.Interval, a.out).Run(ctx)

	case intent.StatusOnly:
		status, err := session.Status(ctx)
		if err != nil {
			return device.Wrap(device.OpRead, err)
		}
		return a.report(status)

	case intent.Mutate:
		log.Debug().Int("steps", len(cmd)).Msg("Executing command")
		status, err := orchestrator.New(session, a.cfg.Command.SettleDelay.Duration()).Execute(ctx, cmd)
		if err != nil {
			return err
		}
		return a.report(status)
	}

	return fmt.Errorf("unsupported plan %T", plan)
}

func (a *App) report(status device.Status) error {
	_, err := fmt.Fprintln(a.out, status)
	return err
}

// ExitCode maps an error returned by Run to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case intent.IsValidation(err):
		return ExitValidation
	default:
		return ExitFailure
	}
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
