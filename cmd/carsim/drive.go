package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/carsim/internal/config"
	"github.com/san-kum/carsim/internal/control"
	"github.com/san-kum/carsim/internal/logging"
	"github.com/san-kum/carsim/internal/physics"
	"github.com/san-kum/carsim/internal/transport"
	"github.com/san-kum/carsim/internal/tui"
)

type driveFlags struct {
	configFile  string
	vehicle     string
	dt          float64
	hold        time.Duration
	noAutoBrake bool
	wsAddr      string
	vred        bool
	vredURL     string
	scene       string
}

func newDriveCmd() *cobra.Command {
	var f driveFlags
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "drive a car from the keyboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if f.configFile != "" {
				loaded, err := config.Load(f.configFile)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				cfg = loaded
			}
			changed := cmd.Flags().Changed
			if changed("vehicle") {
				cfg.Vehicle = f.vehicle
			}
			if changed("dt") {
				cfg.Dt = f.dt
			}
			if changed("ws") {
				cfg.Transport.WebSocket = f.wsAddr
			}
			if changed("vred") {
				cfg.Transport.VRED.Enabled = f.vred
			}
			if changed("vred-url") {
				cfg.Transport.VRED.URL = f.vredURL
			}
			if changed("scene") {
				cfg.Transport.VRED.Scene = f.scene
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return drive(cmd.Context(), cfg, f)
		},
	}

	cmd.Flags().StringVar(&f.configFile, "config", "", "scenario file (yaml) for vehicle and transport")
	cmd.Flags().StringVar(&f.vehicle, "vehicle", config.DefaultVehicle, "vehicle preset")
	cmd.Flags().Float64Var(&f.dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().DurationVar(&f.hold, "hold", control.DefaultHoldWindow, "how long a key press counts as held")
	cmd.Flags().BoolVar(&f.noAutoBrake, "no-autobrake", false, "do not brake when throttle is released")
	cmd.Flags().StringVar(&f.wsAddr, "ws", "", "serve the telemetry feed on this address, e.g. :8080")
	cmd.Flags().BoolVar(&f.vred, "vred", false, "drive a model in VRED")
	cmd.Flags().StringVar(&f.vredURL, "vred-url", config.DefaultVREDURL, "VRED web server")
	cmd.Flags().StringVar(&f.scene, "scene", "", "scene file VRED loads on connect")
	return cmd
}

func drive(parent context.Context, cfg *config.Config, f driveFlags) error {
	if parent == nil {
		parent = context.Background()
	}
	if err := os.MkdirAll(dataDir(), 0755); err != nil {
		return err
	}
	logPath := filepath.Join(dataDir(), "drive.log")
	l, err := logging.NewFile(settings.GetString("log-level"), settings.GetString("log-format"), logPath)
	if err != nil {
		return err
	}
	logger = l

	vc, err := cfg.VehicleConfig()
	if err != nil {
		return err
	}
	car, err := physics.NewCar(vc)
	if err != nil {
		return err
	}
	car.SetState(cfg.GetInitState())

	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	pub := transport.NewPublisher(car, logger)
	defer pub.Close()

	if v := cfg.Transport.VRED; v.Enabled {
		sink, err := transport.DialVRED(ctx, transport.VREDOptions{
			URL:            v.URL,
			ReceiverPort:   v.ReceiverPort,
			ReceiverScript: v.ReceiverScript,
			Scene:          v.Scene,
			CarNode:        v.CarNode,
			WheelNodes:     v.WheelNodes,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to VRED: %w", err)
		}
		pub.AddSink(sink)
	}

	g, ctx := errgroup.WithContext(ctx)

	var server *http.Server
	if addr := cfg.Transport.WebSocket; addr != "" {
		hub := transport.NewHub(transport.DefaultQueueSize, logger)
		pub.AddSink(hub)

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		server = &http.Server{Handler: hub.Handler(), ReadHeaderTimeout: 5 * time.Second}
		logger.Info("telemetry feed", zap.String("addr", ln.Addr().String()))

		g.Go(func() error {
			if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	kb := control.NewKeyboard(f.hold, !f.noAutoBrake)
	model := tui.New(tui.Options{
		Car:      car,
		Keyboard: kb,
		Observer: pub,
		OnReset:  pub.ResetWheels,
		Dt:       cfg.Dt,
		Vehicle:  cfg.Vehicle,
	})

	g.Go(func() error {
		defer func() {
			if server != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}
		}()

		_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) && errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return err
	})

	logger.Info("drive session started", zap.String("vehicle", cfg.Vehicle), zap.Float64("dt", cfg.Dt))
	err = g.Wait()
	logger.Info("drive session ended", zap.Error(err))
	_ = logger.Sync()
	return err
}
