package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/carsim/internal/dynamo"
)

const (
	vredTimeout    = 5 * time.Second
	vredWriteWait  = time.Second
	cmdTerminator  = "|"
	wheelFrontLeft = "front_left_wheel"
)

var wheelVars = [4]string{wheelFrontLeft, "front_right_wheel", "rear_left_wheel", "rear_right_wheel"}

type VREDOptions struct {
	// URL of the VRED web server, e.g. http://localhost:8888.
	URL            string
	ReceiverPort   int
	ReceiverScript string
	// Scene is loaded into a fresh scene when set.
	Scene      string
	CarNode    string
	WheelNodes [4]string // front left, front right, rear left, rear right
	Timeout    time.Duration
}

// VRED drives a car model inside a running VRED instance. Setup goes
// through the web server's python endpoints; per-frame updates go through
// a receiver socket as '|'-terminated python statements.
type VRED struct {
	opts   VREDOptions
	base   *url.URL
	client *http.Client
	logger *zap.Logger

	mu   sync.Mutex
	conn net.Conn
}

// DialVRED prepares the scene, starts the receiver and connects to it.
func DialVRED(ctx context.Context, opts VREDOptions, logger *zap.Logger) (*VRED, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = vredTimeout
	}
	base, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("vred url: %w", err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("vred url %q has no host", opts.URL)
	}

	v := &VRED{
		opts:   opts,
		base:   base,
		client: &http.Client{Timeout: opts.Timeout},
		logger: logger.With(zap.String("vred", base.Host)),
	}

	if opts.Scene != "" {
		if err := v.Exec(ctx, "newScene()"); err != nil {
			return nil, err
		}
		if err := v.Exec(ctx, fmt.Sprintf("load(%q)", opts.Scene)); err != nil {
			return nil, err
		}
	}

	if _, err := v.Eval(ctx, fmt.Sprintf("load(%q)", opts.ReceiverScript)); err != nil {
		return nil, err
	}
	if err := v.Exec(ctx, fmt.Sprintf("receiver = VRReceiver(%d)", opts.ReceiverPort)); err != nil {
		return nil, err
	}
	if err := v.Exec(ctx, "receiver.setActive(true)"); err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(base.Hostname(), strconv.Itoa(opts.ReceiverPort))
	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect receiver %s: %w", addr, err)
	}
	v.conn = conn
	v.logger.Info("receiver connected", zap.String("addr", addr))

	setup := []string{fmt.Sprintf("car = findNode(%q)", opts.CarNode)}
	for i, node := range opts.WheelNodes {
		setup = append(setup, fmt.Sprintf("%s = findNode(%q)", wheelVars[i], node))
	}
	if err := v.write(setup...); err != nil {
		return nil, err
	}
	return v, nil
}

// Exec runs a python statement through the web server.
func (v *VRED) Exec(ctx context.Context, cmd string) error {
	_, err := v.get(ctx, "/python", cmd)
	return err
}

// Eval runs a python expression through the web server and returns its
// result as text.
func (v *VRED) Eval(ctx context.Context, cmd string) (string, error) {
	return v.get(ctx, "/pythoneval", cmd)
}

func (v *VRED) get(ctx context.Context, path, cmd string) (string, error) {
	u := *v.base
	u.Path = path
	u.RawQuery = "value=" + escapeValue(cmd)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vred %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("vred %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vred %s: %s", path, resp.Status)
	}
	v.logger.Debug("vred command", zap.String("path", path), zap.String("cmd", cmd))
	return string(body), nil
}

// escapeValue percent-encodes spaces as %20 rather than '+'.
func escapeValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Send poses the car and its wheels.
func (v *VRED) Send(f Frame) error {
	return v.write(FrameCommands(f)...)
}

// FrameCommands are the receiver statements for one frame.
func FrameCommands(f Frame) []string {
	m := TransformMatrix(f.X, f.Y, f.Heading)
	vals := make([]string, len(m))
	for i, x := range m {
		vals[i] = formatNum(x)
	}

	rot := formatNum(f.WheelRotation)
	steer := formatNum(f.SteerAngle)
	return []string{
		fmt.Sprintf("car.setTransformMatrix([%s], true)", strings.Join(vals, ",")),
		fmt.Sprintf("%s.setRotation(0,%s,%s)", wheelVars[0], rot, steer),
		fmt.Sprintf("%s.setRotation(0,%s,%s)", wheelVars[1], rot, steer),
		fmt.Sprintf("%s.setRotation(0,%s,0)", wheelVars[2], rot),
		fmt.Sprintf("%s.setRotation(0,%s,0)", wheelVars[3], rot),
	}
}

// TransformMatrix is the row-major 4x4 pose of the model: a rotation about
// z by heading plus half a turn (the model faces -x) followed by the
// translation in millimetres.
func TransformMatrix(x, y, heading float64) [16]float64 {
	sn, cs := math.Sincos(heading + math.Pi)
	return [16]float64{
		cs, sn, 0, 0,
		-sn, cs, 0, 0,
		0, 0, 1, 0,
		x * 1000, y * 1000, 0, 1,
	}
}

func formatNum(x float64) string {
	if x == 0 {
		x = 0 // drop negative zero
	}
	return strconv.FormatFloat(x, 'g', 10, 64)
}

func (v *VRED) write(cmds ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.conn == nil {
		return dynamo.ErrNotConnected
	}

	var b strings.Builder
	for _, c := range cmds {
		b.WriteString(c)
		b.WriteString(cmdTerminator)
	}

	if err := v.conn.SetWriteDeadline(time.Now().Add(vredWriteWait)); err != nil {
		return v.fail(err)
	}
	if _, err := io.WriteString(v.conn, b.String()); err != nil {
		return v.fail(err)
	}
	return nil
}

// fail handles a write error; v.mu is held. A peer reset means VRED went
// away and the sink is closed for good.
func (v *VRED) fail(err error) error {
	if !isDisconnect(err) {
		return fmt.Errorf("vred write: %w", err)
	}
	_ = v.conn.Close()
	v.conn = nil
	v.logger.Warn("connection terminated by VRED", zap.Error(err))
	return fmt.Errorf("%w: %v", dynamo.ErrNotConnected, err)
}

func isDisconnect(err error) bool {
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.EOF)
}

// Connected reports whether the receiver socket is still open.
func (v *VRED) Connected() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.conn != nil
}

func (v *VRED) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.conn == nil {
		return nil
	}
	err := v.conn.Close()
	v.conn = nil
	return err
}
