package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"keybridge/apiclient"
	"keybridge/internal/configpaths"
	"keybridge/internal/util"
	"keybridge/internal/version"
	"keybridge/keypad"
)

// clientFlags are shared by every command that talks to a running daemon.
type clientFlags struct {
	Addr     string        `help:"Address of the keybridge API server" default:"127.0.0.1:4810" env:"KEYBRIDGE_ADDR"`
	Password string        `help:"API password (defaults to the local key file)" env:"KEYBRIDGE_PASSWORD"`
	Timeout  time.Duration `help:"Request timeout" default:"5s" env:"KEYBRIDGE_TIMEOUT"`
}

func (f *clientFlags) client() *apiclient.Client {
	pwd := f.Password
	if pwd == "" {
		// A daemon on the same machine wrote its generated key next to the
		// config files; picking it up makes the local CLI work untouched.
		if dir, err := configpaths.DefaultConfigDir(); err == nil {
			if b, err := os.ReadFile(path.Join(dir, keyFileName)); err == nil {
				pwd = strings.TrimSpace(string(b))
			}
		}
	}
	cfg := apiclient.Config{
		DialTimeout:  f.Timeout,
		ReadTimeout:  f.Timeout,
		WriteTimeout: f.Timeout,
		Password:     pwd,
	}
	return apiclient.NewWithConfig(f.Addr, &cfg)
}

func printResult(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// Ping checks connectivity to a running daemon.
type Ping struct {
	clientFlags
}

func (p *Ping) Run(logger *slog.Logger) error {
	resp, err := p.client().Ping()
	if err != nil {
		return err
	}
	if util.IsInteractive() {
		fmt.Printf("%s %s at %s\n", resp.Server, resp.Version, p.Addr)
		return nil
	}
	return printResult(resp)
}

// keyArg resolves the positional key argument shared by the event commands.
func keyArg(raw string) (keypad.KeyCode, error) {
	key, ok := keypad.ParseKey(raw)
	if !ok {
		return keypad.KeyInvalid, fmt.Errorf("unknown key: %q", raw)
	}
	return key, nil
}

// Press queues a virtual key press on a running daemon.
type Press struct {
	clientFlags
	Key string `arg:"" help:"Key name (MENU, UP, 0-9, ...) or decimal code"`
}

func (p *Press) Run(logger *slog.Logger) error {
	key, err := keyArg(p.Key)
	if err != nil {
		return err
	}
	resp, err := p.client().Press(key)
	if err != nil {
		return err
	}
	return printResult(resp)
}

// Release queues a virtual key release on a running daemon.
type Release struct {
	clientFlags
	Key string `arg:"" help:"Key name (MENU, UP, 0-9, ...) or decimal code"`
}

func (r *Release) Run(logger *slog.Logger) error {
	key, err := keyArg(r.Key)
	if err != nil {
		return err
	}
	resp, err := r.client().Release(key)
	if err != nil {
		return err
	}
	return printResult(resp)
}

// Tap queues a press immediately followed by its release.
type Tap struct {
	clientFlags
	Key string `arg:"" help:"Key name (MENU, UP, 0-9, ...) or decimal code"`
}

func (t *Tap) Run(logger *slog.Logger) error {
	key, err := keyArg(t.Key)
	if err != nil {
		return err
	}
	resp, err := t.client().Tap(key)
	if err != nil {
		return err
	}
	return printResult(resp)
}

// State shows the injection state of a running daemon.
type State struct {
	clientFlags
}

func (s *State) Run(logger *slog.Logger) error {
	resp, err := s.client().State()
	if err != nil {
		return err
	}
	if util.IsInteractive() {
		fmt.Printf("injected:  %s\n", resp.Injected)
		fmt.Printf("effective: %s\n", resp.Effective)
		fmt.Printf("depth:     %d\n", resp.Depth)
		return nil
	}
	return printResult(resp)
}

// Depth shows the pending event queue depth.
type Depth struct {
	clientFlags
}

func (d *Depth) Run(logger *slog.Logger) error {
	resp, err := d.client().Depth()
	if err != nil {
		return err
	}
	return printResult(resp)
}

// Version prints the build version and exits.
type Version struct{}

func (v *Version) Run() error {
	fmt.Println(version.Get())
	return nil
}
