package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"keybridge/internal/configpaths"
	"keybridge/internal/log"
	"keybridge/internal/server/api"
	"keybridge/internal/server/api/auth"
	"keybridge/internal/server/api/handler"
	"keybridge/internal/server/scan"
	"keybridge/internal/util"
)

const keyFileName = "keybridge.key.txt"

// Serve runs the keybridge daemon: the keypad scan loop plus the TCP API
// that feeds it remote key events.
type Serve struct {
	ScanConfig        scan.EngineConfig `embed:"" prefix:"scan."`
	ApiServerConfig   api.ServerConfig  `embed:"" prefix:"api."`
	ConnectionTimeout time.Duration     `help:"Connection operation timeout" default:"30s" env:"KEYBRIDGE_CONNECTION_TIMEOUT"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, rawLogger)
}

func (s *Serve) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	s.ApiServerConfig.ConnectionTimeout = s.ConnectionTimeout

	logger.Info("Starting keybridge server", "addr", s.ApiServerConfig.Addr)

	keyFileDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return fmt.Errorf("failed to resolve key file path: %w", err)
	}
	keyFilePath := path.Join(keyFileDir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		s.ApiServerConfig.Password = strings.TrimSpace(string(pwd))
	} else {
		newPwd, err := auth.GenerateKey()
		if err != nil {
			return fmt.Errorf("failed to generate new API password: %w", err)
		}
		if err := os.MkdirAll(keyFileDir, 0o700); err != nil {
			return fmt.Errorf("failed to create config dir for key file: %w", err)
		}
		if err := os.WriteFile(keyFilePath, []byte(newPwd), 0o600); err != nil {
			return fmt.Errorf("failed to write new API password to file: %w", err)
		}
		s.ApiServerConfig.Password = newPwd
		logger.Info("Generated API server password", "path", keyFilePath)
		logger.Info("-------------------------------------")
		logger.Info("Your keybridge API server password is:")
		logger.Info("-------------------------------------")
		logger.Info(newPwd)
		logger.Info("-------------------------------------")
		logger.Info("You can change this password at any time by editing the file")
	}

	eng := scan.New(s.ScanConfig, nil, nil, logger)

	engErrCh := make(chan error, 1)
	engCtx, engCancel := context.WithCancel(ctx)
	defer engCancel()
	go func() {
		engErrCh <- eng.Run(engCtx)
	}()

	select {
	case err := <-engErrCh:
		return err
	case <-eng.Ready():
	}

	if s.ApiServerConfig.Addr == "" {
		logger.Error("API server address must be set (default :4810).")
		return fmt.Errorf("API server address must be set (default :4810)")
	}

	apiSrv := api.New(eng, s.ApiServerConfig.Addr, s.ApiServerConfig, logger)
	r := apiSrv.Router()
	r.Register("ping", handler.Ping())
	r.Register("key/press", handler.KeyPress(eng))
	r.Register("key/release", handler.KeyRelease(eng))
	r.Register("key/tap", handler.KeyTap(eng))
	r.Register("key/depth", handler.KeyDepth(eng))
	r.Register("key/state", handler.KeyState(eng))
	r.RegisterStream("key/stream", handler.KeyStream(rawLogger))

	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		if util.IsRunFromGUI() {
			fmt.Println("Press any key to exit...")
			var b []byte = make([]byte, 1)
			_, _ = os.Stdin.Read(b)
		}
		return err
	}

	if util.IsRunFromGUI() {
		go (func() {
			time.Sleep(250 * time.Millisecond)
			util.HideConsoleWindow()
		})()
	}

	select {
	case <-ctx.Done():
		apiSrv.Close()
		engCancel()
		<-engErrCh
		return nil
	case err := <-engErrCh:
		apiSrv.Close()
		return err
	}
}
